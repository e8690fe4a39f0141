package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config describes the modules a task wants loaded before it starts
// constructing clients.
type Config struct {
	ModuleDir string         `yaml:"moduleDir"`
	Modules   []ModuleConfig `yaml:"modules"`
}

// ModuleConfig is the configuration block for a single preloaded module.
type ModuleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoadConfig reads a YAML file into a Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("config path cannot be empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read registry config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal registry config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c Config) Validate() error {
	for i, module := range c.Modules {
		if !module.Enabled {
			continue
		}
		if module.Path == "" {
			return fmt.Errorf("module %d path cannot be empty when enabled", i)
		}
	}
	return nil
}

// Preload loads every enabled module from the configuration. Relative paths
// resolve under ModuleDir.
func (r *Registry) Preload(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, module := range cfg.Modules {
		if !module.Enabled {
			continue
		}
		path := module.Path
		if !filepath.IsAbs(path) && cfg.ModuleDir != "" {
			path = filepath.Join(cfg.ModuleDir, path)
		}
		if err := r.LoadModule(path); err != nil {
			return err
		}
	}
	return nil
}
