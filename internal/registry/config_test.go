package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.yaml")
	raw := `
moduleDir: /opt/task/modules
modules:
  - enabled: true
    path: Microsoft.TeamFoundation.Build.WebApi.so
  - enabled: false
    path: Microsoft.TeamFoundation.Core.WebApi.so
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ModuleDir != "/opt/task/modules" {
		t.Fatalf("unexpected module dir %q", cfg.ModuleDir)
	}
	if len(cfg.Modules) != 2 || !cfg.Modules[0].Enabled || cfg.Modules[1].Enabled {
		t.Fatalf("unexpected modules %+v", cfg.Modules)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsEnabledWithoutPath(t *testing.T) {
	cfg := Config{Modules: []ModuleConfig{{Enabled: true}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	loader := &fakeLoader{types: map[string][]ClientType{
		"Vendor.Area.WebApi.so": {newClientType("Vendor.Area.WebApi.FooHttpClient")},
	}}
	reg := New(WithLoader(loader))

	cfg := Config{
		ModuleDir: dir,
		Modules: []ModuleConfig{
			{Enabled: true, Path: "Vendor.Area.WebApi.so"},
			{Enabled: false, Path: "Skipped.so"},
		},
	}
	if err := reg.Preload(cfg); err != nil {
		t.Fatalf("preload: %v", err)
	}
	if len(loader.calls) != 1 || loader.calls[0] != filepath.Join(dir, "Vendor.Area.WebApi.so") {
		t.Fatalf("unexpected loads %v", loader.calls)
	}
	if _, ok := reg.Lookup("Vendor.Area.WebApi.FooHttpClient"); !ok {
		t.Fatal("expected preloaded type in the table")
	}
}
