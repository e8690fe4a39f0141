package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/resolution"
	"github.com/himanshuyadav1034/vsts-task-lib/pkg/logger"
)

// Registry is the process type table: the set of remote-client types that
// are currently loaded, plus the modules they arrived in. Module loading is
// monotonic for the life of the process; nothing is ever unloaded.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]ClientType
	modules map[string]struct{}
	loader  Loader
	log     *slog.Logger
}

// Option modifies the behaviour of a Registry instance.
type Option func(*Registry)

// WithLoader overrides the default module loader implementation.
func WithLoader(loader Loader) Option {
	return func(r *Registry) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithLogger overrides the default component logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New constructs an empty registry backed by the Go plugin loader.
func New(opts ...Option) *Registry {
	r := &Registry{
		types:   make(map[string]ClientType),
		modules: make(map[string]struct{}),
		loader:  GoPluginLoader{},
		log:     logger.DiagNamed("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterType adds a client type to the table. Re-registering a name is an
// idempotent no-op when the type came from a repeated module load.
func (r *Registry) RegisterType(t ClientType) error {
	if t.Name == "" {
		return errors.New("client type name cannot be empty")
	}
	if t.New == nil {
		return fmt.Errorf("client type %s has no constructor", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
	return nil
}

// Lookup probes the type table for a fully qualified type name. A panic
// while probing is treated as a miss; the probe must never crash the caller.
func (r *Registry) Lookup(typeName string) (t ClientType, found bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Debug("type table probe panicked", "type", typeName, "panic", rec)
			found = false
		}
	}()
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, found = r.types[typeName]
	return t, found
}

// Resolve reports whether typeName is loadable. A type already in the table
// resolves immediately with no filesystem access. Otherwise, when a fallback
// module path is given and exists on disk, the module is loaded and the
// table is probed once more. A missing fallback file is a normal miss, not
// an error; a module that fails to load is a hard configuration error.
func (r *Registry) Resolve(typeName, fallbackModulePath string) (bool, error) {
	if _, ok := r.Lookup(typeName); ok {
		return true, nil
	}
	if fallbackModulePath == "" {
		return false, nil
	}
	if _, err := os.Stat(fallbackModulePath); err != nil {
		r.log.Debug("no fallback module on disk",
			"type", typeName, "path", fallbackModulePath)
		return false, nil
	}
	if err := r.LoadModule(fallbackModulePath); err != nil {
		return false, err
	}
	_, ok := r.Lookup(typeName)
	return ok, nil
}

// LoadModule loads a module file and registers the client types it defines.
func (r *Registry) LoadModule(path string) error {
	types, err := r.loader.Load(path)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeModuleLoad, err, "load module "+path,
			xerrors.WithMetadata("path", path))
	}
	for _, t := range types {
		if err := r.RegisterType(t); err != nil {
			return xerrors.Wrap(xerrors.CodeModuleLoad, err, "register types from "+path,
				xerrors.WithMetadata("path", path))
		}
	}
	name := moduleName(path)
	r.mu.Lock()
	r.modules[name] = struct{}{}
	r.mu.Unlock()
	r.log.Debug("module loaded", "module", name, "path", path, "types", len(types))
	return nil
}

// RequireModule resolves a dependency module by its qualified identifier.
// An active resolution override that matches the request is honoured first;
// otherwise the request resolves against the already-loaded module set and
// misses surface as *resolution.ModuleNotFoundError.
func (r *Registry) RequireModule(qualifiedName string) error {
	qn, err := resolution.ParseQualifiedName(qualifiedName)
	if err != nil {
		return err
	}
	if ov, ok := resolution.ActiveOverride(); ok && ov.Matches(qualifiedName) {
		r.log.Debug("resolution override matched",
			"requested", qualifiedName, "replacement", ov.ReplacementPath)
		return r.LoadModule(ov.ReplacementPath)
	}
	r.mu.RLock()
	_, loaded := r.modules[qn.Name]
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return &resolution.ModuleNotFoundError{Requested: qualifiedName}
}

// Loaded returns the simple names of the modules loaded so far.
func (r *Registry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}

// Types returns the names of the client types currently in the table.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// moduleName derives a module's simple name from its file path.
func moduleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// EntryDirectory is the directory containing the running entry point, used
// as the default location for fallback modules. It degrades to the working
// directory when the executable path cannot be determined.
func EntryDirectory() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
