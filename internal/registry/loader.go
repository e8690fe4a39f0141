package registry

import (
	"errors"
	goplugin "plugin"
)

// Loader resolves module binaries into the client types they define.
type Loader interface {
	Load(path string) ([]ClientType, error)
}

// GoPluginLoader uses the Go standard library plugin mechanism to
// dynamically load modules.
type GoPluginLoader struct{}

// Load opens the shared object and searches for a `ClientTypes` symbol
// listing the client types the module defines.
func (GoPluginLoader) Load(path string) ([]ClientType, error) {
	if path == "" {
		return nil, errors.New("module path cannot be empty")
	}
	so, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	symbol, err := so.Lookup("ClientTypes")
	if err != nil {
		return nil, err
	}
	switch t := symbol.(type) {
	case []ClientType:
		return t, nil
	case *[]ClientType:
		if t == nil {
			return nil, errors.New("ClientTypes symbol is nil")
		}
		return *t, nil
	case func() []ClientType:
		return t(), nil
	default:
		return nil, errors.New("ClientTypes symbol must be a []registry.ClientType")
	}
}
