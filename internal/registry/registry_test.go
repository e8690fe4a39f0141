package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/resolution"
)

type fakeLoader struct {
	types map[string][]ClientType
	calls []string
	err   error
}

func (f *fakeLoader) Load(path string) ([]ClientType, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.types[filepath.Base(path)], nil
}

func newClientType(name string) ClientType {
	return ClientType{
		Name: name,
		New: func(baseURL string, cred Credential) (any, error) {
			return baseURL, nil
		},
	}
}

func writeModuleFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("module"), 0o644); err != nil {
		t.Fatalf("write module file: %v", err)
	}
	return path
}

func TestResolveAlreadyLoaded(t *testing.T) {
	loader := &fakeLoader{}
	reg := New(WithLoader(loader))
	if err := reg.RegisterType(newClientType("Vendor.Area.WebApi.FooHttpClient")); err != nil {
		t.Fatalf("register: %v", err)
	}

	fallback := writeModuleFile(t, t.TempDir(), "Vendor.Area.WebApi.so")
	ok, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if len(loader.calls) != 0 {
		t.Fatalf("expected no module load for an already loaded type, got %v", loader.calls)
	}
}

func TestResolveNoFallback(t *testing.T) {
	loader := &fakeLoader{}
	reg := New(WithLoader(loader))

	ok, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ok {
		t.Fatal("expected resolution to fail without a fallback")
	}
	if len(loader.calls) != 0 {
		t.Fatalf("expected no module load, got %v", loader.calls)
	}
}

func TestResolveFallbackAbsentOnDisk(t *testing.T) {
	loader := &fakeLoader{}
	reg := New(WithLoader(loader))

	fallback := filepath.Join(t.TempDir(), "Vendor.Area.WebApi.so")
	ok, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ok {
		t.Fatal("expected resolution to fail when fallback file is absent")
	}
	if len(loader.calls) != 0 {
		t.Fatalf("expected no module load for a missing file, got %v", loader.calls)
	}
}

func TestResolveLoadsFallbackModule(t *testing.T) {
	loader := &fakeLoader{types: map[string][]ClientType{
		"Vendor.Area.WebApi.so": {newClientType("Vendor.Area.WebApi.FooHttpClient")},
	}}
	reg := New(WithLoader(loader))

	fallback := writeModuleFile(t, t.TempDir(), "Vendor.Area.WebApi.so")
	ok, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed after loading the fallback")
	}
	if len(loader.calls) != 1 {
		t.Fatalf("expected exactly one module load, got %v", loader.calls)
	}

	loaded := reg.Loaded()
	if len(loaded) != 1 || loaded[0] != "Vendor.Area.WebApi" {
		t.Fatalf("unexpected loaded modules %v", loaded)
	}
}

func TestResolveFallbackWithoutType(t *testing.T) {
	loader := &fakeLoader{types: map[string][]ClientType{
		"Vendor.Area.WebApi.so": {newClientType("Vendor.Area.WebApi.BarHttpClient")},
	}}
	reg := New(WithLoader(loader))

	fallback := writeModuleFile(t, t.TempDir(), "Vendor.Area.WebApi.so")
	ok, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", fallback)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ok {
		t.Fatal("expected resolution to fail when the module does not define the type")
	}
	if len(loader.calls) != 1 {
		t.Fatalf("expected the module to be loaded once, got %v", loader.calls)
	}
}

func TestResolvePropagatesLoadFailure(t *testing.T) {
	boom := errors.New("incompatible module")
	loader := &fakeLoader{err: boom}
	reg := New(WithLoader(loader))

	fallback := writeModuleFile(t, t.TempDir(), "Vendor.Area.WebApi.so")
	_, err := reg.Resolve("Vendor.Area.WebApi.FooHttpClient", fallback)
	if !errors.Is(err, boom) {
		t.Fatalf("expected load failure to propagate, got %v", err)
	}
	if xerrors.CodeOf(err) != xerrors.CodeModuleLoad {
		t.Fatalf("expected module load failure code, got %v", xerrors.CodeOf(err))
	}
}

func TestRequireModuleMiss(t *testing.T) {
	reg := New(WithLoader(&fakeLoader{}))

	err := reg.RequireModule("Newtonsoft.Json, Version=6.0.0.0")
	var nf *resolution.ModuleNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected module not found, got %v", err)
	}
	if nf.Requested != "Newtonsoft.Json, Version=6.0.0.0" {
		t.Fatalf("unexpected requested name %q", nf.Requested)
	}
}

func TestRequireModuleLoadedModule(t *testing.T) {
	loader := &fakeLoader{}
	reg := New(WithLoader(loader))

	path := writeModuleFile(t, t.TempDir(), "Newtonsoft.Json.so")
	if err := reg.LoadModule(path); err != nil {
		t.Fatalf("load module: %v", err)
	}
	if err := reg.RequireModule("Newtonsoft.Json, Version=6.0.0.0"); err != nil {
		t.Fatalf("require loaded module: %v", err)
	}
}

func TestRequireModuleHonoursOverride(t *testing.T) {
	loader := &fakeLoader{}
	reg := New(WithLoader(loader))
	replacement := writeModuleFile(t, t.TempDir(), "Newtonsoft.Json.so")

	err := resolution.WithOverride("Newtonsoft.Json", replacement, func() error {
		if err := reg.RequireModule("Newtonsoft.Json, Version=6.0.0.0"); err != nil {
			return err
		}
		// An override must never short-circuit unrelated lookups.
		unrelated := reg.RequireModule("System.Net.Http, Version=4.0.0.0")
		var nf *resolution.ModuleNotFoundError
		if !errors.As(unrelated, &nf) {
			t.Fatalf("expected unrelated module to miss, got %v", unrelated)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with override: %v", err)
	}
	if len(loader.calls) != 1 || loader.calls[0] != replacement {
		t.Fatalf("expected the replacement module to be loaded once, got %v", loader.calls)
	}
}
