package client

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/himanshuyadav1034/vsts-task-lib/internal/credentials"
	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/host"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/registry"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/resolution"
	"github.com/himanshuyadav1034/vsts-task-lib/pkg/logger"
)

// conflictDependency is the JSON serialization dependency the vendor SDK
// references at two different versions. A construction failure caused by a
// missing module with this name prefix is the one recognized, retryable
// version-skew conflict.
const conflictDependency = "Newtonsoft.Json"

// overrideMu serializes the install/retry/remove sequence across all
// factories; the resolution override slot is process-wide.
var overrideMu sync.Mutex

// Factory constructs remote service clients by name, loading vendor SDK
// modules on demand and recovering once from the known dependency
// version-skew conflict.
type Factory struct {
	env   host.Environment
	reg   *registry.Registry
	creds *credentials.Factory
	log   *slog.Logger
}

// FactoryOption modifies the behaviour of a Factory instance.
type FactoryOption func(*Factory)

// WithLogger overrides the default component logger.
func WithLogger(log *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFactory constructs a client factory.
func NewFactory(env host.Environment, reg *registry.Registry, creds *credentials.Factory, opts ...FactoryOption) *Factory {
	f := &Factory{env: env, reg: reg, creds: creds, log: logger.DiagNamed("client")}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type constructOptions struct {
	directory   string
	baseURI     string
	credentials registry.Credential
}

// Option configures a single Construct call.
type Option func(*constructOptions)

// WithDirectory sets the directory searched for fallback modules. Defaults
// to the entry point's directory.
func WithDirectory(directory string) Option {
	return func(o *constructOptions) {
		o.directory = directory
	}
}

// WithBaseURI sets the base URI the client is constructed against.
// Defaults to the job's collection URI variable.
func WithBaseURI(uri string) Option {
	return func(o *constructOptions) {
		o.baseURI = uri
	}
}

// WithCredentials supplies the credential to construct with. Defaults to
// REST credentials from the credential factory.
func WithCredentials(cred registry.Credential) Option {
	return func(o *constructOptions) {
		o.credentials = cred
	}
}

// Construct resolves typeName, defaults the base URI and credentials, and
// builds the client. The returned client is owned by the caller.
func (f *Factory) Construct(typeName string, opts ...Option) (any, error) {
	if typeName == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "client type name is empty")
	}

	var o constructOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.directory == "" {
		o.directory = registry.EntryDirectory()
	}
	if o.baseURI == "" {
		uri, err := f.env.RequireVariable(host.VariableCollectionURI)
		if err != nil {
			return nil, err
		}
		o.baseURI = uri
	}
	if o.credentials == nil {
		cred, err := f.creds.GetRestCredentials(o.directory)
		if err != nil {
			return nil, err
		}
		o.credentials = cred
	}

	attemptID := uuid.NewString()
	log := f.log.With("type", typeName, "attempt", attemptID)

	fallback := FallbackModulePath(typeName, o.directory)
	resolved, err := f.reg.Resolve(typeName, fallback)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, xerrors.New(xerrors.CodeTypeResolution,
			"client type "+typeName+" could not be resolved",
			xerrors.WithMetadata("type", typeName))
	}
	clientType, ok := f.reg.Lookup(typeName)
	if !ok {
		// Resolve just confirmed the type; a miss here means the table
		// changed underneath us.
		return nil, xerrors.New(xerrors.CodeTypeResolution,
			"client type "+typeName+" disappeared from the type table")
	}

	client, err := clientType.New(o.baseURI, o.credentials)
	if err == nil {
		log.Debug("client constructed")
		return client, nil
	}

	replacement, recognized := f.classifyConflict(err, o.directory, log)
	if !recognized {
		return nil, err
	}

	// Recognized version-skew conflict with a local replacement module:
	// redirect resolution to it and retry exactly once. The override is
	// removed on every exit path of WithOverride.
	overrideMu.Lock()
	defer overrideMu.Unlock()

	var retried any
	retryErr := resolution.WithOverride(conflictDependency, replacement, func() error {
		c, err := clientType.New(o.baseURI, o.credentials)
		if err != nil {
			return err
		}
		retried = c
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	log.Debug("client constructed after dependency override", "replacement", replacement)
	return retried, nil
}

// classifyConflict inspects a construction failure. It returns the
// replacement module path and true only for the recognized conflict: a
// module-not-found cause naming the JSON serialization dependency, with a
// replacement module present in the directory. Every other failure is the
// general case and must not be masked.
func (f *Factory) classifyConflict(err error, directory string, log *slog.Logger) (string, bool) {
	if !resolution.IsModuleNotFound(err, conflictDependency) {
		return "", false
	}
	replacement := filepath.Join(directory, conflictDependency+registry.ModuleExt)
	if _, statErr := os.Stat(replacement); statErr != nil {
		log.Debug("dependency conflict recognized but no replacement module",
			"path", replacement)
		return "", false
	}
	log.Debug("dependency conflict recognized", "replacement", replacement)
	return replacement, true
}
