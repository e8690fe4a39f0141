package credentials

import (
	"log/slog"
	"path/filepath"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/host"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/registry"
	"github.com/himanshuyadav1034/vsts-task-lib/pkg/logger"
)

// Vendor SDK type and module names the factory resolves before it will
// hand out a credential.
const (
	extendedCredentialType   = "Microsoft.VisualStudio.Services.Client.VssOAuthCredential"
	extendedCredentialModule = "Microsoft.VisualStudio.Services.Client"

	restCredentialType   = "Microsoft.VisualStudio.Services.WebApi.VssCredentials"
	restCredentialModule = "Microsoft.VisualStudio.Services.WebApi"

	restOAuthCredentialType   = "Microsoft.VisualStudio.Services.Common.VssOAuthAccessTokenCredential"
	restOAuthCredentialModule = "Microsoft.VisualStudio.Services.Common"
)

// Factory builds federated credentials for the extended client SDK and the
// REST client SDK from the job's SystemVssConnection endpoint.
type Factory struct {
	env host.Environment
	reg *registry.Registry
	log *slog.Logger
}

// Option modifies the behaviour of a Factory instance.
type Option func(*Factory)

// WithLogger overrides the default component logger.
func WithLogger(log *slog.Logger) Option {
	return func(f *Factory) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFactory constructs a credential factory.
func NewFactory(env host.Environment, reg *registry.Registry, opts ...Option) *Factory {
	f := &Factory{env: env, reg: reg, log: logger.DiagNamed("credentials")}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetExtendedClientCredentials builds a federated credential for the
// extended client SDK. directory may be empty, in which case fallback
// modules are searched next to the entry point.
func (f *Factory) GetExtendedClientCredentials(directory string) (*Credential, error) {
	token, err := f.federatedToken()
	if err != nil {
		return nil, err
	}
	directory = defaultDirectory(directory)

	ok, err := f.reg.Resolve(extendedCredentialType,
		filepath.Join(directory, extendedCredentialModule+registry.ModuleExt))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.New(xerrors.CodeCredential,
			"credential type "+extendedCredentialType+" could not be resolved",
			xerrors.WithMetadata("type", extendedCredentialType))
	}
	f.log.Debug("extended client credential constructed")
	return NewFederated(token), nil
}

// GetRestCredentials builds a federated credential for the REST client SDK.
// It requires the OAuth access-token credential type; when that type cannot
// be resolved the factory fails with an explicit unimplemented error rather
// than degrading to a weaker credential.
func (f *Factory) GetRestCredentials(directory string) (*Credential, error) {
	token, err := f.federatedToken()
	if err != nil {
		return nil, err
	}
	directory = defaultDirectory(directory)

	ok, err := f.reg.Resolve(restCredentialType,
		filepath.Join(directory, restCredentialModule+registry.ModuleExt))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.New(xerrors.CodeCredential,
			"credential type "+restCredentialType+" could not be resolved",
			xerrors.WithMetadata("type", restCredentialType))
	}

	ok, err = f.reg.Resolve(restOAuthCredentialType,
		filepath.Join(directory, restOAuthCredentialModule+registry.ModuleExt))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, xerrors.New(xerrors.CodeCredentialUnimplemented,
			"OAuth access token credential type is not available in this runtime",
			xerrors.WithMetadata("type", restOAuthCredentialType))
	}
	f.log.Debug("rest credential constructed")
	return NewFederated(token), nil
}

// federatedToken requires the SystemVssConnection endpoint and its access
// token. The endpoint check runs before any type resolution so a missing
// connection surfaces as the configuration error it is.
func (f *Factory) federatedToken() (string, error) {
	ep, err := f.env.RequireEndpoint(host.EndpointSystemVssConnection)
	if err != nil {
		return "", err
	}
	token, ok := ep.AuthParameter(host.AuthParameterAccessToken)
	if !ok || token == "" {
		return "", xerrors.New(xerrors.CodeCredential,
			"endpoint "+host.EndpointSystemVssConnection+" has no access token")
	}
	return token, nil
}

func defaultDirectory(directory string) string {
	if directory != "" {
		return directory
	}
	return registry.EntryDirectory()
}
