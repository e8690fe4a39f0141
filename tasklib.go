// Package tasklib is the task author's entry point: job variables and
// service endpoints from the build agent, and remote service clients
// constructed against the vendor's web APIs, with vendor SDK modules loaded
// on demand.
package tasklib

import (
	"github.com/himanshuyadav1034/vsts-task-lib/internal/client"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/credentials"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/host"
	"github.com/himanshuyadav1034/vsts-task-lib/internal/registry"
)

// Endpoint is a configured service endpoint as seen by a task.
type Endpoint struct {
	Name           string
	URL            string
	AuthParameters map[string]string
}

// Environment is the host side of the library: job variables and service
// endpoints supplied by the build agent.
type Environment = host.Environment

// NewMemoryEnvironment returns an in-process host environment, useful for
// tests and embedders that assemble job state programmatically.
func NewMemoryEnvironment() *host.MemoryEnvironment {
	return host.NewMemoryEnvironment()
}

// Lib bundles the host environment with the client construction subsystem.
type Lib struct {
	env     host.Environment
	reg     *registry.Registry
	clients *client.Factory
}

// Option modifies how the library is assembled.
type Option func(*Lib)

// WithEnvironment replaces the default process-environment backed host.
func WithEnvironment(env host.Environment) Option {
	return func(l *Lib) {
		if env != nil {
			l.env = env
		}
	}
}

// New assembles the library against the build agent's process environment.
func New(opts ...Option) *Lib {
	l := &Lib{env: host.NewEnvEnvironment()}
	for _, opt := range opts {
		opt(l)
	}
	l.reg = registry.New()
	creds := credentials.NewFactory(l.env, l.reg)
	l.clients = client.NewFactory(l.env, l.reg, creds)
	return l
}

// GetVariable returns a job variable and whether it is set.
func (l *Lib) GetVariable(name string) (string, bool) {
	return l.env.GetVariable(name)
}

// RequireVariable returns a job variable or fails when it is absent.
func (l *Lib) RequireVariable(name string) (string, error) {
	return l.env.RequireVariable(name)
}

// GetEndpoint returns a configured service endpoint.
func (l *Lib) GetEndpoint(name string) (Endpoint, bool) {
	ep, ok := l.env.GetEndpoint(name)
	if !ok {
		return Endpoint{}, false
	}
	return Endpoint{Name: ep.Name, URL: ep.URL, AuthParameters: ep.AuthParameters}, true
}

// RequireEndpoint returns a service endpoint or fails when it is absent.
func (l *Lib) RequireEndpoint(name string) (Endpoint, error) {
	ep, err := l.env.RequireEndpoint(name)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Name: ep.Name, URL: ep.URL, AuthParameters: ep.AuthParameters}, nil
}

// PreloadModules loads the vendor SDK modules listed in a YAML config file
// before any client construction needs them.
func (l *Lib) PreloadModules(configPath string) error {
	cfg, err := registry.LoadConfig(configPath)
	if err != nil {
		return err
	}
	return l.reg.Preload(cfg)
}

// ClientOption configures a single GetClient call.
type ClientOption = client.Option

// WithDirectory sets the directory searched for fallback modules.
func WithDirectory(directory string) ClientOption {
	return client.WithDirectory(directory)
}

// WithBaseURI sets the base URI the client is constructed against.
func WithBaseURI(uri string) ClientOption {
	return client.WithBaseURI(uri)
}

// WithAccessToken constructs the client with a federated credential built
// from the given token instead of the job's connection token.
func WithAccessToken(token string) ClientOption {
	return client.WithCredentials(credentials.NewFederated(token))
}

// GetClient resolves and constructs a remote service client by its fully
// qualified type name. Ownership of the returned client passes to the
// caller.
func (l *Lib) GetClient(typeName string, opts ...ClientOption) (any, error) {
	return l.clients.Construct(typeName, opts...)
}
