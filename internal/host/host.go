package host

import (
	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
)

// Well known names provided by the build agent for every job.
const (
	// EndpointSystemVssConnection is the job's connection back to the
	// orchestrating service, carrying the federated access token.
	EndpointSystemVssConnection = "SystemVssConnection"

	// VariableCollectionURI holds the base URI of the project collection.
	VariableCollectionURI = "System.TeamFoundationCollectionUri"

	// AuthParameterAccessToken is the auth parameter key holding the
	// federated access token on an endpoint.
	AuthParameterAccessToken = "AccessToken"
)

// EndpointDescriptor is an immutable view of a configured service endpoint.
// It is sourced from the host environment and lives for one task invocation.
type EndpointDescriptor struct {
	Name           string
	URL            string
	AuthParameters map[string]string
}

// AuthParameter returns the named auth parameter and whether it is present.
func (e EndpointDescriptor) AuthParameter(key string) (string, bool) {
	value, ok := e.AuthParameters[key]
	return value, ok
}

// Environment is the host side of the task library: job variables and
// service endpoints supplied by the build agent. Implementations must be
// safe for concurrent readers.
type Environment interface {
	// GetVariable returns a job variable and whether it is set.
	GetVariable(name string) (string, bool)
	// RequireVariable returns a job variable or a MISSING_VARIABLE error.
	RequireVariable(name string) (string, error)
	// GetEndpoint returns a service endpoint and whether it is configured.
	GetEndpoint(name string) (EndpointDescriptor, bool)
	// RequireEndpoint returns a service endpoint or a MISSING_ENDPOINT error.
	RequireEndpoint(name string) (EndpointDescriptor, error)
}

// ErrMissingVariable and ErrMissingEndpoint are match targets for errors.Is.
var (
	ErrMissingVariable = xerrors.New(xerrors.CodeMissingVariable, "")
	ErrMissingEndpoint = xerrors.New(xerrors.CodeMissingEndpoint, "")
)

func missingVariable(name string) error {
	return xerrors.New(xerrors.CodeMissingVariable,
		"variable "+name+" is not set", xerrors.WithMetadata("variable", name))
}

func missingEndpoint(name string) error {
	return xerrors.New(xerrors.CodeMissingEndpoint,
		"endpoint "+name+" is not configured", xerrors.WithMetadata("endpoint", name))
}
