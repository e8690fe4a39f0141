package registry

// ModuleExt is the platform file extension for dynamically loadable modules.
const ModuleExt = ".so"

// Credential is the minimal contract client constructors require. The
// concrete credential lives in internal/credentials; keeping an interface
// here lets loaded modules construct clients without importing it.
type Credential interface {
	AccessToken() string
}

// ClientType is a named remote-client type registered in the type table.
type ClientType struct {
	// Name is the fully qualified type name, e.g.
	// "Microsoft.TeamFoundation.Build.WebApi.BuildHttpClient".
	Name string
	// New constructs a client against the given base URI.
	New func(baseURL string, cred Credential) (any, error)
}
