package host

import (
	"encoding/json"
	"os"
	"strings"
)

// EnvEnvironment reads job state from the process environment using the
// build agent's variable conventions: variable names are upper-cased with
// dots and spaces folded to underscores, endpoint URLs live under
// ENDPOINT_URL_<ID> and endpoint authorization under ENDPOINT_AUTH_<ID>
// as a JSON document with a "parameters" object.
type EnvEnvironment struct {
	lookup func(string) (string, bool)
}

// NewEnvEnvironment creates an Environment backed by os.LookupEnv.
func NewEnvEnvironment() *EnvEnvironment {
	return &EnvEnvironment{lookup: os.LookupEnv}
}

type endpointAuthorization struct {
	Scheme     string            `json:"scheme"`
	Parameters map[string]string `json:"parameters"`
}

// VariableKey maps a job variable name to its environment variable form.
func VariableKey(name string) string {
	replacer := strings.NewReplacer(".", "_", " ", "_")
	return strings.ToUpper(replacer.Replace(name))
}

func endpointKey(prefix, name string) string {
	return prefix + strings.ToUpper(name)
}

// GetVariable implements Environment.
func (e *EnvEnvironment) GetVariable(name string) (string, bool) {
	return e.lookup(VariableKey(name))
}

// RequireVariable implements Environment.
func (e *EnvEnvironment) RequireVariable(name string) (string, error) {
	if value, ok := e.GetVariable(name); ok {
		return value, nil
	}
	return "", missingVariable(name)
}

// GetEndpoint implements Environment.
func (e *EnvEnvironment) GetEndpoint(name string) (EndpointDescriptor, bool) {
	url, ok := e.lookup(endpointKey("ENDPOINT_URL_", name))
	if !ok {
		return EndpointDescriptor{}, false
	}
	ep := EndpointDescriptor{Name: name, URL: url}
	if raw, ok := e.lookup(endpointKey("ENDPOINT_AUTH_", name)); ok {
		var auth endpointAuthorization
		// A malformed auth document leaves the endpoint usable without
		// auth parameters rather than hiding the endpoint entirely.
		if err := json.Unmarshal([]byte(raw), &auth); err == nil {
			ep.AuthParameters = auth.Parameters
		}
	}
	return ep, true
}

// RequireEndpoint implements Environment.
func (e *EnvEnvironment) RequireEndpoint(name string) (EndpointDescriptor, error) {
	if ep, ok := e.GetEndpoint(name); ok {
		return ep, nil
	}
	return EndpointDescriptor{}, missingEndpoint(name)
}
