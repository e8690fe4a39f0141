package host

import "sync"

// MemoryEnvironment is an in-process Environment. It backs tests and
// embedders that assemble job state programmatically.
type MemoryEnvironment struct {
	mu        sync.RWMutex
	variables map[string]string
	endpoints map[string]EndpointDescriptor
}

// NewMemoryEnvironment creates an empty in-process environment.
func NewMemoryEnvironment() *MemoryEnvironment {
	return &MemoryEnvironment{
		variables: make(map[string]string),
		endpoints: make(map[string]EndpointDescriptor),
	}
}

// SetVariable sets a job variable.
func (m *MemoryEnvironment) SetVariable(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables[name] = value
}

// SetEndpoint registers a service endpoint.
func (m *MemoryEnvironment) SetEndpoint(ep EndpointDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoints[ep.Name] = ep
}

// GetVariable implements Environment.
func (m *MemoryEnvironment) GetVariable(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.variables[name]
	return value, ok
}

// RequireVariable implements Environment.
func (m *MemoryEnvironment) RequireVariable(name string) (string, error) {
	if value, ok := m.GetVariable(name); ok {
		return value, nil
	}
	return "", missingVariable(name)
}

// GetEndpoint implements Environment.
func (m *MemoryEnvironment) GetEndpoint(name string) (EndpointDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ep, ok := m.endpoints[name]
	return ep, ok
}

// RequireEndpoint implements Environment.
func (m *MemoryEnvironment) RequireEndpoint(name string) (EndpointDescriptor, error) {
	if ep, ok := m.GetEndpoint(name); ok {
		return ep, nil
	}
	return EndpointDescriptor{}, missingEndpoint(name)
}
