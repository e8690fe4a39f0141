// Package registry is the process runtime type table for remote-client
// types. Types arrive either by direct registration or by loading a module
// binary from disk; loading is monotonic for the life of the process, so the
// table itself is the cache and resolution always queries it fresh.
package registry
