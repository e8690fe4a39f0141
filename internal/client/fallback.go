package client

import (
	"path/filepath"
	"strings"

	"github.com/himanshuyadav1034/vsts-task-lib/internal/registry"
)

// webAPISegment is the namespace segment vendor web clients live under.
const webAPISegment = "WebApi"

// httpClientSuffix is the vendor naming convention for remote clients.
const httpClientSuffix = "HttpClient"

// FallbackModulePath maps a client type name to the module file expected to
// define it, per the vendor convention that a type
// "<namespace>.WebApi.<Area>HttpClient" ships in "<namespace>.WebApi<ext>".
// Type names outside the convention get no fallback and return "".
func FallbackModulePath(typeName, directory string) string {
	if !strings.HasSuffix(typeName, httpClientSuffix) {
		return ""
	}
	segments := strings.Split(typeName, ".")
	if len(segments) < 3 {
		return ""
	}
	if segments[len(segments)-2] != webAPISegment {
		return ""
	}
	for _, segment := range segments {
		if segment == "" {
			return ""
		}
	}
	namespace := strings.Join(segments[:len(segments)-1], ".")
	return filepath.Join(directory, namespace+registry.ModuleExt)
}
