package resolution

import (
	"errors"
	"strings"
)

// ModuleNotFoundError reports that a dependency module could not be resolved.
// Requested carries the qualified identifier exactly as it was asked for, so
// callers can classify the failure by name and version.
type ModuleNotFoundError struct {
	Requested string
}

func (e *ModuleNotFoundError) Error() string {
	return "module file not found: " + e.Requested
}

// IsModuleNotFound reports whether err's chain contains a module-not-found
// failure whose requested simple name starts with namePrefix.
func IsModuleNotFound(err error, namePrefix string) bool {
	var nf *ModuleNotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return strings.HasPrefix(SimpleName(nf.Requested), namePrefix)
}
