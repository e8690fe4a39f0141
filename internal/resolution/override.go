package resolution

import (
	"strings"
	"sync"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
)

// Override redirects requests for a named dependency module to an alternate
// on-disk file. At most one override is installed at any time, and only for
// the duration of a single WithOverride call.
type Override struct {
	// Pattern is matched as a prefix of the requested module's simple name
	// (the portion before the first comma of a qualified identifier).
	Pattern string
	// ReplacementPath is the module file loaded for matching requests.
	ReplacementPath string
}

// Matches reports whether the override applies to a requested module name.
// Non-matching requests must be left to normal resolution.
func (o Override) Matches(requested string) bool {
	return strings.HasPrefix(SimpleName(requested), o.Pattern)
}

var (
	slotMu sync.RWMutex
	active *Override
)

// ActiveOverride returns the currently installed override, if any.
func ActiveOverride() (Override, bool) {
	slotMu.RLock()
	defer slotMu.RUnlock()
	if active == nil {
		return Override{}, false
	}
	return *active, true
}

// WithOverride installs the override, runs action, and removes the override
// on every exit path, including a panicking action. Installing while another
// override is active is a programming error and fails fast; callers that
// need mutual exclusion serialize above this package.
func WithOverride(pattern, replacementPath string, action func() error) error {
	if pattern == "" {
		return xerrors.New(xerrors.CodeInvalidArgument, "override pattern is empty")
	}
	if replacementPath == "" {
		return xerrors.New(xerrors.CodeInvalidArgument, "override replacement path is empty")
	}
	if action == nil {
		return xerrors.New(xerrors.CodeInvalidArgument, "override action is nil")
	}

	slotMu.Lock()
	if active != nil {
		slotMu.Unlock()
		return xerrors.New(xerrors.CodeInvalidArgument,
			"a module resolution override is already installed")
	}
	active = &Override{Pattern: pattern, ReplacementPath: replacementPath}
	slotMu.Unlock()

	defer func() {
		slotMu.Lock()
		active = nil
		slotMu.Unlock()
	}()

	return action()
}
