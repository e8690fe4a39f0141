package resolution

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	xerrors "github.com/himanshuyadav1034/vsts-task-lib/internal/errors"
)

// QualifiedName is a parsed strong-name style module identifier of the form
// "Name, Version=6.0.0.0, Culture=neutral". Everything after the first comma
// is attribute metadata; the simple name alone identifies the module on disk.
type QualifiedName struct {
	Raw        string
	Name       string
	Version    *semver.Version
	Attributes map[string]string
}

// ParseQualifiedName splits a qualified module identifier into its simple
// name and attributes. The Version attribute is parsed best-effort: it only
// feeds conflict diagnostics, so an unparseable version is not an error.
func ParseQualifiedName(raw string) (QualifiedName, error) {
	parts := strings.Split(raw, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return QualifiedName{}, xerrors.New(xerrors.CodeInvalidArgument,
			"qualified module name is empty")
	}

	qn := QualifiedName{Raw: raw, Name: name}
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || key == "" {
			continue
		}
		if qn.Attributes == nil {
			qn.Attributes = make(map[string]string)
		}
		qn.Attributes[key] = value
	}
	if v, ok := qn.Attributes["Version"]; ok {
		qn.Version = parseModuleVersion(v)
	}
	return qn, nil
}

// SimpleName returns the portion of a qualified identifier before the first
// comma, trimmed. It accepts unqualified names unchanged.
func SimpleName(raw string) string {
	name, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(name)
}

// parseModuleVersion coerces four-part module versions (6.0.0.0) into
// semantic versions by dropping the revision component.
func parseModuleVersion(v string) *semver.Version {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	parsed, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil
	}
	return parsed
}
