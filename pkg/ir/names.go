package ir

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeRun = regexp.MustCompile(`[^0-9A-Za-z_]+`)

// Sanitize maps s onto the identifier alphabet [0-9A-Za-z_]. Spaces and dots
// become underscores and every other run of unsupported characters collapses
// to a single underscore.
func Sanitize(s string) string {
	s = strings.NewReplacer(" ", "_", ".", "_").Replace(s)
	return unsafeRun.ReplaceAllString(s, "_")
}

// NodeID derives the stable id of the node at position idx.
func NodeID(name string, idx int) string {
	return fmt.Sprintf("%s_%03d", Sanitize(name), idx)
}

// ClassName derives the engine module class from a source type identifier,
// e.g. "ShaderNodeMath" becomes "MathModule".
func ClassName(typeID string) string {
	return strings.TrimPrefix(typeID, "ShaderNode") + "Module"
}
