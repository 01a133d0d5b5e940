package errors

import (
	"net"
	"strings"
	"unicode"
)

// ValidateLoopbackHost checks that host names a loopback interface.
// The bridge exposes the active material to local processes only.
func ValidateLoopbackHost(host string) error {
	if host == "" {
		return New(ErrCodeInvalidConfig, "host cannot be empty")
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return New(ErrCodeInvalidConfig, "host must be an IP address or localhost: %q", host)
	}
	if !ip.IsLoopback() {
		return New(ErrCodeInvalidConfig, "host must be a loopback address: %q", host)
	}
	return nil
}

// ValidatePort checks that port is a usable TCP/UDP port number.
func ValidatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return New(ErrCodeInvalidConfig, "%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}

// ValidateTextureName checks that name is a plain file name safe to place
// inside the texture directory.
//
// Validation rules:
//   - Name cannot be empty, "." or ".."
//   - No path separators
//   - No null bytes or control characters
func ValidateTextureName(name string) error {
	if name == "" || name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "invalid texture file name: %q", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "texture file name cannot contain path separators: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "texture file name contains invalid characters")
		}
	}
	return nil
}
