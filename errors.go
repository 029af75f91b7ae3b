package envcast

import (
	"fmt"
	"strings"
)

// Error codes for configuration failures.
const (
	ErrCodeNotSet          = "not_set"
	ErrCodeInvalidValue    = "invalid_value"
	ErrCodeInvalidType     = "invalid_type"
	ErrCodeUnsupportedCast = "unsupported_cast"
	ErrCodeProxyDepth      = "proxy_depth"
	ErrCodeProcessor       = "processor"
)

// ConfigurationError reports a variable that is missing or could not be cast.
type ConfigurationError struct {
	Name    string // Variable name, empty when the failure is not tied to one
	Code    string // Error code (e.g., "not_set", "invalid_value")
	Message string // Human-readable description
	Err     error  // Underlying conversion error, if any
}

// Error formats the failure as a single line.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("envcast: ")
	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s (%s)", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func notSet(name string) *ConfigurationError {
	return &ConfigurationError{
		Name:    name,
		Code:    ErrCodeNotSet,
		Message: fmt.Sprintf("environment variable '%s' not set", name),
	}
}

// withName fills in the variable name on a cast failure.
func withName(err error, name string) error {
	if ce, ok := err.(*ConfigurationError); ok && ce.Name == "" {
		cp := *ce
		cp.Name = name
		return &cp
	}
	return err
}
