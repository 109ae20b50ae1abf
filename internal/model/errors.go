package model

import "fmt"

// ConfigError reports a configuration value that failed validation at
// load time. Per the error taxonomy (spec §7), configuration errors
// are always fatal at startup: no frame is ever emitted from an
// ensemble that failed to validate.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("model: invalid configuration at %s: %s", e.Field, e.Reason)
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
