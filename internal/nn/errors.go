package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// ConfigError reports a construction-time argument that cannot yield a
// valid parameter shape. It unwraps to tensor.ErrInvalidConfig.
type ConfigError struct {
	Component string // Component being built (e.g., "conv2d")
	Field     string // Offending field (e.g., "kernel_size")
	Value     int    // Offending value
	Reason    string // Why the value is rejected
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s=%d: %s", e.Component, e.Field, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, tensor.ErrInvalidConfig) hold.
func (e *ConfigError) Unwrap() error {
	return tensor.ErrInvalidConfig
}

// field is a named integer argument checked by requirePositive.
type field struct {
	name  string
	value int
}

// requirePositive returns a ConfigError for the first non-positive field.
func requirePositive(component string, fields ...field) error {
	for _, f := range fields {
		if f.value <= 0 {
			return &ConfigError{Component: component, Field: f.name, Value: f.value, Reason: "must be > 0"}
		}
	}
	return nil
}
