package energy

import (
	"errors"
	"fmt"
)

// Domain errors for energy evaluation and analysis.
var (
	// ErrInvalidConfiguration indicates a non-physical or out-of-range parameter.
	ErrInvalidConfiguration = errors.New("energy: invalid configuration")

	// ErrInvalidDomain indicates a malformed search region.
	ErrInvalidDomain = errors.New("energy: invalid domain")

	// ErrConvergence indicates a numerical method exhausted its budget.
	ErrConvergence = errors.New("energy: numerical method did not converge")

	// ErrDimensionMismatch indicates a coordinate whose length disagrees with the surface.
	ErrDimensionMismatch = errors.New("energy: dimension mismatch between coordinate and surface")
)

// ConfigError wraps ErrInvalidConfiguration with the offending parameter.
type ConfigError struct {
	Model  string
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Model, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s=%g: %s", ErrInvalidConfiguration, e.Model, e.Param, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// DomainError wraps ErrInvalidDomain with the offending axis.
type DomainError struct {
	Axis   int
	Reason string
}

func (e *DomainError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidDomain, e.Reason)
	}
	return fmt.Sprintf("%s: axis %d: %s", ErrInvalidDomain, e.Axis, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrInvalidDomain
}

// ConvergenceError wraps ErrConvergence with the disagreeing values.
type ConvergenceError struct {
	Method    string
	Level     int
	Coarse    float64
	Fine      float64
	Tolerance float64
}

func (e *ConvergenceError) Error() string {
	if e.Level < 0 {
		return fmt.Sprintf("%s: %s", ErrConvergence, e.Method)
	}
	return fmt.Sprintf("%s: %s level %d: %.9g vs %.9g (tol %g)",
		ErrConvergence, e.Method, e.Level, e.Coarse, e.Fine, e.Tolerance)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// Invalid builds a ConfigError for model-level checks that have no single parameter.
func Invalid(model, format string, args ...any) error {
	return &ConfigError{Model: model, Reason: fmt.Sprintf(format, args...)}
}
