package importance

import "fmt"

// ValidationError reports arguments that can never produce a valid run,
// such as filter classes outside the model's targets or an unrecognized
// method. It is raised before or at the point of misuse and names the
// valid choices.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "importance: invalid argument: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigError reports a usable-looking request that the interpretation
// context cannot serve, such as conditional-permutation without labels.
// It is raised before any sampling or prediction work begins.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "importance: configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ComputationError reports a degenerate result discovered after all
// per-feature work completed: the raw importances did not sum to a
// positive value. Raw carries the offending values for diagnostics.
type ComputationError struct {
	Reason string
	Raw    map[string]float64
}

func (e *ComputationError) Error() string {
	return "importance: computation: " + e.Reason
}
