package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrNonFinite indicates a state vector containing NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite state (NaN or Inf detected)")

	// ErrHalted is returned by a body that already failed a step.
	ErrHalted = errors.New("dynamo: integrator halted after numerical failure")

	// ErrInvalidConfig is the sentinel every ConfigurationError matches with errors.Is.
	ErrInvalidConfig = errors.New("dynamo: invalid aircraft configuration")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ConfigKind enumerates the ways an aircraft definition can be rejected.
type ConfigKind int

const (
	MissingField ConfigKind = iota
	InvalidValue
	NonMonotonicTable
	DanglingAttachment
	AttachmentCycle
	UnknownAirfoil
	UnknownControl
	DuplicateID
	DuplicateAxis
	InvalidInertia
	UnknownKey
)

var configKindNames = [...]string{
	MissingField:       "missing field",
	InvalidValue:       "invalid value",
	NonMonotonicTable:  "non-monotonic table",
	DanglingAttachment: "dangling attachment",
	AttachmentCycle:    "attachment cycle",
	UnknownAirfoil:     "unknown airfoil",
	UnknownControl:     "unknown control",
	DuplicateID:        "duplicate id",
	DuplicateAxis:      "duplicate input axis",
	InvalidInertia:     "invalid inertia",
	UnknownKey:         "unknown key",
}

func (k ConfigKind) String() string {
	if int(k) < len(configKindNames) {
		return configKindNames[k]
	}
	return fmt.Sprintf("ConfigKind(%d)", int(k))
}

// ConfigurationError reports one problem with an aircraft definition. Path
// names the offending element, e.g. "wings[2] (id 3) / chord".
type ConfigurationError struct {
	Kind   ConfigKind
	Path   string
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Detail)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ConfigErrorf builds a ConfigurationError with a formatted detail.
func ConfigErrorf(kind ConfigKind, path, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}

// ConfigurationErrors is every problem found while loading one definition.
// errors.As against *ConfigurationError yields the first one.
type ConfigurationErrors []*ConfigurationError

func (errs ConfigurationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

func (errs ConfigurationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Has reports whether any collected error is of the given kind.
func (errs ConfigurationErrors) Has(kind ConfigKind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// NumericalError wraps a failed integration step with its context. State is
// the last known-good state, not the corrupted one.
type NumericalError struct {
	Step    int
	Time    float64
	Field   string
	State   State
	Wrapped error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s: %v", e.Step, e.Time, e.Field, e.Wrapped)
}

func (e *NumericalError) Unwrap() error {
	return e.Wrapped
}
