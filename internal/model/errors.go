package model

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below match them through errors.Is.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrDataContract      = errors.New("data contract violation")
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// ConfigurationError reports an option, path or column name that does not
// resolve.
type ConfigurationError struct {
	Option string // Option name, e.g. SORT_COLUMN
	Value  string // Offending value
	Reason string
	Err    error // Underlying cause, if any
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error: %s=%q: %s", e.Option, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
func (e *ConfigurationError) Unwrap() error        { return e.Err }

// DataContractViolation reports input that falls outside what the flags file
// format allows.
type DataContractViolation struct {
	Column string // Offending column, if any
	Row    int    // 1-based data row, 0 when not row specific
	Link   string // Link of the offending row, if known
	Value  string // Offending raw value, if any
	Reason string
}

func (e *DataContractViolation) Error() string {
	msg := "data contract violation"
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(", row %d", e.Row)
		if e.Link != "" {
			msg += fmt.Sprintf(" (%s)", e.Link)
		}
	}
	if e.Value != "" || (e.Column != "" && e.Row > 0) {
		msg += fmt.Sprintf(", value %q", e.Value)
	}
	return msg + ": " + e.Reason
}

func (e *DataContractViolation) Is(target error) bool { return target == ErrDataContract }

// InternalInvariantError signals a defect in the pipeline itself.
type InternalInvariantError struct {
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return "internal invariant violated: " + e.Detail
}

func (e *InternalInvariantError) Is(target error) bool { return target == ErrInternalInvariant }

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	case errors.Is(err, ErrDataContract):
		return 3
	case errors.Is(err, ErrInternalInvariant):
		return 4
	default:
		return 1
	}
}

// Kind returns a short label for the error kind, used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrDataContract):
		return "data_contract"
	case errors.Is(err, ErrInternalInvariant):
		return "internal"
	default:
		return "other"
	}
}
