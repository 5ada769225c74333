package ports

import (
	"errors"
	"fmt"

	"whiteboard/internal/whiteboard/models"
)

// RegistrationError is returned by collaborators that refuse a registration
// for a known reason. The registry records Reason verbatim.
type RegistrationError struct {
	Reason     models.FailureReason
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("registration failed [%s]: %s: %v", e.Reason, e.Message, e.Underlying)
	}
	return fmt.Sprintf("registration failed [%s]: %s", e.Reason, e.Message)
}

// Unwrap supports error unwrapping
func (e *RegistrationError) Unwrap() error {
	return e.Underlying
}

// NewRegistrationError creates a registration failure with the given reason.
func NewRegistrationError(reason models.FailureReason, message string, underlying error) *RegistrationError {
	return &RegistrationError{
		Reason:     reason,
		Message:    message,
		Underlying: underlying,
	}
}

// ReasonOf extracts the failure reason from err. Errors that are not
// registration failures map to UNKNOWN and ok is false.
func ReasonOf(err error) (reason models.FailureReason, ok bool) {
	var re *RegistrationError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return models.FailureUnknown, false
}
