package booking

import "fmt"

// BookingError is a user-correctable booking failure. None of these are
// retried automatically; a conflict means the client should re-fetch
// availability and pick another time. Codes: "slotConflict",
// "invalidConsultationType", "validationError".
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSlotConflictError() error {
	return &BookingError{
		Code:    "slotConflict",
		Message: "that time was just taken, please pick another slot",
	}
}

func NewInvalidConsultationTypeError(id string) error {
	return &BookingError{
		Code:    "invalidConsultationType",
		Message: fmt.Sprintf("consultation type %q does not exist or is inactive", id),
	}
}

func NewValidationError(msg string) error {
	return &BookingError{Code: "validationError", Message: msg}
}
