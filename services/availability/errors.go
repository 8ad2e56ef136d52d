package availability

import "fmt"

// AvailabilityError is a user-correctable failure publishing or listing
// availability. Codes: "invalidInterval", "duplicateSlot".
type AvailabilityError struct {
	Code    string
	Message string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidIntervalError(msg string) error {
	return &AvailabilityError{Code: "invalidInterval", Message: msg}
}

// NewDuplicateSlotError names the local day whose slot collided, so the
// professional knows which part of the recurring request to fix.
func NewDuplicateSlotError(day string) error {
	return &AvailabilityError{
		Code:    "duplicateSlot",
		Message: fmt.Sprintf("a slot already exists on %s with the same start", day),
	}
}
