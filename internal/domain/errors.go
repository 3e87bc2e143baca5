package domain

import "errors"

// Error classes shared by the repositories and the booking/availability
// services. Callers wrap these with rule-specific detail via fmt.Errorf
// and test with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrConflict        = errors.New("reservation conflict")
	ErrRoomUnavailable = errors.New("room not available")
	ErrForbidden       = errors.New("forbidden")
	ErrTiming          = errors.New("timing error")
	ErrTransientStore  = errors.New("transient store error")
	ErrNotFound        = errors.New("not found")
)
