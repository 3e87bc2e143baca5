package booking

import "roombooking/internal/domain"

// Local names for the shared taxonomy so call sites and tests read the
// way the rest of the module does.
var (
	ErrValidation      = domain.ErrValidation
	ErrQuotaExceeded   = domain.ErrQuotaExceeded
	ErrConflict        = domain.ErrConflict
	ErrRoomUnavailable = domain.ErrRoomUnavailable
	ErrForbidden       = domain.ErrForbidden
	ErrTiming          = domain.ErrTiming
	ErrTransientStore  = domain.ErrTransientStore
	ErrNotFound        = domain.ErrNotFound
)
