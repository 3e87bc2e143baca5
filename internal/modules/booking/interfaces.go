package booking

import (
	"context"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/repository"
)

// ReservationRepository is the write side of the reservation store.
// Admit and Reschedule are atomic units: quota and conflict checks run
// in the same transaction as the insert/update.
type ReservationRepository interface {
	Admit(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) (*domain.FairnessSnapshot, error)
	Reschedule(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) error
	UpdateDetails(ctx context.Context, res *domain.Reservation) error
	Cancel(ctx context.Context, id int64, at time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetUserReservationsWithDetails(ctx context.Context, userID int64, limit, offset int) ([]repository.UserReservationDetails, error)
	QuotaUsage(ctx context.Context, userID int64, ref time.Time) (domain.QuotaUsage, error)
	GetSnapshot(ctx context.Context, reservationID int64) (*domain.FairnessSnapshot, error)
}

// RoomDirectory is the read-only room/facility source.
type RoomDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// AvailabilityNotifier is told when a committed write invalidates a
// room/day projection. Implementations must not block.
type AvailabilityNotifier interface {
	ReservationChanged(roomID int64, date string)
}
