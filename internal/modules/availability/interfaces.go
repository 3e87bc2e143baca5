package availability

import (
	"context"
	"time"

	"roombooking/internal/domain"
)

// ReservationReader is the lock-free read side of the reservation store.
type ReservationReader interface {
	GetForRoomDay(ctx context.Context, roomID int64, dayStart, dayEnd time.Time) ([]domain.Reservation, error)
}

// RoomDirectory is the read-only room/facility source.
type RoomDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}
