package domain

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

type Reservation struct {
	ID        int64             `json:"id"`
	RoomID    int64             `json:"room_id" validate:"required"`
	UserID    int64             `json:"user_id" validate:"required"`
	StartTime time.Time         `json:"start_time" validate:"required"`
	EndTime   time.Time         `json:"end_time" validate:"required"`
	Status    ReservationStatus `json:"status"`
	PartySize int               `json:"party_size"`
	Purpose   string            `json:"purpose,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Room *Room `json:"room,omitempty"`
	User *User `json:"user,omitempty"`
}

func (r *Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Live reports whether the reservation counts for conflicts and quotas.
// Cancelled rows are retained for history but excluded everywhere.
func (r *Reservation) Live() bool {
	return r.Status != ReservationCancelled
}

// FairnessSnapshot records the owner's usage counters at the moment a
// reservation was admitted. Audit only; quotas are recomputed live.
type FairnessSnapshot struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	UserID        int64     `json:"user_id"`
	DailyCount    int       `json:"daily_count"`
	WeeklyHours   float64   `json:"weekly_hours"`
	CreatedAt     time.Time `json:"created_at"`
}
