package booking

import "time"

type CreateReservationRequest struct {
	RoomID    int64     `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	PartySize int       `json:"party_size"`
	Purpose   string    `json:"purpose"`

	// Filled from the authenticated identity, never from the body.
	UserID int64 `json:"-"`
}

// UpdateReservationRequest carries a partial update; nil fields keep
// their prior values.
type UpdateReservationRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	PartySize *int       `json:"party_size"`
	Purpose   *string    `json:"purpose"`
}

type QuotaResponse struct {
	DailyCount      int     `json:"daily_count"`
	DailyBookingCap int     `json:"daily_booking_cap"`
	WeeklyHours     float64 `json:"weekly_hours"`
	WeeklyHoursCap  float64 `json:"weekly_hours_cap"`
	CanBook         bool    `json:"can_book"`
}
