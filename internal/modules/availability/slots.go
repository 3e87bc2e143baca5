package availability

import (
	"fmt"
	"time"

	"roombooking/internal/domain"
)

// Slot is a fixed-duration subdivision of a room's day. Derived, never
// persisted.
type Slot struct {
	ID            string    `json:"id"`
	RoomID        int64     `json:"room_id"`
	Date          string    `json:"date"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Available     bool      `json:"available"`
	IsMyBooking   bool      `json:"is_my_booking,omitempty"`
	ReservationID int64     `json:"reservation_id,omitempty"`
}

// GenerateSlots produces the canonical slot sequence for a room on one
// calendar day: contiguous, non-overlapping, fixed-size intervals from
// openHour to closeHour. Slots that have already started are pre-marked
// unavailable, but only when day is now's calendar date; future days
// are never pre-marked. Pure: no storage, no wall clock beyond now.
func GenerateSlots(roomID int64, day time.Time, openHour, closeHour, granularityMin int, now time.Time) []Slot {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dateStr := dayStart.Format("2006-01-02")
	today := domain.SameDay(dayStart, now)

	count := (closeHour - openHour) * 60 / granularityMin
	slots := make([]Slot, 0, count)

	for i := 0; i < count; i++ {
		offset := openHour*60 + i*granularityMin
		start := dayStart.Add(time.Duration(offset) * time.Minute)
		// A closeHour of 24 makes the final End land exactly on the
		// next midnight; the slot still belongs to this day's identifier
		// space because its ID is keyed on the start offset.
		end := start.Add(time.Duration(granularityMin) * time.Minute)

		available := true
		if today && !start.After(now) {
			available = false
		}

		slots = append(slots, Slot{
			ID:        fmt.Sprintf("%s:%d:%04d", dateStr, roomID, offset),
			RoomID:    roomID,
			Date:      dateStr,
			Start:     start,
			End:       end,
			Available: available,
		})
	}

	return slots
}
