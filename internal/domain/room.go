package domain

import "time"

type RoomType string

const (
	RoomStudy      RoomType = "study"
	RoomMeeting    RoomType = "meeting"
	RoomMusic      RoomType = "music"
	RoomRecreation RoomType = "recreation"
)

func ParseRoomType(s string) (RoomType, bool) {
	switch RoomType(s) {
	case RoomStudy, RoomMeeting, RoomMusic, RoomRecreation:
		return RoomType(s), true
	}
	return "", false
}

type RoomStatus string

const (
	RoomActive      RoomStatus = "active"
	RoomBlocked     RoomStatus = "blocked"
	RoomMaintenance RoomStatus = "maintenance"
)

// Hostel is the facility grouping for rooms. Read-only from the booking
// core's perspective; administration happens elsewhere.
type Hostel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Code      string    `json:"code" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rooms []Room `json:"rooms,omitempty"`
}

type Room struct {
	ID          int64      `json:"id"`
	HostelID    int64      `json:"hostel_id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	Capacity    int        `json:"capacity" validate:"required,gt=0"`
	RoomType    RoomType   `json:"room_type" validate:"required"`
	Status      RoomStatus `json:"status"`

	// Operating hours. Zero values fall back to the process-wide
	// configuration (open hour, close hour, slot granularity).
	OpenHour    int `json:"open_hour"`
	CloseHour   int `json:"close_hour"`
	SlotMinutes int `json:"slot_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Room) Bookable() bool {
	if _, ok := ParseRoomType(string(r.RoomType)); !ok {
		return false
	}
	return r.Status == RoomActive
}
