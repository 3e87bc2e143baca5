package availability

// DayAvailability is the per-slot projection for one room and date,
// with aggregate counts for percentage-based summaries.
type DayAvailability struct {
	RoomID         int64  `json:"room_id"`
	Date           string `json:"date"`
	OpenHour       int    `json:"open_hour"`
	CloseHour      int    `json:"close_hour"`
	SlotMinutes    int    `json:"slot_minutes"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
	Slots          []Slot `json:"slots"`
}
