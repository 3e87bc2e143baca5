package domain

import "time"

// QuotaLimits carries the process-wide fairness caps into the storage
// layer so the admission transaction can re-check them atomically.
type QuotaLimits struct {
	DailyBookingCap int
	WeeklyHoursCap  float64
}

// QuotaUsage is a user's counters as of a reference date.
type QuotaUsage struct {
	DailyCount  int     `json:"daily_count"`
	WeeklyHours float64 `json:"weekly_hours"`
}

func (u QuotaUsage) CanBook(limits QuotaLimits) bool {
	return u.DailyCount < limits.DailyBookingCap && u.WeeklyHours < limits.WeeklyHoursCap
}

// DayWindow returns the [start, end) bounds of t's calendar day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the [start, end) bounds of the calendar week
// containing t. Weeks start on Sunday.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	dayStart, _ := DayWindow(t)
	start := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// SameDay reports whether both instants fall on one calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
