package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekWindow_StartsOnSunday(t *testing.T) {
	// 2025-01-08 is a Wednesday; its week runs Sun 01-05 .. Sun 01-12.
	ref := time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC)

	start, end := WeekWindow(ref)

	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.Sunday, start.Weekday())
}

func TestWeekWindow_SundayIsItsOwnStart(t *testing.T) {
	ref := time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC)

	start, end := WeekWindow(ref)

	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), end)
}

func TestDayWindow(t *testing.T) {
	ref := time.Date(2025, 1, 8, 23, 59, 59, 0, time.UTC)

	start, end := DayWindow(ref)

	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), end)
}

func TestQuotaUsage_CanBook(t *testing.T) {
	limits := QuotaLimits{DailyBookingCap: 2, WeeklyHoursCap: 6}

	assert.True(t, QuotaUsage{DailyCount: 0, WeeklyHours: 0}.CanBook(limits))
	assert.True(t, QuotaUsage{DailyCount: 1, WeeklyHours: 5.5}.CanBook(limits))
	assert.False(t, QuotaUsage{DailyCount: 2, WeeklyHours: 0}.CanBook(limits))
	assert.False(t, QuotaUsage{DailyCount: 0, WeeklyHours: 6}.CanBook(limits))
}

func TestReservation_Live(t *testing.T) {
	assert.True(t, (&Reservation{Status: ReservationConfirmed}).Live())
	assert.True(t, (&Reservation{Status: ReservationCompleted}).Live())
	assert.False(t, (&Reservation{Status: ReservationCancelled}).Live())
}

func TestRoom_Bookable(t *testing.T) {
	assert.True(t, (&Room{RoomType: RoomStudy, Status: RoomActive}).Bookable())
	assert.False(t, (&Room{RoomType: RoomStudy, Status: RoomBlocked}).Bookable())
	assert.False(t, (&Room{RoomType: RoomStudy, Status: RoomMaintenance}).Bookable())
	assert.False(t, (&Room{RoomType: "garage", Status: RoomActive}).Bookable())
}
