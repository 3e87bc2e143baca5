package availability

import (
	"context"
	"fmt"
	"time"

	"roombooking/internal/config"
	"roombooking/internal/domain"
	"roombooking/internal/pkg/clock"
)

type Service struct {
	reservations ReservationReader
	rooms        RoomDirectory
	cfg          *config.BookingConfig
	clock        clock.Clock
}

func NewService(reservations ReservationReader, rooms RoomDirectory, cfg *config.BookingConfig, clk clock.Clock) *Service {
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		cfg:          cfg,
		clock:        clk,
	}
}

// ComputeAvailability projects the room's day into per-slot statuses.
// requestingUser may be zero (anonymous); when set, slots covered by
// that user's reservations are flagged as theirs. The projection is a
// snapshot, not a lock: conflict-freedom is only guaranteed by the
// admission path at write time.
func (s *Service) ComputeAvailability(ctx context.Context, roomID int64, dateStr string, requestingUser int64) (*DayAvailability, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Bookable() {
		return nil, fmt.Errorf("%w: room %d is %s", domain.ErrRoomUnavailable, room.ID, room.Status)
	}

	openHour, closeHour, granularity := s.operatingHours(room)
	slots := GenerateSlots(roomID, day, openHour, closeHour, granularity, s.clock.Now())

	dayStart, dayEnd := domain.DayWindow(day)
	reservations, err := s.reservations.GetForRoomDay(ctx, roomID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, res := range reservations {
		if !res.Live() {
			continue
		}
		for i := range slots {
			// A slot is covered when fully contained in [start, end).
			if !slots[i].Start.Before(res.StartTime) && !slots[i].End.After(res.EndTime) {
				slots[i].Available = false
				slots[i].ReservationID = res.ID
				if requestingUser != 0 && res.UserID == requestingUser {
					slots[i].IsMyBooking = true
				}
			}
		}
	}

	available := 0
	for i := range slots {
		if slots[i].Available {
			available++
		}
	}

	return &DayAvailability{
		RoomID:         roomID,
		Date:           day.Format("2006-01-02"),
		OpenHour:       openHour,
		CloseHour:      closeHour,
		SlotMinutes:    granularity,
		TotalSlots:     len(slots),
		AvailableSlots: available,
		Slots:          slots,
	}, nil
}

// operatingHours resolves the room's span and granularity, falling back
// to process configuration for zero values.
func (s *Service) operatingHours(room *domain.Room) (openHour, closeHour, granularity int) {
	openHour = room.OpenHour
	closeHour = room.CloseHour
	granularity = room.SlotMinutes

	if closeHour == 0 {
		openHour = s.cfg.OpenHour
		closeHour = s.cfg.CloseHour
	}
	if granularity == 0 {
		granularity = s.cfg.SlotGranularityMin
	}
	return openHour, closeHour, granularity
}
