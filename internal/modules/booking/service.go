package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/config"
	"roombooking/internal/domain"
	"roombooking/internal/pkg/clock"
	"roombooking/internal/repository"
)

const retryBackoff = 50 * time.Millisecond

type Service struct {
	reservations ReservationRepository
	rooms        RoomDirectory
	notifier     AvailabilityNotifier
	cfg          *config.BookingConfig
	clock        clock.Clock
}

func NewService(
	reservations ReservationRepository,
	rooms RoomDirectory,
	notifier AvailabilityNotifier,
	cfg *config.BookingConfig,
	clk clock.Clock,
) *Service {
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		notifier:     notifier,
		cfg:          cfg,
		clock:        clk,
	}
}

// CreateReservation admits a proposed reservation: time-bound
// validation here, then quota, conflict and room checks inside the
// repository's atomic unit. Serialization conflicts are retried a
// bounded number of times; everything else surfaces to the caller.
func (s *Service) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, *domain.FairnessSnapshot, error) {
	if req.PartySize == 0 {
		req.PartySize = 1
	}
	if req.PartySize < 1 {
		return nil, nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
	}
	if err := s.validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, nil, err
	}
	if !req.StartTime.After(s.clock.Now()) {
		return nil, nil, fmt.Errorf("%w: start time is in the past", ErrValidation)
	}

	res := &domain.Reservation{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.ReservationConfirmed,
		PartySize: req.PartySize,
		Purpose:   req.Purpose,
	}

	var snap *domain.FairnessSnapshot
	err := s.withRetry(ctx, func() error {
		var admitErr error
		snap, admitErr = s.reservations.Admit(ctx, res, s.limits())
		return admitErr
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifyChanged(res.RoomID, res.StartTime)
	return res, snap, nil
}

// ComputeUserQuota reports live usage counters for the reference date
// (today when empty) together with the caps and the admission verdict.
func (s *Service) ComputeUserQuota(ctx context.Context, userID int64, dateStr string) (*QuotaResponse, error) {
	ref := s.clock.Now()
	if dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		ref = day
	}

	usage, err := s.reservations.QuotaUsage(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	limits := s.limits()
	return &QuotaResponse{
		DailyCount:      usage.DailyCount,
		DailyBookingCap: limits.DailyBookingCap,
		WeeklyHours:     usage.WeeklyHours,
		WeeklyHoursCap:  limits.WeeklyHoursCap,
		CanBook:         usage.CanBook(limits),
	}, nil
}

func (s *Service) GetMyReservations(ctx context.Context, userID int64, limit, offset int) ([]repository.UserReservationDetails, error) {
	return s.reservations.GetUserReservationsWithDetails(ctx, userID, limit, offset)
}

// GetReservation returns the caller's reservation with its fairness
// snapshot attached when one exists.
func (s *Service) GetReservation(ctx context.Context, id, userID int64, role string) (*domain.Reservation, *domain.FairnessSnapshot, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if res.UserID != userID && role != string(domain.RoleAdmin) {
		return nil, nil, fmt.Errorf("%w: not your reservation", ErrForbidden)
	}

	snap, err := s.reservations.GetSnapshot(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}
	return res, snap, nil
}

// UpdateReservation applies a partial update under the modification
// rules: lead time first, then full re-validation when the time window
// moves. Unsupplied fields keep their prior values.
func (s *Service) UpdateReservation(ctx context.Context, id, userID int64, req UpdateReservationRequest) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, fmt.Errorf("%w: not your reservation", ErrForbidden)
	}
	if res.Status == domain.ReservationCancelled {
		return nil, fmt.Errorf("%w: cancelled reservations are immutable", ErrValidation)
	}
	if res.Status == domain.ReservationCompleted {
		return nil, fmt.Errorf("%w: reservation is already completed", ErrTiming)
	}
	if err := s.checkLeadTime(res.StartTime); err != nil {
		return nil, err
	}

	oldStart := res.StartTime
	newStart, newEnd := res.StartTime, res.EndTime
	if req.StartTime != nil {
		newStart = *req.StartTime
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
	}
	timeChanged := !newStart.Equal(res.StartTime) || !newEnd.Equal(res.EndTime)

	if req.PartySize != nil {
		if *req.PartySize < 1 {
			return nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
		}
		room, err := s.rooms.GetByID(ctx, res.RoomID)
		if err != nil {
			return nil, err
		}
		if *req.PartySize > room.Capacity {
			return nil, fmt.Errorf("%w: party size %d exceeds room capacity %d",
				ErrValidation, *req.PartySize, room.Capacity)
		}
		res.PartySize = *req.PartySize
	}
	if req.Purpose != nil {
		res.Purpose = *req.Purpose
	}

	if !timeChanged {
		if err := s.reservations.UpdateDetails(ctx, res); err != nil {
			return nil, err
		}
		return s.reservations.GetByID(ctx, id)
	}

	if err := s.validateWindow(newStart, newEnd); err != nil {
		return nil, err
	}
	res.StartTime = newStart
	res.EndTime = newEnd

	err = s.withRetry(ctx, func() error {
		return s.reservations.Reschedule(ctx, res, s.limits())
	})
	if err != nil {
		return nil, err
	}

	s.notifyChanged(res.RoomID, oldStart)
	s.notifyChanged(res.RoomID, newStart)
	return s.reservations.GetByID(ctx, id)
}

// CancelReservation transitions confirmed -> cancelled under the same
// lead-time rule as modification. Cancelling an already-cancelled
// reservation is an idempotent no-op.
func (s *Service) CancelReservation(ctx context.Context, id, userID int64, role string) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID && role != string(domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: not your reservation", ErrForbidden)
	}
	if res.Status == domain.ReservationCancelled {
		return res, nil
	}
	if res.Status == domain.ReservationCompleted {
		return nil, fmt.Errorf("%w: reservation is already completed", ErrTiming)
	}
	if err := s.checkLeadTime(res.StartTime); err != nil {
		return nil, err
	}

	if err := s.reservations.Cancel(ctx, id, s.clock.Now()); err != nil {
		return nil, err
	}

	s.notifyChanged(res.RoomID, res.StartTime)
	return s.reservations.GetByID(ctx, id)
}

// validateWindow enforces the reservation time-bound invariants: end
// after start, no midnight crossing, duration within the cap. Each
// failure names the violated rule.
func (s *Service) validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}

	_, dayEnd := domain.DayWindow(start)
	if end.After(dayEnd) {
		return fmt.Errorf("%w: reservation must not cross midnight", ErrValidation)
	}

	maxDur := time.Duration(s.cfg.MaxBookingHours) * time.Hour
	if end.Sub(start) > maxDur {
		return fmt.Errorf("%w: duration %s exceeds maximum of %dh",
			ErrValidation, end.Sub(start), s.cfg.MaxBookingHours)
	}
	return nil
}

// checkLeadTime rejects changes to reservations that have started or
// start within the configured lead window.
func (s *Service) checkLeadTime(start time.Time) error {
	now := s.clock.Now()
	if !start.After(now) {
		return fmt.Errorf("%w: reservation has already started", ErrTiming)
	}
	if start.Sub(now) < s.cfg.ModifyLeadTime {
		return fmt.Errorf("%w: changes require at least %s before start",
			ErrTiming, s.cfg.ModifyLeadTime)
	}
	return nil
}

// withRetry re-runs fn on transient store errors with linear backoff.
// Attempts are bounded so contention surfaces within seconds, never as
// a hang.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.AdmitRetryAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrTransientStore) {
			return err
		}
		if attempt == s.cfg.AdmitRetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

func (s *Service) limits() domain.QuotaLimits {
	return domain.QuotaLimits{
		DailyBookingCap: s.cfg.DailyBookingCap,
		WeeklyHoursCap:  s.cfg.WeeklyHoursCap,
	}
}

func (s *Service) notifyChanged(roomID int64, start time.Time) {
	if s.notifier == nil {
		return
	}
	s.notifier.ReservationChanged(roomID, start.Format("2006-01-02"))
}
