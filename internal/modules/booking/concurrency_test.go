package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"roombooking/internal/domain"
	"roombooking/internal/pkg/clock"
	"roombooking/internal/repository"
)

// memStore is a mutex-guarded in-memory ReservationRepository. Each
// Admit runs its checks and insert under one lock, mirroring the
// serializable transaction of the real store.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Reservation
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]*domain.Reservation)}
}

func (s *memStore) Admit(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) (*domain.FairnessSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usage := s.usageLocked(res.UserID, res.StartTime, 0)
	if usage.DailyCount >= limits.DailyBookingCap {
		return nil, fmt.Errorf("%w: daily cap reached", ErrQuotaExceeded)
	}
	if usage.WeeklyHours >= limits.WeeklyHoursCap {
		return nil, fmt.Errorf("%w: weekly hours cap reached", ErrQuotaExceeded)
	}
	if s.overlapsLocked(res.RoomID, res.StartTime, res.EndTime, 0) {
		return nil, fmt.Errorf("%w: interval is taken", ErrConflict)
	}

	s.nextID++
	res.ID = s.nextID
	stored := *res
	s.rows[res.ID] = &stored

	return &domain.FairnessSnapshot{
		ReservationID: res.ID,
		UserID:        res.UserID,
		DailyCount:    usage.DailyCount + 1,
		WeeklyHours:   usage.WeeklyHours + res.Duration().Hours(),
	}, nil
}

func (s *memStore) Reschedule(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overlapsLocked(res.RoomID, res.StartTime, res.EndTime, res.ID) {
		return fmt.Errorf("%w: interval is taken", ErrConflict)
	}
	usage := s.usageLocked(res.UserID, res.StartTime, res.ID)
	if usage.WeeklyHours+res.Duration().Hours() > limits.WeeklyHoursCap {
		return fmt.Errorf("%w: weekly hours cap reached", ErrQuotaExceeded)
	}
	stored := *res
	s.rows[res.ID] = &stored
	return nil
}

func (s *memStore) UpdateDetails(ctx context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *res
	s.rows[res.ID] = &stored
	return nil
}

func (s *memStore) Cancel(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return ErrNotFound
	}
	row.Status = domain.ReservationCancelled
	row.CancelledAt = &at
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *memStore) GetUserReservationsWithDetails(ctx context.Context, userID int64, limit, offset int) ([]repository.UserReservationDetails, error) {
	return nil, nil
}

func (s *memStore) QuotaUsage(ctx context.Context, userID int64, ref time.Time) (domain.QuotaUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usageLocked(userID, ref, 0), nil
}

func (s *memStore) GetSnapshot(ctx context.Context, reservationID int64) (*domain.FairnessSnapshot, error) {
	return nil, ErrNotFound
}

func (s *memStore) overlapsLocked(roomID int64, start, end time.Time, excludeID int64) bool {
	for _, row := range s.rows {
		if row.RoomID != roomID || row.ID == excludeID || !row.Live() {
			continue
		}
		if row.StartTime.Before(end) && row.EndTime.After(start) {
			return true
		}
	}
	return false
}

func (s *memStore) usageLocked(userID int64, ref time.Time, excludeID int64) domain.QuotaUsage {
	dayStart, dayEnd := domain.DayWindow(ref)
	weekStart, weekEnd := domain.WeekWindow(ref)

	var usage domain.QuotaUsage
	for _, row := range s.rows {
		if row.UserID != userID || row.ID == excludeID || !row.Live() {
			continue
		}
		if !row.StartTime.Before(dayStart) && row.StartTime.Before(dayEnd) {
			usage.DailyCount++
		}
		if !row.StartTime.Before(weekStart) && row.StartTime.Before(weekEnd) {
			usage.WeeklyHours += row.Duration().Hours()
		}
	}
	return usage
}

func TestCreateReservation_ConcurrentSameSlotAdmitsExactlyOne(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, new(MockRoomDirectory), nil, testConfig(), clock.Fixed(testNow))

	start := time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 8, 16, 0, 0, 0, time.UTC)

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, _, err := svc.CreateReservation(context.Background(), CreateReservationRequest{
				RoomID:    1,
				UserID:    userID,
				StartTime: start,
				EndTime:   end,
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var admitted, conflicted int
	for err := range results {
		switch {
		case err == nil:
			admitted++
		default:
			assert.ErrorIs(t, err, ErrConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, workers-1, conflicted)
	assert.Len(t, store.rows, 1)
}

func TestCreateReservation_ConcurrentBurstRespectsDailyCap(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, new(MockRoomDirectory), nil, testConfig(), clock.Fixed(testNow))

	// One user fires five non-overlapping same-day requests at once;
	// with a daily cap of 2, at most two may land.
	const attempts = 5
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			start := time.Date(2025, 1, 8, hour, 0, 0, 0, time.UTC)
			_, _, err := svc.CreateReservation(context.Background(), CreateReservationRequest{
				RoomID:    1,
				UserID:    7,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
			})
			results <- err
		}(10 + i*2)
	}
	wg.Wait()
	close(results)

	var admitted int
	for err := range results {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, ErrQuotaExceeded)
		}
	}
	assert.Equal(t, 2, admitted)
	assert.Len(t, store.rows, 2)
}

func TestReservationLifecycle_AgainstMemStore(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, new(MockRoomDirectory), nil, testConfig(), clock.Fixed(testNow))

	res, snap, err := svc.CreateReservation(context.Background(), CreateReservationRequest{
		RoomID:    1,
		UserID:    7,
		StartTime: time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 1, 8, 16, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, snap.DailyCount)
	assert.Equal(t, 2.0, snap.WeeklyHours)

	// A second user cannot take the same interval...
	_, _, err = svc.CreateReservation(context.Background(), CreateReservationRequest{
		RoomID:    1,
		UserID:    8,
		StartTime: time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 1, 8, 17, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrConflict)

	// ...until the first cancels, which frees it immediately.
	_, err = svc.CancelReservation(context.Background(), res.ID, 7, string(domain.RoleResident))
	assert.NoError(t, err)

	_, _, err = svc.CreateReservation(context.Background(), CreateReservationRequest{
		RoomID:    1,
		UserID:    8,
		StartTime: time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 1, 8, 17, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
}
