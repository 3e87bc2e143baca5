package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/database"
	"roombooking/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db       *gorm.DB
	postgres bool
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db, postgres: database.IsPostgres(db)}
}

type reservationModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	RoomID      int64      `gorm:"column:room_id"`
	UserID      int64      `gorm:"column:user_id"`
	StartTime   time.Time  `gorm:"column:start_time"`
	EndTime     time.Time  `gorm:"column:end_time"`
	Status      string     `gorm:"column:status"`
	PartySize   int        `gorm:"column:party_size"`
	Purpose     *string    `gorm:"column:purpose"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (reservationModel) TableName() string { return "reservations" }

type fairnessSnapshotModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ReservationID int64     `gorm:"column:reservation_id"`
	UserID        int64     `gorm:"column:user_id"`
	DailyCount    int       `gorm:"column:daily_count"`
	WeeklyHours   float64   `gorm:"column:weekly_hours"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (fairnessSnapshotModel) TableName() string { return "fairness_snapshots" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	var purpose string
	if m.Purpose != nil {
		purpose = *m.Purpose
	}

	return &domain.Reservation{
		ID:          m.ID,
		RoomID:      m.RoomID,
		UserID:      m.UserID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Status:      domain.ReservationStatus(m.Status),
		PartySize:   m.PartySize,
		Purpose:     purpose,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	var purpose *string
	if r.Purpose != "" {
		v := r.Purpose
		purpose = &v
	}

	return reservationModel{
		ID:          r.ID,
		RoomID:      r.RoomID,
		UserID:      r.UserID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      string(r.Status),
		PartySize:   r.PartySize,
		Purpose:     purpose,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CancelledAt: r.CancelledAt,
	}
}

func toDomainSnapshot(m fairnessSnapshotModel) *domain.FairnessSnapshot {
	return &domain.FairnessSnapshot{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		UserID:        m.UserID,
		DailyCount:    m.DailyCount,
		WeeklyHours:   m.WeeklyHours,
		CreatedAt:     m.CreatedAt,
	}
}

// Admit runs the admission check-and-insert as one atomic unit: lock the
// room row, re-check quotas and conflicts, then insert the reservation
// together with its fairness snapshot. Either both rows commit or
// neither does.
func (r *ReservationRepository) Admit(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) (*domain.FairnessSnapshot, error) {
	var snap *domain.FairnessSnapshot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := r.lockRoom(tx, res.RoomID)
		if err != nil {
			return err
		}

		usage, err := quotaUsage(tx, res.UserID, res.StartTime, 0)
		if err != nil {
			return err
		}
		if usage.DailyCount >= limits.DailyBookingCap {
			return fmt.Errorf("%w: daily booking cap reached (%d of %d)",
				domain.ErrQuotaExceeded, usage.DailyCount, limits.DailyBookingCap)
		}
		if usage.WeeklyHours >= limits.WeeklyHoursCap {
			return fmt.Errorf("%w: weekly hours cap reached (%.1fh of %.0fh)",
				domain.ErrQuotaExceeded, usage.WeeklyHours, limits.WeeklyHoursCap)
		}

		overlaps, err := countOverlaps(tx, res.RoomID, res.StartTime, res.EndTime, 0)
		if err != nil {
			return err
		}
		if overlaps > 0 {
			return fmt.Errorf("%w: interval %s-%s overlaps an existing reservation",
				domain.ErrConflict, res.StartTime.Format("15:04"), res.EndTime.Format("15:04"))
		}

		if !room.Bookable() {
			return fmt.Errorf("%w: room %d is %s", domain.ErrRoomUnavailable, room.ID, room.Status)
		}
		if res.PartySize > room.Capacity {
			return fmt.Errorf("%w: party size %d exceeds room capacity %d",
				domain.ErrValidation, res.PartySize, room.Capacity)
		}

		m := toReservationModel(res)
		m.Status = string(domain.ReservationConfirmed)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		sm := fairnessSnapshotModel{
			ReservationID: m.ID,
			UserID:        res.UserID,
			DailyCount:    usage.DailyCount + 1,
			WeeklyHours:   usage.WeeklyHours + res.Duration().Hours(),
		}
		if err := tx.Create(&sm).Error; err != nil {
			return err
		}

		*res = *toDomainReservation(m)
		snap = toDomainSnapshot(sm)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, mapStoreError(err)
	}
	return snap, nil
}

// Reschedule re-validates conflicts and the weekly cap for a time change
// in the same atomic unit that persists it. The reservation's own row is
// excluded from both checks.
func (r *ReservationRepository) Reschedule(ctx context.Context, res *domain.Reservation, limits domain.QuotaLimits) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockRoom(tx, res.RoomID); err != nil {
			return err
		}

		overlaps, err := countOverlaps(tx, res.RoomID, res.StartTime, res.EndTime, res.ID)
		if err != nil {
			return err
		}
		if overlaps > 0 {
			return fmt.Errorf("%w: interval %s-%s overlaps an existing reservation",
				domain.ErrConflict, res.StartTime.Format("15:04"), res.EndTime.Format("15:04"))
		}

		usage, err := quotaUsage(tx, res.UserID, res.StartTime, res.ID)
		if err != nil {
			return err
		}
		if usage.WeeklyHours+res.Duration().Hours() > limits.WeeklyHoursCap {
			return fmt.Errorf("%w: change would exceed weekly hours cap (%.1fh of %.0fh)",
				domain.ErrQuotaExceeded, usage.WeeklyHours+res.Duration().Hours(), limits.WeeklyHoursCap)
		}

		return tx.Model(&reservationModel{}).Where("id = ?", res.ID).Updates(map[string]any{
			"start_time": res.StartTime,
			"end_time":   res.EndTime,
			"party_size": res.PartySize,
			"purpose":    nullableString(res.Purpose),
			"updated_at": time.Now(),
		}).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return mapStoreError(err)
}

// UpdateDetails persists purpose/party-size changes that leave the time
// window untouched.
func (r *ReservationRepository) UpdateDetails(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Model(&reservationModel{}).Where("id = ?", res.ID).Updates(map[string]any{
		"party_size": res.PartySize,
		"purpose":    nullableString(res.Purpose),
		"updated_at": time.Now(),
	}).Error
}

func (r *ReservationRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&reservationModel{}).Where("id = ?", id).Updates(map[string]any{
		"status":       string(domain.ReservationCancelled),
		"cancelled_at": at,
		"updated_at":   at,
	}).Error
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
		}
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// GetForRoomDay returns the room's non-cancelled reservations whose
// interval intersects [dayStart, dayEnd), ordered by start time. Read
// path only; served without locks.
func (r *ReservationRepository) GetForRoomDay(ctx context.Context, roomID int64, dayStart, dayEnd time.Time) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			roomID, string(domain.ReservationCancelled), dayEnd, dayStart).
		Order("start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// UserReservationDetails is a listing row with room/hostel names joined in.
type UserReservationDetails struct {
	ID         int64     `gorm:"column:id"`
	Status     string    `gorm:"column:status"`
	StartTime  time.Time `gorm:"column:start_time"`
	EndTime    time.Time `gorm:"column:end_time"`
	PartySize  int       `gorm:"column:party_size"`
	RoomID     int64     `gorm:"column:room_id"`
	RoomName   string    `gorm:"column:room_name"`
	HostelID   int64     `gorm:"column:hostel_id"`
	HostelName string    `gorm:"column:hostel_name"`
}

func (r *ReservationRepository) GetUserReservationsWithDetails(ctx context.Context, userID int64, limit, offset int) ([]UserReservationDetails, error) {
	var rows []UserReservationDetails
	q := `
SELECT res.id, res.status, res.start_time, res.end_time, res.party_size,
       res.room_id, rm.name AS room_name,
       rm.hostel_id, h.name AS hostel_name
FROM reservations res
JOIN rooms rm ON rm.id = res.room_id
JOIN hostels h ON h.id = rm.hostel_id
WHERE res.user_id = ?
ORDER BY res.start_time DESC
LIMIT ? OFFSET ?
`
	tx := r.db.WithContext(ctx).Raw(q, userID, limit, offset).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// QuotaUsage computes live counters outside a transaction, for the
// read-only quota endpoint. The admission path recomputes them inside
// its own transaction.
func (r *ReservationRepository) QuotaUsage(ctx context.Context, userID int64, ref time.Time) (domain.QuotaUsage, error) {
	return quotaUsage(r.db.WithContext(ctx), userID, ref, 0)
}

func (r *ReservationRepository) GetSnapshot(ctx context.Context, reservationID int64) (*domain.FairnessSnapshot, error) {
	var m fairnessSnapshotModel
	tx := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: snapshot for reservation %d", domain.ErrNotFound, reservationID)
		}
		return nil, tx.Error
	}
	return toDomainSnapshot(m), nil
}

// SweepCompleted flips confirmed reservations whose end has passed to
// completed. Driven by cmd/sweep.
func (r *ReservationRepository) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("status = ? AND end_time <= ?", string(domain.ReservationConfirmed), now).
		Updates(map[string]any{
			"status":     string(domain.ReservationCompleted),
			"updated_at": now,
		})
	return tx.RowsAffected, tx.Error
}

func (r *ReservationRepository) lockRoom(tx *gorm.DB, roomID int64) (*domain.Room, error) {
	q := tx
	if r.postgres {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m roomModel
	if err := q.First(&m, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d not found", domain.ErrRoomUnavailable, roomID)
		}
		return nil, err
	}
	return toDomainRoom(m), nil
}

// countOverlaps uses half-open interval intersection:
// existing.start < end AND existing.end > start.
func countOverlaps(tx *gorm.DB, roomID int64, start, end time.Time, excludeID int64) (int64, error) {
	q := tx.Model(&reservationModel{}).
		Where("room_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			roomID, string(domain.ReservationCancelled), end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// quotaUsage recomputes the user's counters from reservation history:
// count of live reservations starting on ref's day, and live booked
// hours in ref's Sunday-based week. Duration summing happens in Go so
// the query stays portable across Postgres and SQLite.
func quotaUsage(tx *gorm.DB, userID int64, ref time.Time, excludeID int64) (domain.QuotaUsage, error) {
	dayStart, dayEnd := domain.DayWindow(ref)
	weekStart, weekEnd := domain.WeekWindow(ref)

	dailyQ := tx.Model(&reservationModel{}).
		Where("user_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			userID, string(domain.ReservationCancelled), dayStart, dayEnd)
	if excludeID != 0 {
		dailyQ = dailyQ.Where("id <> ?", excludeID)
	}
	var daily int64
	if err := dailyQ.Count(&daily).Error; err != nil {
		return domain.QuotaUsage{}, err
	}

	weekQ := tx.Model(&reservationModel{}).
		Select("start_time", "end_time").
		Where("user_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			userID, string(domain.ReservationCancelled), weekStart, weekEnd)
	if excludeID != 0 {
		weekQ = weekQ.Where("id <> ?", excludeID)
	}
	var rows []reservationModel
	if err := weekQ.Find(&rows).Error; err != nil {
		return domain.QuotaUsage{}, err
	}

	var hours float64
	for _, m := range rows {
		hours += m.EndTime.Sub(m.StartTime).Hours()
	}

	return domain.QuotaUsage{DailyCount: int(daily), WeeklyHours: hours}, nil
}

// mapStoreError translates driver errors into the shared taxonomy:
// serialization failures and deadlocks are retryable, a hit on the
// overlap guard index is a conflict.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", domain.ErrTransientStore, pgErr.Code)
		case "23505":
			if pgErr.ConstraintName == "idx_room_interval" {
				return fmt.Errorf("%w: interval already reserved", domain.ErrConflict)
			}
		}
	}
	return err
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
