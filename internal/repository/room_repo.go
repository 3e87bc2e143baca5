package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	HostelID    int64     `gorm:"column:hostel_id"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	Capacity    int       `gorm:"column:capacity"`
	RoomType    string    `gorm:"column:room_type"`
	Status      string    `gorm:"column:status"`
	OpenHour    int       `gorm:"column:open_hour"`
	CloseHour   int       `gorm:"column:close_hour"`
	SlotMinutes int       `gorm:"column:slot_minutes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	var description string
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Room{
		ID:          m.ID,
		HostelID:    m.HostelID,
		Name:        m.Name,
		Description: description,
		Capacity:    m.Capacity,
		RoomType:    domain.RoomType(m.RoomType),
		Status:      domain.RoomStatus(m.Status),
		OpenHour:    m.OpenHour,
		CloseHour:   m.CloseHour,
		SlotMinutes: m.SlotMinutes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, id)
		}
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) GetByHostelID(ctx context.Context, hostelID int64) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).
		Where("hostel_id = ?", hostelID).
		Order("name ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}
