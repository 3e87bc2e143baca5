package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type HostelRepository struct {
	db *gorm.DB
}

func NewHostelRepository(db *gorm.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

type hostelModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Code      string    `gorm:"column:code"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (hostelModel) TableName() string { return "hostels" }

func toDomainHostel(m hostelModel) *domain.Hostel {
	return &domain.Hostel{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	var m hostelModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: hostel %d", domain.ErrNotFound, id)
		}
		return nil, tx.Error
	}
	return toDomainHostel(m), nil
}

func (r *HostelRepository) List(ctx context.Context) ([]domain.Hostel, error) {
	var rows []hostelModel
	tx := r.db.WithContext(ctx).Order("name ASC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Hostel, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainHostel(m))
	}
	return out, nil
}
