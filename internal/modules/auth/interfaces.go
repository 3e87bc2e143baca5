package auth

import (
	"context"
	"time"

	"roombooking/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error
}
