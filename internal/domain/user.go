package domain

import "time"

type UserRole string

const (
	RoleResident UserRole = "resident"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	RoomNumber   string   `json:"room_number,omitempty"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
