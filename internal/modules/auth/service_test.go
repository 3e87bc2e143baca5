package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roombooking/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(ctx, userID, failedAttempts, lockedUntil)
	return args.Error(0)
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token", nil
}

func hashOf(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("ExistsByEmail", mock.Anything, "maya@student.example").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "maya@student.example" && u.Role == domain.RoleResident && u.PasswordHash != ""
	})).Return(nil)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Maya@Student.Example ",
		Password: "password123",
		Name:     "Maya",
	})

	assert.NoError(t, err)
	assert.Equal(t, "maya@student.example", user.Email)
	assert.Empty(t, user.PasswordHash)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("ExistsByEmail", mock.Anything, "maya@student.example").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "maya@student.example",
		Password: "password123",
		Name:     "Maya",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("GetByEmail", mock.Anything, "maya@student.example").Return(&domain.User{
		ID:           7,
		Email:        "maya@student.example",
		PasswordHash: hashOf("password123"),
		Role:         domain.RoleResident,
	}, nil)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maya@student.example",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", result.AccessToken)
	assert.Empty(t, result.User.PasswordHash)
}

func TestLogin_WrongPasswordCountsAttempt(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("GetByEmail", mock.Anything, "maya@student.example").Return(&domain.User{
		ID:           7,
		Email:        "maya@student.example",
		PasswordHash: hashOf("password123"),
	}, nil)
	users.On("UpdateLoginState", mock.Anything, int64(7), 1, (*time.Time)(nil)).Return(nil).Once()

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maya@student.example",
		Password: "nope",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertExpectations(t)
}

func TestLogin_FifthFailureLocksAccount(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("GetByEmail", mock.Anything, "maya@student.example").Return(&domain.User{
		ID:                  7,
		Email:               "maya@student.example",
		PasswordHash:        hashOf("password123"),
		FailedLoginAttempts: 4,
	}, nil)
	users.On("UpdateLoginState", mock.Anything, int64(7), 5, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.After(time.Now())
	})).Return(nil).Once()

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maya@student.example",
		Password: "nope",
	})

	assert.ErrorIs(t, err, ErrAccountLocked)
	users.AssertExpectations(t)
}

func TestLogin_LockedAccountRejected(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	lockedUntil := time.Now().Add(10 * time.Minute)
	users.On("GetByEmail", mock.Anything, "maya@student.example").Return(&domain.User{
		ID:           7,
		Email:        "maya@student.example",
		PasswordHash: hashOf("password123"),
		LockedUntil:  &lockedUntil,
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maya@student.example",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_SuccessResetsCounters(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("GetByEmail", mock.Anything, "maya@student.example").Return(&domain.User{
		ID:                  7,
		Email:               "maya@student.example",
		PasswordHash:        hashOf("password123"),
		FailedLoginAttempts: 3,
	}, nil)
	users.On("UpdateLoginState", mock.Anything, int64(7), 0, (*time.Time)(nil)).Return(nil).Once()

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maya@student.example",
		Password: "password123",
	})

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, stubJWT{})

	users.On("GetByEmail", mock.Anything, "nobody@student.example").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@student.example",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
