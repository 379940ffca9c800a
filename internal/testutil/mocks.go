package testutil

import (
	"context"

	"sessionbot/internal/domain"
	"sessionbot/internal/identity"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(userID int64, username string) error {
	args := m.Called(userID, username)
	return args.Error(0)
}

func (m *MockUserRepository) CountUsers() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockRatingRepository is a mock for repository.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) SaveRating(userID int64, stars int) error {
	args := m.Called(userID, stars)
	return args.Error(0)
}

func (m *MockRatingRepository) GetSummary() (*domain.RatingSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

// MockDialer is a mock for identity.Dialer
type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) Dial(ctx context.Context, apiID int, apiHash string) (identity.Conn, error) {
	args := m.Called(ctx, apiID, apiHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(identity.Conn), args.Error(1)
}

// MockConn is a mock for identity.Conn
type MockConn struct {
	mock.Mock
}

func (m *MockConn) RequestCode(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}

func (m *MockConn) SignIn(ctx context.Context, phone, codeHash, code string) error {
	args := m.Called(ctx, phone, codeHash, code)
	return args.Error(0)
}

func (m *MockConn) CheckPassword(ctx context.Context, password string) error {
	args := m.Called(ctx, password)
	return args.Error(0)
}

func (m *MockConn) ExportSession(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockConn) AccountInfo(ctx context.Context) (*domain.AccountInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountInfo), args.Error(1)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}
