package testutil

import (
	"time"

	"sessionbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestAccountInfo creates account info for tests
func NewTestAccountInfo(id int64) *domain.AccountInfo {
	return &domain.AccountInfo{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Username:  "testuser",
		Phone:     "+34123456789",
	}
}

// NewTestUser creates a test user
func NewTestUser(userID int64, username string) *domain.User {
	return &domain.User{
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
	}
}
