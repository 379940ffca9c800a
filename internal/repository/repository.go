package repository

import (
	"sessionbot/internal/domain"
)

// UserRepository defines bot user data operations
type UserRepository interface {
	EnsureUserExists(userID int64, username string) error
	CountUsers() (int, error)
}

// RatingRepository defines rating data operations
type RatingRepository interface {
	SaveRating(userID int64, stars int) error
	GetSummary() (*domain.RatingSummary, error)
}
