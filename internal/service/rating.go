package service

import (
	"fmt"

	"sessionbot/internal/domain"
	"sessionbot/internal/repository"
)

// RatingService handles bot rating logic
type RatingService struct {
	ratingRepo repository.RatingRepository
}

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo repository.RatingRepository) *RatingService {
	return &RatingService{ratingRepo: ratingRepo}
}

// SaveRating stores a 1-5 star rating for the user
func (s *RatingService) SaveRating(userID int64, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", stars)
	}
	return s.ratingRepo.SaveRating(userID, stars)
}

// GetSummary returns the aggregate over all ratings
func (s *RatingService) GetSummary() (*domain.RatingSummary, error) {
	return s.ratingRepo.GetSummary()
}
