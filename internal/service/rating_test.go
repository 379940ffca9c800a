package service

import (
	"errors"
	"testing"

	"sessionbot/internal/domain"
	"sessionbot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestRatingService_SaveRating(t *testing.T) {
	tests := []struct {
		name          string
		stars         int
		repoCalled    bool
		repoError     error
		expectedError bool
	}{
		{
			name:       "valid rating",
			stars:      5,
			repoCalled: true,
		},
		{
			name:       "lowest rating",
			stars:      1,
			repoCalled: true,
		},
		{
			name:          "zero rejected",
			stars:         0,
			expectedError: true,
		},
		{
			name:          "six rejected",
			stars:         6,
			expectedError: true,
		},
		{
			name:          "repo failure propagated",
			stars:         3,
			repoCalled:    true,
			repoError:     errors.New("db down"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockRatingRepository)
			if tt.repoCalled {
				mockRepo.On("SaveRating", int64(42), tt.stars).Return(tt.repoError)
			}

			service := NewRatingService(mockRepo)

			err := service.SaveRating(42, tt.stars)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRatingService_GetSummary(t *testing.T) {
	mockRepo := new(testutil.MockRatingRepository)
	mockRepo.On("GetSummary").Return(&domain.RatingSummary{Count: 3, Average: 4.5}, nil)

	service := NewRatingService(mockRepo)

	summary, err := service.GetSummary()

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 4.5, summary.Average)
	mockRepo.AssertExpectations(t)
}
