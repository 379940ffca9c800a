package postgres

import (
	"database/sql"

	"sessionbot/internal/domain"
)

// RatingRepo implements repository.RatingRepository
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// SaveRating stores the user's rating, overwriting a previous one
func (r *RatingRepo) SaveRating(userID int64, stars int) error {
	query := `
		INSERT INTO ratings (user_id, stars, rated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET stars = EXCLUDED.stars, rated_at = NOW()
	`
	_, err := r.db.Exec(query, userID, stars)
	return err
}

// GetSummary returns the count and average of all stored ratings
func (r *RatingRepo) GetSummary() (*domain.RatingSummary, error) {
	var summary domain.RatingSummary
	var avg sql.NullFloat64
	query := `SELECT COUNT(*), AVG(stars) FROM ratings`
	if err := r.db.QueryRow(query).Scan(&summary.Count, &avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		summary.Average = avg.Float64
	}
	return &summary, nil
}
