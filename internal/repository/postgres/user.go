package postgres

import (
	"database/sql"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates the user if not seen before, refreshing the
// username either way.
func (r *UserRepo) EnsureUserExists(userID int64, username string) error {
	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username
	`
	_, err := r.db.Exec(query, userID, username)
	return err
}

// CountUsers returns the number of registered users
func (r *UserRepo) CountUsers() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
