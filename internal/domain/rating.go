package domain

import "time"

// Rating is a 1-5 star rating left by a user. One rating per user,
// re-rating overwrites.
type Rating struct {
	UserID  int64
	Stars   int
	RatedAt time.Time
}

// RatingSummary is an aggregate over all stored ratings.
type RatingSummary struct {
	Count   int
	Average float64
}
