package session

import (
	"time"

	"sessionbot/internal/identity"
)

// Step identifies where a user is in the generation conversation.
type Step string

const (
	StepAPIID    Step = "awaiting_api_id"
	StepAPIHash  Step = "awaiting_api_hash"
	StepPhone    Step = "awaiting_phone"
	StepCode     Step = "awaiting_code"
	StepPassword Step = "awaiting_password"
	StepFinal    Step = "finalizing"
)

// TTL is how long a record may live before it is treated as nonexistent.
const TTL = 30 * time.Minute

// Record is the per-user state of one in-progress generation flow.
// Conn, once set, is exclusively owned by this record and is closed by the
// registry whenever the record is cleared, whatever the outcome.
type Record struct {
	UserID        int64
	Step          Step
	APIID         int
	APIHash       string
	Phone         string
	PhoneCodeHash string
	Code          string
	Password      string
	Conn          identity.Conn
	CreatedAt     time.Time
}

// Expired reports whether the record is past its TTL.
func (r *Record) Expired(now time.Time) bool {
	return now.Sub(r.CreatedAt) > TTL
}
