package identity

import (
	"context"
	"errors"

	"sessionbot/internal/domain"
)

// ErrPasswordNeeded is returned by Conn.SignIn when the account has
// two-step verification enabled and a password must be confirmed before
// the sign-in completes.
var ErrPasswordNeeded = errors.New("two-step verification password needed")

// Dialer opens temporary authenticated connections to Telegram on behalf
// of a user going through the generation flow.
type Dialer interface {
	Dial(ctx context.Context, apiID int, apiHash string) (Conn, error)
}

// Conn is a live, not-yet-finalized connection to Telegram. It is
// exclusively owned by a single session record and must be closed exactly
// by whoever clears that record.
type Conn interface {
	// RequestCode asks Telegram to send a login code to the phone and
	// returns the phone code hash needed to redeem it.
	RequestCode(ctx context.Context, phone string) (string, error)

	// SignIn completes the login with the received code. Returns
	// ErrPasswordNeeded when the account requires a 2FA password.
	SignIn(ctx context.Context, phone, codeHash, code string) error

	// CheckPassword confirms the 2FA password after SignIn returned
	// ErrPasswordNeeded.
	CheckPassword(ctx context.Context, password string) error

	// ExportSession returns the reusable session string for the
	// now-authorized connection.
	ExportSession(ctx context.Context) (string, error)

	// AccountInfo fetches basic profile data of the signed-in account.
	AccountInfo(ctx context.Context) (*domain.AccountInfo, error)

	// Close disconnects. Safe to call more than once.
	Close() error
}
