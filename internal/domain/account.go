package domain

// AccountInfo is basic profile data of the Telegram account a session
// string was generated for.
type AccountInfo struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Phone     string
}
