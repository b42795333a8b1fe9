package domain

import "time"

// Account is the Twitter identity a connection authenticates as.
type Account struct {
	// ID is the numeric user id rendered as a string.
	ID string

	// ScreenName is the @handle without the leading @.
	ScreenName string

	// Name is the display name.
	Name string

	Protected bool
	Verified  bool

	FollowersCount int
	FriendsCount   int

	CreatedAt time.Time
}

// Handle returns the screen name prefixed with @.
func (a *Account) Handle() string {
	if a == nil || a.ScreenName == "" {
		return ""
	}

	return "@" + a.ScreenName
}

// ConnectionStatus is the result of verifying a single named connection.
type ConnectionStatus struct {
	Connection string
	Account    *Account
	Err        error
}

// OK reports whether the connection verified successfully.
func (s ConnectionStatus) OK() bool {
	return s.Err == nil && s.Account != nil
}
