package domain

import "time"

// User represents a registered shopper. Email is the unique identity.
type User struct {
	Email        string
	Name         string
	PasswordHash string
	// RefreshToken is the only refresh token currently accepted for the user.
	// Empty means none.
	RefreshToken string
	Cart         Cart
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
