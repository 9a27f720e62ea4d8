package repository

import (
	"context"

	"mobile-shop/internal/domain"
)

// UserRepository defines persistence operations for User documents keyed by email.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create fails with domain.ErrDuplicateIdentity when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// GetByEmail returns domain.ErrUserNotFound on a miss. The cart is always normalized.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// SetRefreshToken overwrites the stored token; an empty token clears it.
	SetRefreshToken(ctx context.Context, email, token string) error
	// RotateRefreshToken replaces expected with next only if expected is still
	// the stored token, otherwise it returns domain.ErrRevokedToken.
	RotateRefreshToken(ctx context.Context, email, expected, next string) error
	// UpdateCart replaces the whole cart field.
	UpdateCart(ctx context.Context, email string, cart domain.Cart) error
	Ping(ctx context.Context) error
}
