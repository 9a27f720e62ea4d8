package repository

import (
	"context"

	"mobile-shop/internal/domain"
)

// OrderRepository stores checkout snapshots.
type OrderRepository interface {
	Init(ctx context.Context) error
	// Place records the order and empties the owner's cart in one transaction.
	// If either step fails neither is applied.
	Place(ctx context.Context, order *domain.Order) error
	// ListByEmail returns the user's orders, newest first.
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
}
