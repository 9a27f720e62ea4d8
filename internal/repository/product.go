package repository

import (
	"context"

	"mobile-shop/internal/domain"
)

// ProductRepository is the catalog's backing store.
type ProductRepository interface {
	Init(ctx context.Context) error
	// Upsert inserts or replaces products by id.
	Upsert(ctx context.Context, products []domain.Product) error
	// GetByID returns domain.ErrProductNotFound on a miss.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
}
