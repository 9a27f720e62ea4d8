package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

type stores struct {
	db       *sql.DB
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func openTestStores(t *testing.T) stores {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := stores{
		db:       db,
		users:    NewUserRepository(db),
		products: NewProductRepository(db),
		orders:   NewOrderRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.products.Init(ctx))
	require.NoError(t, s.orders.Init(ctx))
	return s
}

func mustCreateUser(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: "test", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}
