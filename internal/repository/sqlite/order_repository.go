package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	items TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(email) REFERENCES users(email)
);
CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email);
`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

func (r *OrderRepository) Place(ctx context.Context, order *domain.Order) error {
	items, err := encodeCart(order.Items)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	res, err := tx.ExecContext(ctx, `
UPDATE users
SET cart='[]', updated_at=?
WHERE email=?`,
		time.Now().UTC(),
		order.Email,
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if err := expectOne(res, domain.ErrUserNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO orders (id, email, items, created_at)
VALUES (?, ?, ?, ?)`,
		order.ID,
		order.Email,
		items,
		order.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}

func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, email, items, created_at
FROM orders
WHERE email=?
ORDER BY created_at DESC, rowid DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order domain.Order
			items string
		)
		if err := rows.Scan(&order.ID, &order.Email, &items, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		lines, _, err := decodeCart(items)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		order.Items = lines
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
