package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	color TEXT NOT NULL,
	memory TEXT NOT NULL DEFAULT '',
	storage TEXT NOT NULL DEFAULT '',
	rating REAL NOT NULL DEFAULT 0,
	selling_price REAL NOT NULL DEFAULT 0,
	original_price REAL NOT NULL DEFAULT 0,
	photos TEXT NOT NULL DEFAULT ''
);
`

const productColumns = `id, brand, model, color, memory, storage, rating, selling_price, original_price, photos`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ProductRepository) Upsert(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (`+productColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	brand=excluded.brand,
	model=excluded.model,
	color=excluded.color,
	memory=excluded.memory,
	storage=excluded.storage,
	rating=excluded.rating,
	selling_price=excluded.selling_price,
	original_price=excluded.original_price,
	photos=excluded.photos`)
	if err != nil {
		return fmt.Errorf("prepare product upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			p.Brand,
			p.Model,
			p.Color,
			p.Memory,
			p.Storage,
			p.Rating,
			p.SellingPrice,
			p.OriginalPrice,
			domain.JoinPhotos(p.Photos),
		); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	addContains := func(column, term string) {
		if term = strings.TrimSpace(term); term == "" {
			return
		}
		where = append(where, fmt.Sprintf("instr(%s(%s), ?) > 0", foldFunc, column))
		args = append(args, strings.ToLower(term))
	}
	addContains("brand", filter.Brand)
	addContains("model", filter.Model)
	addContains("color", filter.Color)

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case domain.SortPrice:
		query += ` ORDER BY selling_price ` + direction + `, rowid ASC`
	case domain.SortRating:
		query += ` ORDER BY rating ` + direction + `, rowid ASC`
	default:
		query += ` ORDER BY rowid ASC`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func scanProduct(scanner interface {
	Scan(dest ...any) error
}) (*domain.Product, error) {
	var (
		p      domain.Product
		photos string
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Brand,
		&p.Model,
		&p.Color,
		&p.Memory,
		&p.Storage,
		&p.Rating,
		&p.SellingPrice,
		&p.OriginalPrice,
		&photos,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Photos = domain.SplitPhotos(photos)
	return &p, nil
}
