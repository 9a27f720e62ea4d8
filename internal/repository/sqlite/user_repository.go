package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	email TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	cart TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = domain.Cart{}
	}

	cart, err := encodeCart(user.Cart)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO users (email, name, password_hash, refresh_token, cart, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.RefreshToken,
		cart,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("insert user %s: %w", user.Email, domain.ErrDuplicateIdentity)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT email, name, password_hash, refresh_token, cart, created_at, updated_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, email, token string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET refresh_token=?, updated_at=?
WHERE email=?`,
		token,
		time.Now().UTC(),
		email,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return expectOne(res, domain.ErrUserNotFound)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, email, expected, next string) error {
	if expected == "" {
		return domain.ErrRevokedToken
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET refresh_token=?, updated_at=?
WHERE email=? AND refresh_token=?`,
		next,
		time.Now().UTC(),
		email,
		expected,
	)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return expectOne(res, domain.ErrRevokedToken)
}

func (r *UserRepository) UpdateCart(ctx context.Context, email string, cart domain.Cart) error {
	encoded, err := encodeCart(cart)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET cart=?, updated_at=?
WHERE email=?`,
		encoded,
		time.Now().UTC(),
		email,
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return expectOne(res, domain.ErrUserNotFound)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user domain.User
		cart string
	)
	if err := row.Scan(
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.RefreshToken,
		&cart,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	lines, dropped, err := decodeCart(cart)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.Email, err)
	}
	if dropped > 0 {
		logrus.WithFields(logrus.Fields{"email": user.Email, "dropped": dropped}).Warn("skipped undecodable cart entries")
	}
	user.Cart = lines
	return &user, nil
}

func expectOne(res sql.Result, missing error) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if aff == 0 {
		return missing
	}
	return nil
}
