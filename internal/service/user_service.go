package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

// UserService describes signup, login and the refresh token lifecycle.
type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// Refresh rotates a current refresh token into a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, email string) error
	// Authenticate resolves an access token to its user.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokens *TokenService) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// NormalizeEmail is the canonical identity form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	// a display name form such as "Alice <a@x.com>" parses too; only a bare address is an identity
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email is not valid", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Cart:         domain.Cart{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.Email, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(subject)
	if err != nil {
		return nil, err
	}
	if err := s.users.RotateRefreshToken(ctx, subject, refreshToken, pair.RefreshToken); err != nil {
		// a deleted subject can't hold a current token either
		if errors.Is(err, domain.ErrRevokedToken) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrRevokedToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return pair, nil
}

func (s *userService) Logout(ctx context.Context, email string) error {
	if err := s.users.SetRefreshToken(ctx, email, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	subject, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// sanitizeUser strips credential material before a user leaves the service.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		Email:     user.Email,
		Name:      user.Name,
		Cart:      user.Cart.Clone(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
