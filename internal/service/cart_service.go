package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

// CartService owns the state transitions of a user's cart. Every method acts
// on the authenticated caller identified by email.
type CartService interface {
	// Add returns the line quantity after the increment.
	Add(ctx context.Context, email, productID string, quantity int) (int, error)
	Remove(ctx context.Context, email, productID string) error
	View(ctx context.Context, email string) ([]domain.CartItem, error)
	Checkout(ctx context.Context, email string) (*domain.Order, error)
	Clear(ctx context.Context, email string) error
	Orders(ctx context.Context, email string) ([]domain.Order, error)
}

type cartService struct {
	users   repository.UserRepository
	orders  repository.OrderRepository
	catalog CatalogService
	now     func() time.Time
}

func NewCartService(users repository.UserRepository, orders repository.OrderRepository, catalog CatalogService) CartService {
	return &cartService{
		users:   users,
		orders:  orders,
		catalog: catalog,
		now:     time.Now,
	}
}

func (s *cartService) Add(ctx context.Context, email, productID string, quantity int) (int, error) {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return 0, domain.ErrInvalidQuantity
	}
	productID = strings.TrimSpace(productID)
	if _, err := s.catalog.Get(ctx, productID); err != nil {
		return 0, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	cart, total, err := user.Cart.Add(productID, quantity)
	if err != nil {
		return 0, err
	}
	if err := s.users.UpdateCart(ctx, email, cart); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *cartService) Remove(ctx context.Context, email, productID string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	cart, _ := user.Cart.Remove(strings.TrimSpace(productID))
	// written back even when nothing matched so older cart rows are stored normalized
	return s.users.UpdateCart(ctx, email, cart)
}

func (s *cartService) View(ctx context.Context, email string) ([]domain.CartItem, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(user.Cart))
	for _, line := range user.Cart {
		product, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, domain.CartItem{Product: *product, Quantity: line.Quantity})
	}
	return items, nil
}

func (s *cartService) Checkout(ctx context.Context, email string) (*domain.Order, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartLine, 0, len(user.Cart))
	for _, line := range user.Cart {
		if !domain.ValidProductID(line.ProductID) {
			continue
		}
		items = append(items, line)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		Email:     user.Email,
		Items:     items,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Place(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}

func (s *cartService) Clear(ctx context.Context, email string) error {
	return s.users.UpdateCart(ctx, email, domain.Cart{})
}

func (s *cartService) Orders(ctx context.Context, email string) ([]domain.Order, error) {
	return s.orders.ListByEmail(ctx, email)
}
