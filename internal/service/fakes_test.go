package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"mobile-shop/internal/domain"
)

type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	updateErr error
	writes    int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*domain.User{}}
}

func (f *fakeUsers) Init(context.Context) error { return nil }

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrDuplicateIdentity
	}
	cp := *user
	cp.Cart = user.Cart.Clone()
	cp.CreatedAt = time.Now()
	f.byEmail[user.Email] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	cp.Cart = domain.NormalizeCart(u.Cart)
	return &cp, nil
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsers) RotateRefreshToken(_ context.Context, email, expected, next string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	if expected == "" || u.RefreshToken != expected {
		return domain.ErrRevokedToken
	}
	u.RefreshToken = next
	return nil
}

func (f *fakeUsers) UpdateCart(_ context.Context, email string, cart domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Cart = cart.Clone()
	f.writes++
	return nil
}

func (f *fakeUsers) Ping(context.Context) error { return nil }

// raw returns the stored record without normalization.
func (f *fakeUsers) raw(email string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email]
}

type fakeOrders struct {
	users    *fakeUsers
	placed   []domain.Order
	placeErr error
}

func (f *fakeOrders) Init(context.Context) error { return nil }

func (f *fakeOrders) Place(_ context.Context, order *domain.Order) error {
	if f.placeErr != nil {
		return f.placeErr
	}
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.byEmail[order.Email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Cart = domain.Cart{}
	f.placed = append(f.placed, *order)
	return nil
}

func (f *fakeOrders) ListByEmail(_ context.Context, email string) ([]domain.Order, error) {
	var out []domain.Order
	for i := len(f.placed) - 1; i >= 0; i-- {
		if f.placed[i].Email == email {
			out = append(out, f.placed[i])
		}
	}
	return out, nil
}

type fakeProducts struct {
	byID      map[string]domain.Product
	order     []string
	lastQuery domain.ProductFilter
	getErr    error
}

func newFakeProducts(products ...domain.Product) *fakeProducts {
	f := &fakeProducts{byID: map[string]domain.Product{}}
	_ = f.Upsert(context.Background(), products)
	return f
}

func (f *fakeProducts) Init(context.Context) error { return nil }

func (f *fakeProducts) Upsert(_ context.Context, products []domain.Product) error {
	for _, p := range products {
		if _, ok := f.byID[p.ID]; !ok {
			f.order = append(f.order, p.ID)
		}
		f.byID[p.ID] = p
	}
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Photos = append([]string(nil), p.Photos...)
	return &p, nil
}

func (f *fakeProducts) Search(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	f.lastQuery = filter
	var out []domain.Product
	for _, id := range f.order {
		p := f.byID[id]
		if filter.Brand != "" && !strings.Contains(strings.ToLower(p.Brand), strings.ToLower(filter.Brand)) {
			continue
		}
		p.Photos = append([]string(nil), p.Photos...)
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Count(context.Context) (int64, error) { return int64(len(f.byID)), nil }

func (f *fakeProducts) delete(id string) {
	delete(f.byID, id)
}

func testProduct(model string) domain.Product {
	return domain.Product{
		ID:           domain.ProductIDFor("Brand", model, "Black", "4 GB", "64 GB"),
		Brand:        "Brand",
		Model:        model,
		Color:        "Black",
		Memory:       "4 GB",
		Storage:      "64 GB",
		Rating:       4.2,
		SellingPrice: 9999,
	}
}
