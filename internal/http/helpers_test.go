package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository/sqlite"
	"mobile-shop/internal/service"
)

type testServer struct {
	router *gin.Engine
	db     *sql.DB
	phone  domain.Product
	other  domain.Product
}

func newTestServer(t *testing.T, health HealthChecker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	products := sqlite.NewProductRepository(db)
	orders := sqlite.NewOrderRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))
	require.NoError(t, products.Init(ctx))
	require.NoError(t, orders.Init(ctx))

	phone := catalogProduct("SAMSUNG", "GALAXY M31S", 19999)
	other := catalogProduct("Nokia", "3.2", 8199)
	require.NoError(t, products.Upsert(ctx, []domain.Product{phone, other}))

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	})
	require.NoError(t, err)

	catalog := service.NewCatalogService(products, nil, nil)
	handler := NewHandler(
		service.NewUserService(users, service.NewBcryptHasher(bcrypt.MinCost), tokens),
		service.NewCartService(users, orders, catalog),
		catalog,
		health,
		nil,
	)
	router := gin.New()
	handler.RegisterRoutes(router)

	return &testServer{router: router, db: db, phone: phone, other: other}
}

func catalogProduct(brand, model string, price float64) domain.Product {
	p := domain.Product{
		Brand:         brand,
		Model:         model,
		Color:         "Black",
		Memory:        "4 GB",
		Storage:       "64 GB",
		Rating:        4.2,
		SellingPrice:  price,
		OriginalPrice: price,
	}
	p.ID = domain.ProductIDFor(p.Brand, p.Model, p.Color, p.Memory, p.Storage)
	return p
}

// do sends a JSON request and decodes the JSON response into out when non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) signupAndLogin(t *testing.T, email, password string) TokenResponse {
	t.Helper()
	code := s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "Shopper", "email": email, "password": password}, nil)
	require.Equal(t, http.StatusCreated, code)

	var tokens TokenResponse
	code = s.do(t, http.MethodPost, "/login", "", gin.H{"email": email, "password": password}, &tokens)
	require.Equal(t, http.StatusOK, code)
	return tokens
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
