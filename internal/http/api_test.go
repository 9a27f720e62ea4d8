package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobile-shop/internal/domain"
)

func TestShoppingFlow(t *testing.T) {
	s := newTestServer(t, nil)

	var created map[string]string
	code := s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "A", "email": "A@x.com", "password": "pw1"}, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "a@x.com", created["email"])

	var errBody errorBody
	code = s.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "wrong"}, &errBody)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "InvalidCredentials", errBody.Kind)

	var tokens TokenResponse
	code = s.do(t, http.MethodPost, "/login", "", gin.H{"email": "a@x.com", "password": "pw1"}, &tokens)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bearer", tokens.TokenType)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	var added map[string]any
	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": 2}, &added)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, added["quantity"])
	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": 3}, &added)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, added["quantity"])

	var cart []CartItemResponse
	code = s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, cart, 1)
	assert.Equal(t, s.phone.ID, cart[0].ID)
	assert.Equal(t, "SAMSUNG", cart[0].Brand)
	assert.Equal(t, 5, cart[0].Quantity)

	var order OrderResponse
	code = s.do(t, http.MethodPost, "/cart/checkout", tokens.AccessToken, nil, &order)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, []OrderLineResponse{{ProductID: s.phone.ID, Quantity: 5}}, order.Items)

	code = s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, cart)

	code = s.do(t, http.MethodPost, "/cart/checkout", tokens.AccessToken, nil, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "EmptyCart", errBody.Kind)

	var orders []OrderResponse
	code = s.do(t, http.MethodGet, "/orders", tokens.AccessToken, nil, &orders)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestSignupErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.signupAndLogin(t, "a@x.com", "pw1")

	var errBody errorBody
	code := s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "A", "email": " A@X.com ", "password": "other"}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "DuplicateIdentity", errBody.Kind)

	code = s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "B", "email": "not-an-email", "password": "pw"}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", errBody.Kind)

	code = s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "C", "email": "c@x.com", "password": strings.Repeat("p", 80)}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", errBody.Kind)

	code = s.do(t, http.MethodPost, "/signup", "", gin.H{"name": "D", "email": "Dee <d@x.com>", "password": "pw"}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", errBody.Kind)

	code = s.do(t, http.MethodPost, "/signup", "", "not an object", &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", errBody.Kind)
}

func TestCartAddErrors(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	var errBody errorBody
	code := s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": "not-a-product"}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MalformedReference", errBody.Kind)

	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": "00000000-0000-0000-0000-000000000000"}, &errBody)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ProductNotFound", errBody.Kind)

	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": 0}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidQuantity", errBody.Kind)

	var added map[string]any
	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID}, &added)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, added["quantity"])
}

func TestCartAddRejectsOverflowingQuantity(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	var errBody errorBody
	code := s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": math.MaxInt64}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidQuantity", errBody.Kind)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": domain.MaxLineQuantity - 1}, nil))
	code = s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID, "quantity": 2}, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidQuantity", errBody.Kind)

	var cart []CartItemResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, domain.MaxLineQuantity-1, cart[0].Quantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID}, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.other.ID}, nil))

	// removing something that is not in the cart is fine
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/remove", tokens.AccessToken, gin.H{"product_id": "missing"}, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/remove", tokens.AccessToken, gin.H{"product_id": s.phone.ID}, nil))

	var cart []CartItemResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, s.other.ID, cart[0].ID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/clear", tokens.AccessToken, nil, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	assert.Empty(t, cart)
}

func TestCartOmitsDeletedProducts(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.phone.ID}, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/add", tokens.AccessToken, gin.H{"product_id": s.other.ID, "quantity": 4}, nil))

	_, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, s.phone.ID)
	require.NoError(t, err)

	var cart []CartItemResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, s.other.ID, cart[0].ID)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestCartSurvivesUndecodableStoredEntries(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	_, err := s.db.Exec(`UPDATE users SET cart = ? WHERE email = ?`, `["`+s.phone.ID+`", 123]`, "a@x.com")
	require.NoError(t, err)

	var cart []CartItemResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, s.phone.ID, cart[0].ID)
	assert.Equal(t, 1, cart[0].Quantity)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/clear", tokens.AccessToken, nil, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart", tokens.AccessToken, nil, &cart))
	assert.Empty(t, cart)
}

func TestRefreshRotation(t *testing.T) {
	s := newTestServer(t, nil)
	first := s.signupAndLogin(t, "a@x.com", "pw1")

	var second TokenResponse
	code := s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": first.RefreshToken}, &second)
	require.Equal(t, http.StatusOK, code)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	var errBody errorBody
	code = s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": first.RefreshToken}, &errBody)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "RevokedToken", errBody.Kind)

	code = s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": "garbage"}, &errBody)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "InvalidToken", errBody.Kind)

	// an access token is not a refresh token
	code = s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": second.AccessToken}, &errBody)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "InvalidToken", errBody.Kind)

	var third TokenResponse
	code = s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": second.RefreshToken}, &third)
	require.Equal(t, http.StatusOK, code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	s := newTestServer(t, nil)
	tokens := s.signupAndLogin(t, "a@x.com", "pw1")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/logout", tokens.AccessToken, nil, nil))

	var errBody errorBody
	code := s.do(t, http.MethodPost, "/refresh", "", gin.H{"refresh_token": tokens.RefreshToken}, &errBody)
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "RevokedToken", errBody.Kind)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, nil)

	var products []ProductResponse
	code := s.do(t, http.MethodGet, "/search?brand=samsung", "", nil, &products)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, products, 1)
	assert.Equal(t, s.phone.ID, products[0].ID)

	code = s.do(t, http.MethodGet, "/search?sort_by=price&order=desc", "", nil, &products)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, products, 2)
	assert.Equal(t, s.phone.ID, products[0].ID)

	code = s.do(t, http.MethodGet, "/search?sort_by=price&order=asc&limit=1", "", nil, &products)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, products, 1)
	assert.Equal(t, s.other.ID, products[0].ID)

	var errBody errorBody
	code = s.do(t, http.MethodGet, "/search?limit=ten", "", nil, &errBody)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", errBody.Kind)
}

type checkerFunc func(context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	var healthy error
	s := newTestServer(t, checkerFunc(func(context.Context) error { return healthy }))

	var body map[string]string
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])

	healthy = errors.New("store down")
	require.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/health", "", nil, &body))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/home", "", nil, &body))
	assert.NotEmpty(t, body["message"])
}
