package http

import (
	"time"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/service"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ProductResponse struct {
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Color         string   `json:"color"`
	Memory        string   `json:"memory"`
	Storage       string   `json:"storage"`
	Rating        float64  `json:"rating"`
	SellingPrice  float64  `json:"selling_price"`
	OriginalPrice float64  `json:"original_price"`
	Photos        []string `json:"photos,omitempty"`
}

type CartItemResponse struct {
	ProductResponse
	Quantity int `json:"quantity"`
}

type OrderLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Items     []OrderLineResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

func tokenPairToResponse(pair *service.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	}
}

func productToResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Brand:         p.Brand,
		Model:         p.Model,
		Color:         p.Color,
		Memory:        p.Memory,
		Storage:       p.Storage,
		Rating:        p.Rating,
		SellingPrice:  p.SellingPrice,
		OriginalPrice: p.OriginalPrice,
		Photos:        p.Photos,
	}
}

func cartItemToResponse(item domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ProductResponse: productToResponse(item.Product),
		Quantity:        item.Quantity,
	}
}

func orderToResponse(order domain.Order) OrderResponse {
	items := make([]OrderLineResponse, len(order.Items))
	for i, line := range order.Items {
		items[i] = OrderLineResponse{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return OrderResponse{
		ID:        order.ID,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
