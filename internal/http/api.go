package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/service"
)

// HealthChecker reports whether the backing store currently answers.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	carts   service.CartService
	catalog service.CatalogService
	health  HealthChecker
	logger  logrus.FieldLogger
}

func NewHandler(users service.UserService, carts service.CartService, catalog service.CatalogService, health HealthChecker, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:   users,
		carts:   carts,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/home", h.home)
	router.GET("/health", h.healthCheck)

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.POST("/refresh", h.refresh)
	router.GET("/search", h.search)

	protected := router.Group("/", h.requireAuth())
	{
		protected.POST("/logout", h.logout)
		protected.GET("/orders", h.listOrders)

		cart := protected.Group("/cart")
		cart.GET("", h.viewCart)
		cart.POST("/add", h.addToCart)
		cart.POST("/remove", h.removeFromCart)
		cart.POST("/checkout", h.checkout)
		cart.POST("/clear", h.clearCart)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type removeFromCartRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "mobile shop api is running"})
}

func (h *Handler) healthCheck(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Check(c.Request.Context()); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created", "email": user.Email})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairToResponse(pair))
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		h.fail(c, domain.ErrInvalidToken)
		return
	}

	pair, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairToResponse(pair))
}

func (h *Handler) logout(c *gin.Context) {
	user := currentUser(c)
	if err := h.users.Logout(c.Request.Context(), user.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) search(c *gin.Context) {
	filter := domain.ProductFilter{
		Brand:     c.Query("brand"),
		Model:     c.Query("model"),
		Color:     c.Query("color"),
		SortBy:    domain.ParseSortField(c.Query("sort_by")),
		Ascending: strings.EqualFold(strings.TrimSpace(c.DefaultQuery("order", "asc")), "asc"),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, invalidInput("limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	products, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(products[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	user := currentUser(c)
	total, err := h.carts.Add(c.Request.Context(), user.Email, req.ProductID, quantity)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "product added to cart",
		"product_id": strings.TrimSpace(req.ProductID),
		"quantity":   total,
	})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	var req removeFromCartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user := currentUser(c)
	if err := h.carts.Remove(c.Request.Context(), user.Email, req.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product removed from cart", "product_id": strings.TrimSpace(req.ProductID)})
}

func (h *Handler) viewCart(c *gin.Context) {
	user := currentUser(c)
	items, err := h.carts.View(c.Request.Context(), user.Email)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]CartItemResponse, len(items))
	for i := range items {
		resp[i] = cartItemToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) checkout(c *gin.Context) {
	user := currentUser(c)
	order, err := h.carts.Checkout(c.Request.Context(), user.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orderToResponse(*order))
}

func (h *Handler) clearCart(c *gin.Context) {
	user := currentUser(c)
	if err := h.carts.Clear(c.Request.Context(), user.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h *Handler) listOrders(c *gin.Context) {
	user := currentUser(c)
	orders, err := h.carts.Orders(c.Request.Context(), user.Email)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i := range orders {
		resp[i] = orderToResponse(orders[i])
	}
	c.JSON(http.StatusOK, resp)
}

// bindJSON decodes the request body and answers 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, invalidInput("request body must be valid JSON"))
		return false
	}
	return true
}
