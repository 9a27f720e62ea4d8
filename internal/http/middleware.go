package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mobile-shop/internal/domain"
)

const userContextKey = "user"

// requireAuth admits a request only when it carries a valid access token for
// an existing user. The resolved user is stored in the gin context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			h.fail(c, domain.ErrMissingCredential)
			c.Abort()
			return
		}

		user, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// currentUser is only valid behind requireAuth.
func currentUser(c *gin.Context) *domain.User {
	v, _ := c.Get(userContextKey)
	user, _ := v.(*domain.User)
	return user
}
