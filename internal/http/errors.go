package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mobile-shop/internal/domain"
)

const kindInternal = "Internal"

type errorMapping struct {
	err    error
	status int
	kind   string
}

// Order matters: ErrMalformedReference also matches ErrProductNotFound.
var errorMappings = []errorMapping{
	{domain.ErrMalformedReference, http.StatusBadRequest, "MalformedReference"},
	{domain.ErrProductNotFound, http.StatusNotFound, "ProductNotFound"},
	{domain.ErrDuplicateIdentity, http.StatusBadRequest, "DuplicateIdentity"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "InvalidInput"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "InvalidQuantity"},
	{domain.ErrEmptyCart, http.StatusBadRequest, "EmptyCart"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
	{domain.ErrMissingCredential, http.StatusUnauthorized, "MissingCredential"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "InvalidToken"},
	{domain.ErrUnknownSubject, http.StatusUnauthorized, "UnknownSubject"},
	{domain.ErrUserNotFound, http.StatusUnauthorized, "UnknownSubject"},
	{domain.ErrRevokedToken, http.StatusForbidden, "RevokedToken"},
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

// fail writes the error response for err. Unmapped errors are logged and
// reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "kind": m.kind})
			return
		}
	}

	h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "kind": kindInternal})
}
