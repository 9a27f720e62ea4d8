package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentity is returned when signing up with an email that is already registered.
	ErrDuplicateIdentity = errors.New("email already registered")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingCredential is returned when a protected request carries no bearer token.
	ErrMissingCredential = errors.New("missing bearer token")
	// ErrInvalidToken covers bad signatures, malformed payloads and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrRevokedToken is returned for a refresh token that is no longer the current one.
	ErrRevokedToken = errors.New("refresh token has been revoked")
	// ErrUnknownSubject is returned when a valid token names a user that does not exist.
	ErrUnknownSubject = errors.New("token subject not found")
	// ErrUserNotFound is the repository level miss for a user lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product id does not resolve in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrMalformedReference is a product id that can never resolve. It also matches ErrProductNotFound.
	ErrMalformedReference = fmt.Errorf("%w: malformed product id", ErrProductNotFound)
	// ErrEmptyCart is returned by checkout when there is nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when an add is below one unit or would push a line past MaxLineQuantity.
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 10000 per product")
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
