package domain

import "time"

// Order is the immutable snapshot of a cart taken at checkout.
type Order struct {
	ID        string
	Email     string
	Items     []CartLine
	CreatedAt time.Time
}
