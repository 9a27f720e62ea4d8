package domain

// CartLine pairs a catalog product with the number of units in the cart.
type CartLine struct {
	ProductID string
	Quantity  int
}

// Cart is the ordered list of lines owned by one user. A normalized cart
// holds at most one line per product and only positive quantities.
type Cart []CartLine

// CartItem is a cart line joined with its current catalog record.
type CartItem struct {
	Product  Product
	Quantity int
}

// NormalizeCart merges duplicate product lines, keeping the position of the
// first occurrence, and drops lines without a product or with a non-positive quantity.
func NormalizeCart(lines []CartLine) Cart {
	out := make(Cart, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

// MaxLineQuantity bounds the number of units a single cart line may hold.
const MaxLineQuantity = 10000

// Add increments the line for productID, appending it when absent, and
// returns the new cart together with the resulting line quantity. It fails
// with ErrInvalidQuantity when quantity is below one or the line would
// exceed MaxLineQuantity; the receiver is never modified.
func (c Cart) Add(productID string, quantity int) (Cart, int, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return c, 0, ErrInvalidQuantity
	}
	out := c.Clone()
	for i := range out {
		if out[i].ProductID == productID {
			if out[i].Quantity > MaxLineQuantity-quantity {
				return c, 0, ErrInvalidQuantity
			}
			out[i].Quantity += quantity
			return out, out[i].Quantity, nil
		}
	}
	return append(out, CartLine{ProductID: productID, Quantity: quantity}), quantity, nil
}

// Remove drops every line for productID. The boolean reports whether anything was removed.
func (c Cart) Remove(productID string) (Cart, bool) {
	out := make(Cart, 0, len(c))
	removed := false
	for _, line := range c {
		if line.ProductID == productID {
			removed = true
			continue
		}
		out = append(out, line)
	}
	return out, removed
}

// Clone returns an independent copy, never nil.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Quantity returns the units held for productID, zero when absent.
func (c Cart) Quantity(productID string) int {
	for _, line := range c {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}
