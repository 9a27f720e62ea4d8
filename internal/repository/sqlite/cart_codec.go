package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"mobile-shop/internal/domain"
)

// cartEntry is one element of the stored cart document. Older rows hold a bare
// product id string meaning a single unit; newer rows hold an object.
type cartEntry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (e *cartEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*e = cartEntry{ProductID: id, Quantity: 1}
		return nil
	}

	type plain cartEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Quantity == 0 {
		p.Quantity = 1
	}
	*e = cartEntry(p)
	return nil
}

// decodeCart reads the stored cart array. Entries that do not decode are
// dropped and counted so one bad element never hides the rest of the cart;
// only a document that is not an array is an error.
func decodeCart(raw string) (domain.Cart, int, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.Cart{}, 0, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, 0, fmt.Errorf("decode cart: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(entries))
	dropped := 0
	for _, data := range entries {
		var e cartEntry
		if err := json.Unmarshal(data, &e); err != nil || e.ProductID == "" {
			dropped++
			continue
		}
		lines = append(lines, domain.CartLine{ProductID: e.ProductID, Quantity: e.Quantity})
	}
	return domain.NormalizeCart(lines), dropped, nil
}

func encodeCart(lines []domain.CartLine) (string, error) {
	entries := make([]cartEntry, len(lines))
	for i, l := range lines {
		entries[i] = cartEntry{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}
