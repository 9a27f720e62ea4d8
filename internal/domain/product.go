package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Product is a read-only catalog record.
type Product struct {
	ID            string
	Brand         string
	Model         string
	Color         string
	Memory        string
	Storage       string
	Rating        float64
	SellingPrice  float64
	OriginalPrice float64
	Photos        []string
}

type SortField string

const (
	SortNone   SortField = ""
	SortPrice  SortField = "price"
	SortRating SortField = "rating"
)

// DefaultSearchLimit is the page size used when a search names none.
const DefaultSearchLimit = 10

// ProductFilter narrows a catalog search. Text fields are case-insensitive
// substring matches; empty fields match everything.
type ProductFilter struct {
	Brand     string
	Model     string
	Color     string
	SortBy    SortField
	Ascending bool
	Limit     int
}

// ParseSortField maps the public sort_by value. Unknown values disable sorting.
func ParseSortField(v string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(v))) {
	case SortPrice:
		return SortPrice
	case SortRating:
		return SortRating
	default:
		return SortNone
	}
}

// productNamespace seeds deterministic product ids.
var productNamespace = uuid.MustParse("8f0d6c9e-4f64-4a5e-9b1f-2f7b6f1d3c21")

// ProductIDFor derives a stable id from the attributes that identify a listing,
// so reloading the catalog keeps existing cart references valid.
func ProductIDFor(brand, model, color, memory, storage string) string {
	key := strings.ToLower(strings.Join([]string{brand, model, color, memory, storage}, "\x1f"))
	return uuid.NewSHA1(productNamespace, []byte(key)).String()
}

// ValidProductID reports whether id is a well formed product reference.
func ValidProductID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// SplitPhotos turns the newline-delimited photo column into a list.
func SplitPhotos(raw string) []string {
	var photos []string
	for _, p := range strings.Split(raw, "\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			photos = append(photos, p)
		}
	}
	return photos
}

// JoinPhotos is the inverse of SplitPhotos.
func JoinPhotos(photos []string) string {
	return strings.Join(photos, "\n")
}
