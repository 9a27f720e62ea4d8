package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"mobile-shop/internal/domain"
)

type cartLineDoc struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type userDoc struct {
	Email        string          `bson:"email"`
	Name         string          `bson:"name"`
	PasswordHash string          `bson:"password_hash"`
	RefreshToken string          `bson:"refresh_token"`
	Cart         []bson.RawValue `bson:"cart"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

type productDoc struct {
	ID            string  `bson:"_id"`
	Brand         string  `bson:"brand"`
	Model         string  `bson:"model"`
	Color         string  `bson:"color"`
	Memory        string  `bson:"memory"`
	Storage       string  `bson:"storage"`
	Rating        float64 `bson:"rating"`
	SellingPrice  float64 `bson:"selling_price"`
	OriginalPrice float64 `bson:"original_price"`
	Photos        string  `bson:"photos"`
}

type orderDoc struct {
	ID        string        `bson:"_id"`
	Email     string        `bson:"email"`
	Items     []cartLineDoc `bson:"items"`
	CreatedAt time.Time     `bson:"created_at"`
}

// decodeCart reads both stored shapes of a cart entry: a bare product id
// string (one unit) and a {product_id, quantity} sub-document. Anything else
// is dropped and counted.
func decodeCart(values []bson.RawValue) (domain.Cart, int) {
	lines := make([]domain.CartLine, 0, len(values))
	dropped := 0
	for _, v := range values {
		switch v.Type {
		case bson.TypeString:
			lines = append(lines, domain.CartLine{ProductID: v.StringValue(), Quantity: 1})
		case bson.TypeEmbeddedDocument:
			var doc cartLineDoc
			if err := v.Unmarshal(&doc); err != nil || doc.ProductID == "" {
				dropped++
				continue
			}
			if doc.Quantity == 0 {
				doc.Quantity = 1
			}
			lines = append(lines, domain.CartLine{ProductID: doc.ProductID, Quantity: doc.Quantity})
		default:
			dropped++
		}
	}
	return domain.NormalizeCart(lines), dropped
}

func encodeCart(lines []domain.CartLine) []cartLineDoc {
	out := make([]cartLineDoc, len(lines))
	for i, l := range lines {
		out[i] = cartLineDoc{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

func toDomainLines(docs []cartLineDoc) []domain.CartLine {
	out := make([]domain.CartLine, len(docs))
	for i, d := range docs {
		out[i] = domain.CartLine{ProductID: d.ProductID, Quantity: d.Quantity}
	}
	return out
}

func toProductDoc(p domain.Product) productDoc {
	return productDoc{
		ID:            p.ID,
		Brand:         p.Brand,
		Model:         p.Model,
		Color:         p.Color,
		Memory:        p.Memory,
		Storage:       p.Storage,
		Rating:        p.Rating,
		SellingPrice:  p.SellingPrice,
		OriginalPrice: p.OriginalPrice,
		Photos:        domain.JoinPhotos(p.Photos),
	}
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:            d.ID,
		Brand:         d.Brand,
		Model:         d.Model,
		Color:         d.Color,
		Memory:        d.Memory,
		Storage:       d.Storage,
		Rating:        d.Rating,
		SellingPrice:  d.SellingPrice,
		OriginalPrice: d.OriginalPrice,
		Photos:        domain.SplitPhotos(d.Photos),
	}
}
