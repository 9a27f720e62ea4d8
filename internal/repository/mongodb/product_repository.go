package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(client *mongo.Client, database string) repository.ProductRepository {
	return &ProductRepository{coll: client.Database(database).Collection(productsCollection)}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "selling_price", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

func (r *ProductRepository) Upsert(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(products))
	for i, p := range products {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(toProductDoc(p)).
			SetUpsert(true)
	}
	if _, err := r.coll.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *ProductRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := bson.M{}
	addContains := func(field, term string) {
		if term = strings.TrimSpace(term); term != "" {
			query[field] = bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		}
	}
	addContains("brand", filter.Brand)
	addContains("model", filter.Model)
	addContains("color", filter.Color)

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	opts := options.Find().SetLimit(int64(limit))

	direction := -1
	if filter.Ascending {
		direction = 1
	}
	switch filter.SortBy {
	case domain.SortPrice:
		opts.SetSort(bson.D{{Key: "selling_price", Value: direction}, {Key: "_id", Value: 1}})
	case domain.SortRating:
		opts.SetSort(bson.D{{Key: "rating", Value: direction}, {Key: "_id", Value: 1}})
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toDomain()
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
