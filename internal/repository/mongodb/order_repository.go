package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

// OrderRepository needs a replica set or sharded cluster: Place runs a
// multi-document transaction.
type OrderRepository struct {
	client *mongo.Client
	orders *mongo.Collection
	users  *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, database string) repository.OrderRepository {
	db := client.Database(database)
	return &OrderRepository{
		client: client,
		orders: db.Collection(ordersCollection),
		users:  db.Collection(usersCollection),
	}
}

func (r *OrderRepository) Init(ctx context.Context) error {
	_, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create orders index: %w", err)
	}
	return nil
}

func (r *OrderRepository) Place(ctx context.Context, order *domain.Order) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	doc := orderDoc{
		ID:        order.ID,
		Email:     order.Email,
		Items:     encodeCart(order.Items),
		CreatedAt: order.CreatedAt.UTC(),
	}

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		res, err := r.users.UpdateOne(ctx,
			bson.M{"email": order.Email},
			bson.M{"$set": bson.M{"cart": []cartLineDoc{}, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrUserNotFound
		}
		if _, err := r.orders.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	cur, err := r.orders.Find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]domain.Order, len(docs))
	for i, d := range docs {
		orders[i] = domain.Order{
			ID:        d.ID,
			Email:     d.Email,
			Items:     toDomainLines(d.Items),
			CreatedAt: d.CreatedAt,
		}
	}
	return orders, nil
}
