package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

type UserRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewUserRepository(client *mongo.Client, database string) repository.UserRepository {
	return &UserRepository{
		client: client,
		coll:   client.Database(database).Collection(usersCollection),
	}
}

func (r *UserRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = domain.Cart{}
	}

	doc := bson.M{
		"email":         user.Email,
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"refresh_token": user.RefreshToken,
		"cart":          encodeCart(user.Cart),
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user %s: %w", user.Email, domain.ErrDuplicateIdentity)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	cart, dropped := decodeCart(doc.Cart)
	if dropped > 0 {
		logrus.WithFields(logrus.Fields{"email": email, "dropped": dropped}).Warn("skipped undecodable cart entries")
	}
	return &domain.User{
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		RefreshToken: doc.RefreshToken,
		Cart:         cart,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, email, token string) error {
	return r.set(ctx, bson.M{"email": email}, bson.M{"refresh_token": token}, domain.ErrUserNotFound)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, email, expected, next string) error {
	if expected == "" {
		return domain.ErrRevokedToken
	}
	return r.set(ctx, bson.M{"email": email, "refresh_token": expected}, bson.M{"refresh_token": next}, domain.ErrRevokedToken)
}

func (r *UserRepository) UpdateCart(ctx context.Context, email string, cart domain.Cart) error {
	return r.set(ctx, bson.M{"email": email}, bson.M{"cart": encodeCart(cart)}, domain.ErrUserNotFound)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *UserRepository) set(ctx context.Context, filter, fields bson.M, missing error) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return missing
	}
	return nil
}
