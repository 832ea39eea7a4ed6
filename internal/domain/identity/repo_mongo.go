package identity

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
)

type MongoRepo struct {
	c *mongo.Collection
}

func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{c: database.Collection("users")}
}

func (r *MongoRepo) Create(ctx context.Context, u *User) error {
	if _, err := r.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already registered")
		}
		return err
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.c.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) Update(ctx context.Context, u *User) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": u.ID}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already registered")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context, f auth.UserFilter, limit, offset int) ([]*User, int, error) {
	filter := bson.M{"is_active": true}
	switch {
	case f.All:
	case f.CenterID != "":
		filter["center_id"] = f.CenterID
	default:
		filter["id"] = f.UserID
	}

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []*User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, int(total), nil
}

func (r *MongoRepo) CountByRole(ctx context.Context, role string) (int, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
