package payment

import (
	"context"
	"errors"

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
	return &MongoRepo{c: database.Collection("payments")}
}

func scopeQuery(f auth.ScopeFilter) bson.M {
	filter := bson.M{}
	switch {
	case f.All:
	case f.CenterID != "":
		filter["center_id"] = f.CenterID
	default:
		filter["psychologist_id"] = f.PsychologistID
	}
	return filter
}

func (r *MongoRepo) Create(ctx context.Context, p *Payment) error {
	_, err := r.c.InsertOne(ctx, p)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	var p Payment
	if err := r.c.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) Update(ctx context.Context, p *Payment) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("payment not found")
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("payment not found")
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context, f auth.ScopeFilter, limit, offset int) ([]*Payment, int, error) {
	filter := scopeQuery(f)

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "payment_date", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var payments []*Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, 0, err
	}
	return payments, int(total), nil
}

func (r *MongoRepo) ListBetween(ctx context.Context, f auth.ScopeFilter, start, end string) ([]*Payment, error) {
	filter := scopeQuery(f)
	filter["payment_date"] = bson.M{"$gte": start, "$lte": end}

	cur, err := r.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var payments []*Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
