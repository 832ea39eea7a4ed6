package center

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psyportal/psyportal/internal/platform/apperr"
)

type MongoRepo struct {
	c *mongo.Collection
}

func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{c: database.Collection("centers")}
}

func (r *MongoRepo) Create(ctx context.Context, center *Center) error {
	_, err := r.c.InsertOne(ctx, center)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Center, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoRepo) GetByName(ctx context.Context, name string) (*Center, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*Center, error) {
	var center Center
	if err := r.c.FindOne(ctx, filter).Decode(&center); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("center not found")
		}
		return nil, err
	}
	return &center, nil
}

func (r *MongoRepo) Update(ctx context.Context, center *Center) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": center.ID}, center)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("center not found")
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context, limit, offset int) ([]*Center, int, error) {
	filter := bson.M{"is_active": true}

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

	var centers []*Center
	if err := cur.All(ctx, &centers); err != nil {
		return nil, 0, err
	}
	return centers, int(total), nil
}

func (r *MongoRepo) FirstActive(ctx context.Context) (*Center, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var center Center
	if err := r.c.FindOne(ctx, bson.M{"is_active": true}, opts).Decode(&center); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("center not found")
		}
		return nil, err
	}
	return &center, nil
}
