package objective

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
	return &MongoRepo{c: database.Collection("session_objectives")}
}

func (r *MongoRepo) Create(ctx context.Context, o *SessionObjective) error {
	_, err := r.c.InsertOne(ctx, o)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*SessionObjective, error) {
	var o SessionObjective
	if err := r.c.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("session objective not found")
		}
		return nil, err
	}
	return &o, nil
}

func (r *MongoRepo) Update(ctx context.Context, o *SessionObjective) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("session objective not found")
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("session objective not found")
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context, f auth.ScopeFilter, q ListQuery, limit, offset int) ([]*SessionObjective, int, error) {
	filter := bson.M{}
	switch {
	case f.All:
	case f.CenterID != "":
		filter["center_id"] = f.CenterID
	default:
		filter["psychologist_id"] = f.PsychologistID
	}
	if q.PatientID != "" {
		filter["patient_id"] = q.PatientID
	}
	if q.WeekStartDate != "" {
		filter["week_start_date"] = q.WeekStartDate
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "week_start_date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var objectives []*SessionObjective
	if err := cur.All(ctx, &objectives); err != nil {
		return nil, 0, err
	}
	return objectives, int(total), nil
}
