package appointment

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
	return &MongoRepo{c: database.Collection("appointments")}
}

func (r *MongoRepo) Create(ctx context.Context, a *Appointment) error {
	_, err := r.c.InsertOne(ctx, a)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	if err := r.c.FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepo) Update(ctx context.Context, a *Appointment) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context, f auth.ScopeFilter, q ListQuery, limit, offset int) ([]*Appointment, int, error) {
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
	if q.StartDate != "" || q.EndDate != "" {
		dateRange := bson.M{}
		if q.StartDate != "" {
			dateRange["$gte"] = q.StartDate
		}
		if q.EndDate != "" {
			dateRange["$lte"] = q.EndDate
		}
		filter["date"] = dateRange
	}

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var appts []*Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, 0, err
	}
	return appts, int(total), nil
}
