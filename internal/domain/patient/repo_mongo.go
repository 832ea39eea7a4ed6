package patient

import (
	"context"
	"errors"
	"time"

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
	return &MongoRepo{c: database.Collection("patients")}
}

func (r *MongoRepo) Create(ctx context.Context, p *Patient) error {
	_, err := r.c.InsertOne(ctx, p)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	if err := r.c.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) Update(ctx context.Context, p *Patient) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}

// scopeQuery translates the policy filter into the patient query shape.
// Psychologists see records they own or that are shared with them.
func scopeQuery(f auth.ScopeFilter) bson.M {
	filter := bson.M{"is_active": true}
	switch {
	case f.All:
	case f.CenterID != "":
		filter["center_id"] = f.CenterID
	default:
		filter["$or"] = bson.A{
			bson.M{"psychologist_id": f.PsychologistID},
			bson.M{"shared_with": f.PsychologistID},
		}
	}
	return filter
}

func (r *MongoRepo) List(ctx context.Context, f auth.ScopeFilter, limit, offset int) ([]*Patient, int, error) {
	filter := scopeQuery(f)

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

	var patients []*Patient
	if err := cur.All(ctx, &patients); err != nil {
		return nil, 0, err
	}
	return patients, int(total), nil
}

func (r *MongoRepo) setField(ctx context.Context, patientID, field string, value any) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"id": patientID}, bson.M{
		"$set": bson.M{field: value, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}

func (r *MongoRepo) pushField(ctx context.Context, patientID, field string, value any) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"id": patientID}, bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}

func (r *MongoRepo) SetAnamnesis(ctx context.Context, patientID string, a *Anamnesis) error {
	return r.setField(ctx, patientID, "anamnesis", a)
}

func (r *MongoRepo) SetClinicalHistory(ctx context.Context, patientID string, h *ClinicalHistory) error {
	return r.setField(ctx, patientID, "clinical_history", h)
}

func (r *MongoRepo) SetDiagnosis(ctx context.Context, patientID string, d *Diagnosis) error {
	return r.setField(ctx, patientID, "diagnosis", d)
}

func (r *MongoRepo) AddEvaluation(ctx context.Context, patientID string, e *Evaluation) error {
	return r.pushField(ctx, patientID, "evaluations", e)
}

func (r *MongoRepo) AddProgressNote(ctx context.Context, patientID string, n *ProgressNote) error {
	return r.pushField(ctx, patientID, "progress_notes", n)
}
