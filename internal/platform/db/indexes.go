package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the services rely on. Uniqueness of user
// emails is enforced here rather than in application code so concurrent
// creates cannot race past the duplicate check.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "center_id", Value: 1}}},
	}
	if _, err := database.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	patientIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "psychologist_id", Value: 1}}},
		{Keys: bson.D{{Key: "center_id", Value: 1}}},
		{Keys: bson.D{{Key: "shared_with", Value: 1}}},
	}
	if _, err := database.Collection("patients").Indexes().CreateMany(ctx, patientIndexes); err != nil {
		return fmt.Errorf("create patient indexes: %w", err)
	}

	apptIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "psychologist_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	}
	if _, err := database.Collection("appointments").Indexes().CreateMany(ctx, apptIndexes); err != nil {
		return fmt.Errorf("create appointment indexes: %w", err)
	}

	objectiveIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "week_start_date", Value: 1}}},
	}
	if _, err := database.Collection("session_objectives").Indexes().CreateMany(ctx, objectiveIndexes); err != nil {
		return fmt.Errorf("create session objective indexes: %w", err)
	}

	paymentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "psychologist_id", Value: 1}, {Key: "payment_date", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	}
	if _, err := database.Collection("payments").Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("create payment indexes: %w", err)
	}

	return nil
}
