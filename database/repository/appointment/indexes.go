// File: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
// The partial unique (professionalId, date) index over active documents is
// the storage-level uniqueness constraint behind the booking engine: a
// cancelled appointment leaves the partial index and frees its interval.
func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("unique_professional_date_active"),
		},
		// Reminder pass scans: status + stage flag + date window.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "reminder24hSent", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("reminder_24h_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "reminder1hSent", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("reminder_1h_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
