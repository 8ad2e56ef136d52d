// File: database/repository/appointment/reminders.go
package appointmentRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"patitas/models"
)

func (r *mongoAppointmentRepo) FindDueReminders(ctx context.Context, stage models.ReminderStage, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":          models.AppointmentConfirmed,
		stage.SentField(): false,
		"date":            bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// MarkReminderSent flips the stage flag with the unset flag as part of the
// filter, so the mark happens at most once no matter how many passes race.
func (r *mongoAppointmentRepo) MarkReminderSent(ctx context.Context, id string, stage models.ReminderStage, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, stage.SentField(): false}
	update := bson.M{"$set": bson.M{
		stage.SentField():   true,
		stage.SentAtField(): at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
