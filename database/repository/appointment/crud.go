// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"patitas/models"
)

// overlapFilter matches live appointments for the professional whose
// [date, date+duration) interval intersects [start, end).
func overlapFilter(professionalID string, start, end time.Time) bson.M {
	return bson.M{
		"professionalId": professionalID,
		"active":         true,
		"date":           bson.M{"$lt": end},
		"$expr": bson.M{
			"$gt": bson.A{
				bson.M{"$add": bson.A{
					"$date",
					bson.M{"$multiply": bson.A{"$durationMinutes", 60 * 1000}},
				}},
				start,
			},
		},
	}
}

func (r *mongoAppointmentRepo) InsertIfFree(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	appt.Active = appt.Status != models.AppointmentCancelled

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		count, err := r.coll.CountDocuments(sc, overlapFilter(appt.ProfessionalID, appt.Date, appt.EndTime()))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotConflict
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			// The partial unique index on (professionalId, date) backstops the
			// check above for identical starts that race past it.
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotConflict
			}
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotConflict {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("booking transaction failed: %w", err)
	}

	return &appt, nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professionalId": professionalID,
		"date":           bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
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

func (r *mongoAppointmentRepo) BookedStarts(ctx context.Context, professionalID string, from, to time.Time) (map[int64]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professionalId": professionalID,
		"active":         true,
		"date":           bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"date": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	starts := make(map[int64]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			Date time.Time `bson:"date"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		starts[doc.Date.Unix()] = struct{}{}
	}
	return starts, cursor.Err()
}

func (r *mongoAppointmentRepo) Update(ctx context.Context, appt models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"date":            appt.Date,
		"durationMinutes": appt.DurationMinutes,
		"reason":          appt.Reason,
		"status":          appt.Status,
		"active":          appt.Status != models.AppointmentCancelled,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": appt.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status": models.AppointmentCancelled,
		"active": false,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
