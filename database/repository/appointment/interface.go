// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"patitas/database"
	"patitas/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSlotConflict is returned when another non-cancelled appointment
	// already covers the requested interval for the professional.
	ErrSlotConflict = errors.New("appointment conflicts with an existing booking")
	// ErrAppointmentNotFound is returned by lookups and updates that match nothing.
	ErrAppointmentNotFound = errors.New("appointment not found")
)

type AppointmentRepository interface {
	// InsertIfFree atomically verifies that no live appointment overlaps
	// [appt.Date, appt.Date+duration) for the professional and inserts the
	// document. Concurrent attempts on the same interval yield exactly one
	// success; the rest get ErrSlotConflict.
	InsertIfFree(ctx context.Context, appt models.Appointment) (*models.Appointment, error)

	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]models.Appointment, error)
	// BookedStarts returns the start instants (unix seconds) of live
	// appointments in the window, used to drop consumed slots from listings.
	BookedStarts(ctx context.Context, professionalID string, from, to time.Time) (map[int64]struct{}, error)

	// Update rewrites editable fields (date, duration, reason, status) without
	// re-running the overlap check; manual edits are professional-initiated
	// and trusted.
	Update(ctx context.Context, appt models.Appointment) error
	Cancel(ctx context.Context, id string) error

	// FindDueReminders returns confirmed appointments in [from, to) whose
	// stage flag is still unset.
	FindDueReminders(ctx context.Context, stage models.ReminderStage, from, to time.Time) ([]models.Appointment, error)
	// MarkReminderSent sets the stage flag and timestamp, guarded on the flag
	// still being unset. Returns false when another run already marked it.
	MarkReminderSent(ctx context.Context, id string, stage models.ReminderStage, at time.Time) (bool, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
