// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"patitas/database"
	"patitas/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrInvalidInterval is returned when a slot's end does not follow its start
	// or the bounds are off the base-unit grid.
	ErrInvalidInterval = errors.New("slot interval is invalid")
	// ErrDuplicateSlot is returned when a professional already has a slot with
	// the same start. Enforced by a unique index, independent of the booking
	// engine's own conflict check.
	ErrDuplicateSlot = errors.New("slot with identical start already exists for professional")
	// ErrSlotNotFound is returned by lookups and deletes that match nothing.
	ErrSlotNotFound = errors.New("slot not found")
)

type SlotRepository interface {
	Create(ctx context.Context, slot models.Slot) (*models.Slot, error)
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	ListByProfessional(ctx context.Context, professionalID string, from time.Time) ([]models.Slot, error)
	ListByProfessionalWindow(ctx context.Context, professionalID string, from, to time.Time) ([]models.Slot, error)
	DeleteByID(ctx context.Context, professionalID, slotID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
