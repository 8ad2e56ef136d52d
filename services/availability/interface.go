package availability

import (
	"context"
	"time"

	appointmentRepo "patitas/database/repository/appointment"
	slotRepo "patitas/database/repository/slot"
	"patitas/models"
	"patitas/utils"

	"github.com/go-redis/redis/v8"
)

// AvailabilityService publishes a professional's bookable slots and lists the
// ones that can still host a consultation of a given duration.
type AvailabilityService interface {
	// Publish expands the request into concrete base-unit slots. Recurring
	// requests are all-or-nothing: a duplicate start on any occurrence aborts
	// the whole request and reports the failing day.
	Publish(ctx context.Context, req models.PublishAvailabilityRequest) ([]models.Slot, error)

	// OpenSlots returns the slots on a local calendar day that are unexpired,
	// unclaimed by a live appointment, and start a run long enough for the
	// requested duration.
	OpenSlots(ctx context.Context, professionalID, day string, durationMinutes int, now time.Time) ([]models.Slot, error)

	Remove(ctx context.Context, professionalID, slotID string) error

	// Invalidate drops cached listings for a professional after an external
	// write, e.g. a successful booking.
	Invalidate(ctx context.Context, professionalID string)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	SlotRepo        slotRepo.SlotRepository
	AppointmentRepo appointmentRepo.AppointmentRepository
	Clock           *utils.ClinicTime
	Cache           *redis.Client // optional; nil disables listing cache
}
