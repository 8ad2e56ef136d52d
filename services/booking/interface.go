package booking

import (
	"context"
	"time"

	appointmentRepo "patitas/database/repository/appointment"
	catalogRepo "patitas/database/repository/catalog"
	recordsRepo "patitas/database/repository/records"
	slotRepo "patitas/database/repository/slot"
	"patitas/models"
	"patitas/services/availability"
)

// BookRequest carries one booking attempt. Exactly one of SlotID and Date
// identifies the target time: SlotID is the normal path through a published
// slot; Date is the manual override used by the clinic staff UI.
type BookRequest struct {
	ProfessionalID     string     `json:"professionalId" binding:"required"`
	SlotID             string     `json:"slotId,omitempty"`
	Date               *time.Time `json:"date,omitempty"`
	PetID              string     `json:"petId" binding:"required"`
	TutorID            string     `json:"tutorId"`
	Reason             string     `json:"reason" binding:"required"`
	ConsultationTypeID string     `json:"consultationTypeId" binding:"required"`
}

// UpdateAppointmentRequest edits an existing appointment. Date edits bypass
// the conflict check: manual rescheduling is professional-initiated and
// assumed deliberate.
type UpdateAppointmentRequest struct {
	Date            *time.Time `json:"date,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
	Status          *string    `json:"status,omitempty"`
}

// BookingService creates and manages appointments. Book is the only writer
// of new appointments and delegates the conflict decision to the repository's
// atomic check-and-insert.
type BookingService interface {
	Book(ctx context.Context, req BookRequest) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	Calendar(ctx context.Context, professionalID string, from, to time.Time) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, req UpdateAppointmentRequest) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, id string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	AppointmentRepo appointmentRepo.AppointmentRepository
	SlotRepo        slotRepo.SlotRepository
	CatalogRepo     catalogRepo.CatalogRepository
	RecordsRepo     recordsRepo.RecordsRepository
	Availability    availability.AvailabilityService
}
