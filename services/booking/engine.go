package booking

import (
	"context"
	"errors"
	"strings"

	appointmentRepo "patitas/database/repository/appointment"
	catalogRepo "patitas/database/repository/catalog"
	recordsRepo "patitas/database/repository/records"
	"patitas/models"
	"patitas/utils"

	"go.uber.org/zap"
)

// Book validates the request, resolves the target instant, and hands the
// atomic check-and-insert to the appointment repository. Of N concurrent
// attempts on the same interval exactly one returns an appointment; the
// others get a slotConflict BookingError.
func (s *DefaultBookingService) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	tutorID, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	ct, err := s.CatalogRepo.GetByID(ctx, req.ConsultationTypeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrConsultationTypeNotFound) {
			return nil, NewInvalidConsultationTypeError(req.ConsultationTypeID)
		}
		return nil, err
	}
	if !ct.Active {
		return nil, NewInvalidConsultationTypeError(req.ConsultationTypeID)
	}

	// Resolve the target instant: published slot, or raw date on the manual
	// override path.
	target := req.Date
	if req.SlotID != "" {
		slot, err := s.SlotRepo.GetByID(ctx, req.SlotID)
		if err != nil {
			return nil, NewValidationError("slot does not exist")
		}
		if slot.ProfessionalID != req.ProfessionalID {
			return nil, NewValidationError("slot belongs to another professional")
		}
		target = &slot.Start
	}
	if target == nil {
		return nil, NewValidationError("either slotId or date is required")
	}

	appt, err := s.AppointmentRepo.InsertIfFree(ctx, models.Appointment{
		ProfessionalID:  req.ProfessionalID,
		PetID:           req.PetID,
		TutorID:         tutorID,
		Date:            *target,
		DurationMinutes: ct.DurationMinutes,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          models.AppointmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			return nil, NewSlotConflictError()
		}
		return nil, err
	}

	// The slot row stays for audit; listings exclude it because a live
	// appointment now claims its start. Cached listings must go now.
	if s.Availability != nil {
		s.Availability.Invalidate(ctx, req.ProfessionalID)
	}

	logger.Info("Appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("professionalId", appt.ProfessionalID),
		zap.Time("date", appt.Date))
	return appt, nil
}

// validate checks required fields and record existence, and resolves the
// tutor (falling back to the pet's registered tutor when the request omits
// one). Returns the tutor ID the appointment should carry.
func (s *DefaultBookingService) validate(ctx context.Context, req BookRequest) (string, error) {
	if req.ProfessionalID == "" {
		return "", NewValidationError("professionalId is required")
	}
	if req.PetID == "" {
		return "", NewValidationError("petId is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return "", NewValidationError("reason is required")
	}

	pet, err := s.RecordsRepo.GetPet(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, recordsRepo.ErrRecordNotFound) {
			return "", NewValidationError("pet record not found")
		}
		return "", err
	}
	tutorID := req.TutorID
	if tutorID == "" {
		tutorID = pet.TutorID
	}
	if _, err := s.RecordsRepo.GetTutor(ctx, tutorID); err != nil {
		if errors.Is(err, recordsRepo.ErrRecordNotFound) {
			return "", NewValidationError("tutor record not found")
		}
		return "", err
	}
	if _, err := s.RecordsRepo.GetProfessional(ctx, req.ProfessionalID); err != nil {
		if errors.Is(err, recordsRepo.ErrRecordNotFound) {
			return "", NewValidationError("professional record not found")
		}
		return "", err
	}
	return tutorID, nil
}
