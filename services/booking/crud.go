package booking

import (
	"context"
	"time"

	"patitas/models"
	"patitas/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return s.AppointmentRepo.GetByID(ctx, id)
}

// Calendar lists a professional's appointments in [from, to) for rendering,
// cancelled ones included.
func (s *DefaultBookingService) Calendar(ctx context.Context, professionalID string, from, to time.Time) ([]models.Appointment, error) {
	return s.AppointmentRepo.ListByProfessional(ctx, professionalID, from, to)
}

// UpdateAppointment applies a manual edit. A date change deliberately skips
// the overlap check (trusted staff path); a status change to cancelled frees
// the interval via the active flag.
func (s *DefaultBookingService) UpdateAppointment(ctx context.Context, id string, req UpdateAppointmentRequest) (*models.Appointment, error) {
	appt, err := s.AppointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		appt.Date = *req.Date
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, NewValidationError("durationMinutes must be positive")
		}
		appt.DurationMinutes = *req.DurationMinutes
	}
	if req.Reason != nil {
		appt.Reason = *req.Reason
	}
	if req.Status != nil {
		switch *req.Status {
		case models.AppointmentPending, models.AppointmentConfirmed,
			models.AppointmentCompleted, models.AppointmentCancelled:
			appt.Status = *req.Status
		default:
			return nil, NewValidationError("unknown appointment status")
		}
	}

	if err := s.AppointmentRepo.Update(ctx, *appt); err != nil {
		return nil, err
	}
	if s.Availability != nil {
		s.Availability.Invalidate(ctx, appt.ProfessionalID)
	}

	utils.GetLogger().Info("Appointment updated", zap.String("appointmentId", id))
	return appt, nil
}

func (s *DefaultBookingService) CancelAppointment(ctx context.Context, id string) error {
	appt, err := s.AppointmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.AppointmentRepo.Cancel(ctx, id); err != nil {
		return err
	}
	if s.Availability != nil {
		s.Availability.Invalidate(ctx, appt.ProfessionalID)
	}
	utils.GetLogger().Info("Appointment cancelled", zap.String("appointmentId", id))
	return nil
}
