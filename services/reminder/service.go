package reminder

import (
	"context"
	"time"

	appointmentRepo "patitas/database/repository/appointment"
	recordsRepo "patitas/database/repository/records"
	"patitas/models"
	"patitas/services/notification"
	"patitas/utils"

	"go.uber.org/zap"
)

// ReminderService runs the two reminder passes. Each pass is a synchronous
// run-to-completion batch: select confirmed appointments entering the stage
// window whose flag is unset, email professional and tutor sequentially, and
// mark the stage sent when at least one recipient got through. A send failure
// only logs; the unset flag makes the next periodic run retry until the
// window closes.
type ReminderService interface {
	// ProcessWindow takes "now" explicitly so passes are testable without
	// wall-clock mocking; production callers pass time.Now().
	ProcessWindow(ctx context.Context, now time.Time, stage models.ReminderStage) (models.ReminderReport, error)
	RunAll(ctx context.Context, now time.Time) ([]models.ReminderReport, error)
}

// DefaultReminderService is the production implementation.
type DefaultReminderService struct {
	AppointmentRepo appointmentRepo.AppointmentRepository
	RecordsRepo     recordsRepo.RecordsRepository
	Mailer          notification.EmailSender
	Clock           *utils.ClinicTime
	ClinicName      string
}

// window computes the stage's half-open instant window from clinic wall
// clock: the whole of "tomorrow" for the 24h stage, [now+1h, now+2h) for the
// 1h stage. Both come out right across a DST transition because they are
// built from local calendar arithmetic.
func (s *DefaultReminderService) window(now time.Time, stage models.ReminderStage) (time.Time, time.Time) {
	if stage == models.Stage1h {
		return s.Clock.AddHours(now, 1), s.Clock.AddHours(now, 2)
	}
	_, tomorrowStart := s.Clock.DayBounds(now)
	_, tomorrowEnd := s.Clock.DayBounds(tomorrowStart)
	return tomorrowStart, tomorrowEnd
}

func (s *DefaultReminderService) ProcessWindow(ctx context.Context, now time.Time, stage models.ReminderStage) (models.ReminderReport, error) {
	logger := utils.GetLogger()

	from, to := s.window(now, stage)
	report := models.ReminderReport{Stage: stage, WindowFrom: from, WindowTo: to}

	due, err := s.AppointmentRepo.FindDueReminders(ctx, stage, from, to)
	if err != nil {
		return report, err
	}
	report.Matched = len(due)

	// Sequential on purpose: keeps "attempted" and "marked sent" tightly
	// coupled and avoids bursts against the mail provider.
	for _, appt := range due {
		if appt.ReminderSent(stage) {
			report.AlreadySent++
			continue
		}

		delivered := s.dispatch(ctx, stage, appt)
		if !delivered {
			// Both recipients failed; leave the flag unset so the next run
			// retries while the appointment remains inside the window.
			report.Failed++
			continue
		}

		marked, err := s.AppointmentRepo.MarkReminderSent(ctx, appt.ID, stage, now)
		if err != nil {
			logger.Error("Failed to persist reminder flag",
				zap.String("appointmentId", appt.ID), zap.String("stage", string(stage)), zap.Error(err))
			report.Failed++
			continue
		}
		if !marked {
			// Another run marked it between our read and write; their send
			// stands, ours was the duplicate.
			report.AlreadySent++
			continue
		}
		report.Sent++
	}

	logger.Info("Reminder pass finished",
		zap.String("stage", string(stage)),
		zap.Int("matched", report.Matched),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed))
	return report, nil
}

// dispatch emails both recipients and reports whether at least one send
// succeeded. A success to only one recipient still counts as delivered: the
// stage will not be retried for the other party.
func (s *DefaultReminderService) dispatch(ctx context.Context, stage models.ReminderStage, appt models.Appointment) bool {
	logger := utils.GetLogger()

	rc, err := s.buildContext(ctx, appt)
	if err != nil {
		logger.Warn("Skipping reminder, clinic records incomplete",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return false
	}

	delivered := false

	subject, body := notification.ProfessionalReminder(stage, rc)
	if _, err := s.Mailer.Send(ctx, rc.Professional.Email, subject, body); err != nil {
		logger.Warn("Professional reminder send failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	} else {
		delivered = true
	}

	subject, body = notification.TutorReminder(stage, rc)
	if _, err := s.Mailer.Send(ctx, rc.Tutor.Email, subject, body); err != nil {
		logger.Warn("Tutor reminder send failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	} else {
		delivered = true
	}

	return delivered
}

func (s *DefaultReminderService) buildContext(ctx context.Context, appt models.Appointment) (notification.ReminderContext, error) {
	prof, err := s.RecordsRepo.GetProfessional(ctx, appt.ProfessionalID)
	if err != nil {
		return notification.ReminderContext{}, err
	}
	pet, err := s.RecordsRepo.GetPet(ctx, appt.PetID)
	if err != nil {
		return notification.ReminderContext{}, err
	}
	tutor, err := s.RecordsRepo.GetTutor(ctx, appt.TutorID)
	if err != nil {
		return notification.ReminderContext{}, err
	}
	return notification.ReminderContext{
		Appointment:  appt,
		Professional: *prof,
		Pet:          *pet,
		Tutor:        *tutor,
		ClinicName:   s.ClinicName,
		Location:     s.Clock.Location(),
	}, nil
}

// RunAll executes both passes; they are independent and order does not
// matter.
func (s *DefaultReminderService) RunAll(ctx context.Context, now time.Time) ([]models.ReminderReport, error) {
	var reports []models.ReminderReport
	for _, stage := range []models.ReminderStage{models.Stage24h, models.Stage1h} {
		report, err := s.ProcessWindow(ctx, now, stage)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}
