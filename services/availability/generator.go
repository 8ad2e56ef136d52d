package availability

import (
	"context"
	"errors"
	"time"

	slotRepo "patitas/database/repository/slot"
	"patitas/models"
	"patitas/utils"

	"go.uber.org/zap"
)

// Publish expands an availability request into slot store entries. All
// instants are built as clinic wall-clock times first and converted to
// absolute instants by the zone rules, so a 09:00 slot stays 09:00 local on
// both sides of a DST transition.
func (s *DefaultAvailabilityService) Publish(ctx context.Context, req models.PublishAvailabilityRequest) ([]models.Slot, error) {
	logger := utils.GetLogger()

	start, err := s.Clock.At(req.StartDate, req.StartTime)
	if err != nil {
		return nil, NewInvalidIntervalError(err.Error())
	}
	end, err := s.Clock.At(req.EndDate, req.EndTime)
	if err != nil {
		return nil, NewInvalidIntervalError(err.Error())
	}
	if !end.After(start) {
		return nil, NewInvalidIntervalError("end must be after start")
	}

	if !req.Recurring {
		slot, err := s.SlotRepo.Create(ctx, models.Slot{
			ProfessionalID: req.ProfessionalID,
			Start:          start,
			End:            end,
		})
		if err != nil {
			return nil, translateSlotErr(err, s.Clock.DayKey(start))
		}
		s.invalidateListings(ctx, req.ProfessionalID)
		return []models.Slot{*slot}, nil
	}

	if len(req.Weekdays) == 0 {
		return nil, NewInvalidIntervalError("recurring request needs at least one weekday")
	}
	if req.EndDate < req.StartDate {
		return nil, NewInvalidIntervalError("end date before start date")
	}

	startWeekday := int(s.Clock.Weekday(start))

	var created []models.Slot
	for _, w := range req.Weekdays {
		if w < 0 || w > 6 {
			return nil, NewInvalidIntervalError("weekday out of range 0..6")
		}
		daysToAdd := (w - startWeekday + 7) % 7
		day, err := s.Clock.AddDays(req.StartDate, daysToAdd)
		if err != nil {
			return nil, NewInvalidIntervalError(err.Error())
		}

		// Walk week by week through the date range, cutting each local
		// time-of-day window into base-unit slots.
		for ; day <= req.EndDate; day, _ = s.Clock.AddDays(day, 7) {
			slots, err := s.publishDay(ctx, req.ProfessionalID, day, req.StartTime, req.EndTime)
			if err != nil {
				// Partial creation would silently under-publish availability;
				// undo everything from this request before reporting.
				s.rollback(ctx, req.ProfessionalID, created)
				return nil, err
			}
			created = append(created, slots...)
		}
	}

	logger.Info("Published recurring availability",
		zap.String("professionalId", req.ProfessionalID),
		zap.Int("slots", len(created)))
	s.invalidateListings(ctx, req.ProfessionalID)
	return created, nil
}

// publishDay cuts one local day's [startTime, endTime) window into base-unit
// slots and stores them.
func (s *DefaultAvailabilityService) publishDay(ctx context.Context, professionalID, day, startTime, endTime string) ([]models.Slot, error) {
	dayStart, err := s.Clock.At(day, startTime)
	if err != nil {
		return nil, NewInvalidIntervalError(err.Error())
	}
	dayEnd, err := s.Clock.At(day, endTime)
	if err != nil {
		return nil, NewInvalidIntervalError(err.Error())
	}

	unit := time.Duration(models.BaseUnitMinutes) * time.Minute
	var created []models.Slot
	for t := dayStart; !t.Add(unit).After(dayEnd); t = t.Add(unit) {
		slot, err := s.SlotRepo.Create(ctx, models.Slot{
			ProfessionalID: professionalID,
			Start:          t,
			End:            t.Add(unit),
		})
		if err != nil {
			// Undo this day's own slots; the caller removes earlier days.
			s.rollback(ctx, professionalID, created)
			return nil, translateSlotErr(err, day)
		}
		created = append(created, *slot)
	}
	return created, nil
}

func (s *DefaultAvailabilityService) rollback(ctx context.Context, professionalID string, slots []models.Slot) {
	logger := utils.GetLogger()
	for _, slot := range slots {
		if err := s.SlotRepo.DeleteByID(ctx, professionalID, slot.ID); err != nil {
			logger.Warn("Failed to roll back slot after aborted publish",
				zap.String("slotId", slot.ID), zap.Error(err))
		}
	}
}

func (s *DefaultAvailabilityService) Remove(ctx context.Context, professionalID, slotID string) error {
	if err := s.SlotRepo.DeleteByID(ctx, professionalID, slotID); err != nil {
		return err
	}
	s.invalidateListings(ctx, professionalID)
	return nil
}

func translateSlotErr(err error, day string) error {
	switch {
	case errors.Is(err, slotRepo.ErrDuplicateSlot):
		return NewDuplicateSlotError(day)
	case errors.Is(err, slotRepo.ErrInvalidInterval):
		return NewInvalidIntervalError("slot bounds must align to the 30-minute grid")
	default:
		return err
	}
}
