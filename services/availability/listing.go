package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"patitas/models"
	"patitas/utils"

	"go.uber.org/zap"
)

const listingCacheTTL = 30 * time.Second

// OpenSlots lists the bookable slots for one local calendar day. A slot is
// offered when it has not expired, no live appointment claims its start, and
// enough consecutive slots follow it to host the requested duration.
func (s *DefaultAvailabilityService) OpenSlots(ctx context.Context, professionalID, day string, durationMinutes int, now time.Time) ([]models.Slot, error) {
	logger := utils.GetLogger()

	if cached, ok := s.cachedListing(ctx, professionalID, day, durationMinutes); ok {
		return cached, nil
	}

	noon, err := s.Clock.At(day, "12:00")
	if err != nil {
		return nil, NewInvalidIntervalError(err.Error())
	}
	from, to := s.Clock.DayBounds(noon)

	slots, err := s.SlotRepo.ListByProfessionalWindow(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	booked, err := s.AppointmentRepo.BookedStarts(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	open := slots[:0:0]
	for _, slot := range slots {
		if !slot.End.After(now) {
			continue // already expired
		}
		if _, taken := booked[slot.Start.Unix()]; taken {
			continue // consumed by a live appointment
		}
		open = append(open, slot)
	}

	bookable := FilterBookable(open, durationMinutes)
	if bookable == nil {
		bookable = []models.Slot{}
	}

	s.storeListing(ctx, professionalID, day, durationMinutes, bookable)
	logger.Debug("Computed open slots",
		zap.String("professionalId", professionalID),
		zap.String("day", day),
		zap.Int("bookable", len(bookable)))
	return bookable, nil
}

func listingKey(professionalID, day string, durationMinutes int) string {
	return fmt.Sprintf("avail:%s:%s:%d", professionalID, day, durationMinutes)
}

func (s *DefaultAvailabilityService) cachedListing(ctx context.Context, professionalID, day string, durationMinutes int) ([]models.Slot, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, listingKey(professionalID, day, durationMinutes)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (s *DefaultAvailabilityService) storeListing(ctx context.Context, professionalID, day string, durationMinutes int, slots []models.Slot) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, listingKey(professionalID, day, durationMinutes), raw, listingCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("Failed to cache availability listing", zap.Error(err))
	}
}

// Invalidate drops every cached listing for the professional. The booking
// engine calls this after a successful booking; slot writes call it through
// invalidateListings.
func (s *DefaultAvailabilityService) Invalidate(ctx context.Context, professionalID string) {
	if s.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("avail:%s:*", professionalID)
	iter := s.Cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			utils.GetLogger().Debug("Failed to invalidate availability key",
				zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Debug("Availability cache scan failed", zap.Error(err))
	}
}

func (s *DefaultAvailabilityService) invalidateListings(ctx context.Context, professionalID string) {
	s.Invalidate(ctx, professionalID)
}
