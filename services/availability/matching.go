package availability

import (
	"time"

	"patitas/models"
)

// StartSet collects slot starts as unix seconds for O(1) membership checks.
func StartSet(slots []models.Slot) map[int64]struct{} {
	starts := make(map[int64]struct{}, len(slots))
	for _, s := range slots {
		starts[s.Start.Unix()] = struct{}{}
	}
	return starts
}

// requiredUnits is ceil(durationMinutes / base unit).
func requiredUnits(durationMinutes int) int {
	return (durationMinutes + models.BaseUnitMinutes - 1) / models.BaseUnitMinutes
}

// Fits reports whether a consultation of the given duration starting at
// candidate is fully covered by consecutive base slots: one slot must start
// at candidate + k*baseUnit for every unit k.
func Fits(starts map[int64]struct{}, candidate time.Time, durationMinutes int) bool {
	if durationMinutes <= 0 {
		return false
	}
	unit := time.Duration(models.BaseUnitMinutes) * time.Minute
	for k := 0; k < requiredUnits(durationMinutes); k++ {
		if _, ok := starts[candidate.Add(time.Duration(k)*unit).Unix()]; !ok {
			return false
		}
	}
	return true
}

// FilterBookable keeps only the slots whose consecutive run covers the
// requested duration, so a listing never offers a start that would spill
// into unpublished time.
func FilterBookable(slots []models.Slot, durationMinutes int) []models.Slot {
	starts := StartSet(slots)
	var bookable []models.Slot
	for _, s := range slots {
		if Fits(starts, s.Start, durationMinutes) {
			bookable = append(bookable, s)
		}
	}
	return bookable
}
