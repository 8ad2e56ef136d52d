package utils

import (
	"fmt"
	"time"
)

// ClinicTime does all wall-clock arithmetic for the clinic's civil timezone.
// The zone is loaded from the platform tz database, so the twice-yearly DST
// shifts (Chile: forward the first Saturday of September at 24:00, back the
// first Saturday of April) come from transition rules, never from a stored
// offset. Day boundaries and "N hours from now" windows computed here stay
// correct on both sides of a transition.
type ClinicTime struct {
	loc *time.Location
}

// NewClinicTime loads the IANA zone with the given identifier.
func NewClinicTime(zone string) (*ClinicTime, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic timezone %q: %w", zone, err)
	}
	return &ClinicTime{loc: loc}, nil
}

// MustClinicTime is NewClinicTime for wiring paths where the zone comes from
// validated config.
func MustClinicTime(zone string) *ClinicTime {
	ct, err := NewClinicTime(zone)
	if err != nil {
		panic(err)
	}
	return ct
}

// Location exposes the underlying *time.Location.
func (ct *ClinicTime) Location() *time.Location { return ct.loc }

// DayBounds returns the local calendar day containing t as a half-open
// instant interval [startOfDay, startOfNextDay). On a transition day the
// interval's real length is 23 or 25 hours; when midnight itself is skipped
// the day starts at the first wall-clock time that exists.
func (ct *ClinicTime) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(ct.loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ct.loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, ct.loc)
	return start, end
}

// AddHours shifts t by n wall-clock hours. Across a DST transition the
// elapsed real seconds legitimately differ from n*3600.
func (ct *ClinicTime) AddHours(t time.Time, n int) time.Time {
	local := t.In(ct.loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, local.Hour()+n, local.Minute(), local.Second(), local.Nanosecond(), ct.loc)
}

// DayKey formats t's local calendar day as "YYYY-MM-DD" for grouping.
func (ct *ClinicTime) DayKey(t time.Time) string {
	return t.In(ct.loc).Format("2006-01-02")
}

// Weekday returns t's local day of week.
func (ct *ClinicTime) Weekday(t time.Time) time.Weekday {
	return t.In(ct.loc).Weekday()
}

// At builds the instant for a local "2006-01-02" date and "15:04" time of
// day. A wall-clock time skipped by a transition resolves to the next
// existing instant; an ambiguous one resolves to its first occurrence.
func (ct *ClinicTime) At(date, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, ct.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local date/time %q %q: %w", date, hhmm, err)
	}
	return t, nil
}

// AddDays shifts a "2006-01-02" date string by n calendar days.
func (ct *ClinicTime) AddDays(date string, n int) (string, error) {
	d, err := time.ParseInLocation("2006-01-02", date, ct.loc)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.AddDate(0, 0, n).Format("2006-01-02"), nil
}
