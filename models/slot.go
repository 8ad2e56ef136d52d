package models

import "time"

// BaseUnitMinutes is the slot granularity. Every published slot covers exactly
// one base unit and starts on a base-unit boundary of the clinic's local day.
const BaseUnitMinutes = 30

// Slot is an advertised bookable interval owned by a single professional.
// Slots are published by the availability service (single or recurring) and
// stop appearing in listings once a non-cancelled appointment claims their
// start; the document itself is kept for audit.
type Slot struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// PublishAvailabilityRequest is the payload for publishing slots, either a
// one-off interval or a weekly recurrence over a date range.
type PublishAvailabilityRequest struct {
	ProfessionalID string `json:"professionalId"`
	StartDate      string `json:"startDate" binding:"required"` // "2006-01-02"
	StartTime      string `json:"startTime" binding:"required"` // "15:04", clinic local
	EndDate        string `json:"endDate" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	Recurring      bool   `json:"recurring"`
	Weekdays       []int  `json:"weekdays,omitempty"` // 0=Sunday .. 6=Saturday
}
