package models

import "time"

// Appointment statuses. Only non-cancelled appointments count against a
// professional's calendar; only confirmed ones receive reminders.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// ReminderStage identifies one of the two independent reminder checkpoints
// tracked per appointment.
type ReminderStage string

const (
	Stage24h ReminderStage = "24h"
	Stage1h  ReminderStage = "1h"
)

// SentField returns the bson/json field holding the stage's sent flag.
func (s ReminderStage) SentField() string {
	if s == Stage1h {
		return "reminder1hSent"
	}
	return "reminder24hSent"
}

// SentAtField returns the bson/json field holding the stage's sent timestamp.
func (s ReminderStage) SentAtField() string {
	if s == Stage1h {
		return "reminder1hSentAt"
	}
	return "reminder24hSentAt"
}

// Appointment is a confirmed claim on a professional's time. The Active flag
// mirrors "status != cancelled" and backs the partial unique index that keeps
// two live appointments from sharing (professionalId, date).
type Appointment struct {
	ID              string     `bson:"id" json:"id"`
	ProfessionalID  string     `bson:"professionalId" json:"professionalId"`
	PetID           string     `bson:"petId" json:"petId"`
	TutorID         string     `bson:"tutorId" json:"tutorId"`
	Date            time.Time  `bson:"date" json:"date"`
	DurationMinutes int        `bson:"durationMinutes" json:"durationMinutes"`
	Reason          string     `bson:"reason" json:"reason"`
	Status          string     `bson:"status" json:"status"`
	Active          bool       `bson:"active" json:"-"`
	Reminder24hSent bool       `bson:"reminder24hSent" json:"reminder24hSent"`
	Reminder24hAt   *time.Time `bson:"reminder24hSentAt,omitempty" json:"reminder24hSentAt,omitempty"`
	Reminder1hSent  bool       `bson:"reminder1hSent" json:"reminder1hSent"`
	Reminder1hAt    *time.Time `bson:"reminder1hSentAt,omitempty" json:"reminder1hSentAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// EndTime returns the exclusive end of the appointment's interval.
func (a *Appointment) EndTime() time.Time {
	return a.Date.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// ReminderSent reports whether the given stage has already been dispatched.
func (a *Appointment) ReminderSent(stage ReminderStage) bool {
	if stage == Stage1h {
		return a.Reminder1hSent
	}
	return a.Reminder24hSent
}
