package notification

import (
	"fmt"
	"time"

	"patitas/models"
)

// ReminderContext carries everything needed to render both reminder emails
// for one appointment.
type ReminderContext struct {
	Appointment  models.Appointment
	Professional models.Professional
	Pet          models.Pet
	Tutor        models.Tutor
	ClinicName   string
	Location     *time.Location
}

// Email copy is Spanish, matching the clinic's audience; the clinic operates
// in Chilean local time, so formatting always goes through the clinic zone.

func (rc ReminderContext) localDate() string {
	return rc.Appointment.Date.In(rc.Location).Format("02-01-2006")
}

func (rc ReminderContext) localTime() string {
	return rc.Appointment.Date.In(rc.Location).Format("15:04")
}

func stageLabel(stage models.ReminderStage) string {
	if stage == models.Stage1h {
		return "en 1 hora"
	}
	return "mañana"
}

// TutorReminder renders the subject and HTML body for the pet owner.
func TutorReminder(stage models.ReminderStage, rc ReminderContext) (string, string) {
	subject := fmt.Sprintf("Recordatorio: cita de %s %s a las %s", rc.Pet.Name, stageLabel(stage), rc.localTime())
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Te recordamos la cita de <strong>%s</strong> %s, el %s a las %s hrs, con %s en %s.</p>
<p>Motivo: %s</p>
<p>Si no puedes asistir, por favor avísanos con anticipación.</p>
<p>%s</p>`,
		rc.Tutor.Name, rc.Pet.Name, stageLabel(stage), rc.localDate(), rc.localTime(),
		rc.Professional.Name, rc.ClinicName, rc.Appointment.Reason, rc.ClinicName)
	return subject, body
}

// ProfessionalReminder renders the subject and HTML body for the professional.
func ProfessionalReminder(stage models.ReminderStage, rc ReminderContext) (string, string) {
	subject := fmt.Sprintf("Agenda: %s (%s) %s a las %s", rc.Pet.Name, rc.Tutor.Name, stageLabel(stage), rc.localTime())
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Tienes una cita %s: <strong>%s</strong> (tutor: %s, tel: %s), el %s a las %s hrs.</p>
<p>Motivo: %s</p>`,
		rc.Professional.Name, stageLabel(stage), rc.Pet.Name, rc.Tutor.Name, rc.Tutor.Phone,
		rc.localDate(), rc.localTime(), rc.Appointment.Reason)
	return subject, body
}
