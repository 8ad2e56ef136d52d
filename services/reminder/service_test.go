package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	appointmentRepo "patitas/database/repository/appointment"
	recordsRepo "patitas/database/repository/records"
	"patitas/models"
	"patitas/utils"
)

// memReminderStore implements the appointment repository surface the
// reminder pass touches, with the same guarded mark semantics as Mongo.
type memReminderStore struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newMemReminderStore(appts ...models.Appointment) *memReminderStore {
	store := &memReminderStore{appts: make(map[string]models.Appointment)}
	for _, a := range appts {
		store.appts[a.ID] = a
	}
	return store
}

func (r *memReminderStore) FindDueReminders(ctx context.Context, stage models.ReminderStage, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []models.Appointment
	for _, a := range r.appts {
		if a.Status != models.AppointmentConfirmed {
			continue
		}
		if a.ReminderSent(stage) {
			continue
		}
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		due = append(due, a)
	}
	return due, nil
}

func (r *memReminderStore) MarkReminderSent(ctx context.Context, id string, stage models.ReminderStage, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || a.ReminderSent(stage) {
		return false, nil
	}
	if stage == models.Stage1h {
		a.Reminder1hSent = true
		a.Reminder1hAt = &at
	} else {
		a.Reminder24hSent = true
		a.Reminder24hAt = &at
	}
	r.appts[id] = a
	return true, nil
}

func (r *memReminderStore) get(id string) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appts[id]
}

func (r *memReminderStore) InsertIfFree(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	return nil, errors.New("not used")
}
func (r *memReminderStore) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return nil, errors.New("not used")
}
func (r *memReminderStore) ListByProfessional(ctx context.Context, professionalID string, from, to time.Time) ([]models.Appointment, error) {
	return nil, nil
}
func (r *memReminderStore) BookedStarts(ctx context.Context, professionalID string, from, to time.Time) (map[int64]struct{}, error) {
	return nil, nil
}
func (r *memReminderStore) Update(ctx context.Context, appt models.Appointment) error { return nil }
func (r *memReminderStore) Cancel(ctx context.Context, id string) error               { return nil }
func (r *memReminderStore) EnsureIndexes(ctx context.Context) error                   { return nil }

var _ appointmentRepo.AppointmentRepository = (*memReminderStore)(nil)

// recordingMailer captures sends and fails the addresses it is told to.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []string // recipient addresses in send order
	failing map[string]bool
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[to] {
		return "", errors.New("smtp: mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return "msg-1", nil
}

func (m *recordingMailer) sentTo(addr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s == addr {
			n++
		}
	}
	return n
}

type reminderRecords struct{}

func (reminderRecords) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	if id != "prof-1" {
		return nil, recordsRepo.ErrRecordNotFound
	}
	return &models.Professional{ID: "prof-1", Name: "Dra. Rojas", Email: "rojas@clinica.cl"}, nil
}

func (reminderRecords) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	if id != "pet-1" {
		return nil, recordsRepo.ErrRecordNotFound
	}
	return &models.Pet{ID: "pet-1", TutorID: "tutor-1", Name: "Kiltro"}, nil
}

func (reminderRecords) GetTutor(ctx context.Context, id string) (*models.Tutor, error) {
	if id != "tutor-1" {
		return nil, recordsRepo.ErrRecordNotFound
	}
	return &models.Tutor{ID: "tutor-1", Name: "Camila", Email: "camila@example.com"}, nil
}

func (reminderRecords) FindTutorByEmail(ctx context.Context, email string) (*models.Tutor, error) {
	return nil, recordsRepo.ErrRecordNotFound
}

func newReminderService(store *memReminderStore, mailer *recordingMailer) *DefaultReminderService {
	return &DefaultReminderService{
		AppointmentRepo: store,
		RecordsRepo:     reminderRecords{},
		Mailer:          mailer,
		Clock:           utils.MustClinicTime("America/Santiago"),
		ClinicName:      "Veterinaria Patitas",
	}
}

func confirmedAppt(id string, date time.Time) models.Appointment {
	return models.Appointment{
		ID:              id,
		ProfessionalID:  "prof-1",
		PetID:           "pet-1",
		TutorID:         "tutor-1",
		Date:            date,
		DurationMinutes: 30,
		Reason:          "control anual",
		Status:          models.AppointmentConfirmed,
		Active:          true,
	}
}

func mustAt(t *testing.T, clock *utils.ClinicTime, date, hhmm string) time.Time {
	t.Helper()
	instant, err := clock.At(date, hhmm)
	if err != nil {
		t.Fatal(err)
	}
	return instant
}

func TestProcessWindow24hMatchesTomorrowOnly(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	store := newMemReminderStore(
		confirmedAppt("today", mustAt(t, clock, "2025-06-10", "18:00")),
		confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00")),
		confirmedAppt("later", mustAt(t, clock, "2025-06-12", "10:00")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if report.Matched != 1 || report.Sent != 1 {
		t.Fatalf("report = %+v, want matched=1 sent=1", report)
	}
	if !store.get("tomorrow").Reminder24hSent {
		t.Fatal("tomorrow's appointment not marked")
	}
	if store.get("today").Reminder24hSent || store.get("later").Reminder24hSent {
		t.Fatal("appointments outside tomorrow were marked")
	}
	if mailer.sentTo("camila@example.com") != 1 || mailer.sentTo("rojas@clinica.cl") != 1 {
		t.Fatalf("sends = %v, want one per recipient", mailer.sent)
	}
}

func TestProcessWindow1hLateEveningCrossesMidnight(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	// A run at 23:50 must see an appointment at 00:45 the next day: the
	// [now+1h, now+2h) window crosses midnight.
	store := newMemReminderStore(
		confirmedAppt("past-midnight", mustAt(t, clock, "2025-06-11", "00:45")),
		confirmedAppt("too-soon", mustAt(t, clock, "2025-06-11", "00:30")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "23:50")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage1h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if report.Matched != 1 || report.Sent != 1 {
		t.Fatalf("report = %+v, want matched=1 sent=1", report)
	}
	if !store.get("past-midnight").Reminder1hSent {
		t.Fatal("00:45 appointment not marked")
	}
	if store.get("too-soon").Reminder1hSent {
		t.Fatal("00:30 appointment is under an hour away and must not match")
	}
}

func TestProcessWindowSkipsAlreadySent(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	firstMark := mustAt(t, clock, "2025-06-10", "08:30")
	appt := confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00"))
	appt.Reminder24hSent = true
	appt.Reminder24hAt = &firstMark

	store := newMemReminderStore(appt)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if report.Matched != 0 || report.Sent != 0 {
		t.Fatalf("report = %+v, want nothing matched", report)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %v, want no sends for an already-marked stage", mailer.sent)
	}
	if got := store.get("tomorrow").Reminder24hAt; !got.Equal(firstMark) {
		t.Fatalf("sent-at moved from %v to %v", firstMark, got)
	}
}

func TestProcessWindowStagesAreIndependent(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	appt := confirmedAppt("soon", mustAt(t, clock, "2025-06-10", "10:30"))
	appt.Reminder24hSent = true
	store := newMemReminderStore(appt)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage1h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if report.Sent != 1 {
		t.Fatalf("report = %+v, want the 1h stage sent despite the 24h flag", report)
	}
	if !store.get("soon").Reminder1hSent {
		t.Fatal("1h flag not set")
	}
}

func TestProcessWindowPartialDeliveryStillMarks(t *testing.T) {
	mailer := &recordingMailer{failing: map[string]bool{"camila@example.com": true}}
	clock := utils.MustClinicTime("America/Santiago")

	store := newMemReminderStore(
		confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	// One recipient got through, so the stage counts as delivered and is
	// not retried for the failed party.
	if report.Sent != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v, want sent=1", report)
	}
	if !store.get("tomorrow").Reminder24hSent {
		t.Fatal("stage not marked after partial delivery")
	}
}

func TestProcessWindowTotalFailureRetriesNextRun(t *testing.T) {
	mailer := &recordingMailer{failing: map[string]bool{
		"camila@example.com": true,
		"rojas@clinica.cl":   true,
	}}
	clock := utils.MustClinicTime("America/Santiago")

	store := newMemReminderStore(
		confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if report.Failed != 1 || report.Sent != 0 {
		t.Fatalf("report = %+v, want failed=1", report)
	}
	if store.get("tomorrow").Reminder24hSent {
		t.Fatal("stage marked despite both sends failing")
	}

	// The mail provider recovers; the next periodic run delivers and marks.
	mailer.failing = nil
	report, err = svc.ProcessWindow(context.Background(), now.Add(30*time.Minute), models.Stage24h)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Fatalf("retry report = %+v, want sent=1", report)
	}
	if !store.get("tomorrow").Reminder24hSent {
		t.Fatal("stage not marked on retry")
	}
}

func TestProcessWindowSkipsNonConfirmed(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	cancelled := confirmedAppt("cancelled", mustAt(t, clock, "2025-06-11", "10:00"))
	cancelled.Status = models.AppointmentCancelled
	cancelled.Active = false
	pending := confirmedAppt("pending", mustAt(t, clock, "2025-06-11", "11:00"))
	pending.Status = models.AppointmentPending

	store := newMemReminderStore(cancelled, pending)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatal(err)
	}
	if report.Matched != 0 || len(mailer.sent) != 0 {
		t.Fatalf("report = %+v sent = %v, want no reminders", report, mailer.sent)
	}
}

func TestProcessWindowIncompleteRecordsCountFailed(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	orphan := confirmedAppt("orphan", mustAt(t, clock, "2025-06-11", "10:00"))
	orphan.PetID = "pet-deleted"

	store := newMemReminderStore(orphan)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Sent != 0 {
		t.Fatalf("report = %+v, want failed=1", report)
	}
	if store.get("orphan").Reminder24hSent {
		t.Fatal("orphan appointment must not be marked")
	}
}

func TestRunAllCoversBothStages(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	store := newMemReminderStore(
		confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00")),
		confirmedAppt("soon", mustAt(t, clock, "2025-06-10", "10:30")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")
	reports, err := svc.RunAll(context.Background(), now)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}

	stages := map[models.ReminderStage]models.ReminderReport{}
	for _, r := range reports {
		stages[r.Stage] = r
	}
	if stages[models.Stage24h].Sent != 1 || stages[models.Stage1h].Sent != 1 {
		t.Fatalf("reports = %+v, want one send per stage", reports)
	}
	if !store.get("tomorrow").Reminder24hSent || !store.get("soon").Reminder1hSent {
		t.Fatal("stage flags not set by RunAll")
	}
}

func TestReminderWindowAcrossSpringForward(t *testing.T) {
	mailer := &recordingMailer{}
	clock := utils.MustClinicTime("America/Santiago")

	// The 23-hour day 2025-09-07 is still exactly "tomorrow" for a run on
	// the 6th: an appointment at 10:00 local matches regardless of the
	// shortened night.
	store := newMemReminderStore(
		confirmedAppt("dst-day", mustAt(t, clock, "2025-09-07", "10:00")),
	)
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-09-06", "09:00")
	report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Fatalf("report = %+v, want sent=1 on the transition day", report)
	}
	if got := report.WindowTo.Sub(report.WindowFrom); got != 23*time.Hour {
		t.Fatalf("window spans %v, want the 23h transition day", got)
	}
}

func TestProcessWindowConcurrentPassesSendOnce(t *testing.T) {
	clock := utils.MustClinicTime("America/Santiago")

	appt := confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00"))
	store := newMemReminderStore(appt)
	mailer := &recordingMailer{}
	svc := newReminderService(store, mailer)

	now := mustAt(t, clock, "2025-06-10", "09:00")

	var wg sync.WaitGroup
	results := make(chan models.ReminderReport, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := svc.ProcessWindow(context.Background(), now, models.Stage24h)
			if err != nil {
				t.Errorf("ProcessWindow: %v", err)
				return
			}
			results <- report
		}()
	}
	wg.Wait()
	close(results)

	// Overlapping passes may each email, but the guarded mark admits only
	// one "sent"; the rest observe the flag and report a duplicate.
	totalSent := 0
	for r := range results {
		totalSent += r.Sent
	}
	if totalSent != 1 {
		t.Fatalf("total sent across concurrent passes = %d, want 1", totalSent)
	}
}

func TestReminderCopyMentionsPetAndTime(t *testing.T) {
	clock := utils.MustClinicTime("America/Santiago")

	appt := confirmedAppt("tomorrow", mustAt(t, clock, "2025-06-11", "10:00"))
	store := newMemReminderStore(appt)

	var captured struct {
		mu       sync.Mutex
		subjects []string
	}
	mailer := &captureMailer{onSend: func(to, subject, body string) {
		captured.mu.Lock()
		defer captured.mu.Unlock()
		captured.subjects = append(captured.subjects, subject+" | "+body)
	}}
	svc := newReminderService(store, nil)
	svc.Mailer = mailer

	now := mustAt(t, clock, "2025-06-10", "09:00")
	if _, err := svc.ProcessWindow(context.Background(), now, models.Stage24h); err != nil {
		t.Fatal(err)
	}

	if len(captured.subjects) != 2 {
		t.Fatalf("captured %d emails, want 2", len(captured.subjects))
	}
	for _, s := range captured.subjects {
		if !strings.Contains(s, "Kiltro") {
			t.Fatalf("email does not mention the pet: %s", s)
		}
		if !strings.Contains(s, "10:00") {
			t.Fatalf("email does not mention the local time: %s", s)
		}
	}
}

type captureMailer struct {
	onSend func(to, subject, body string)
}

func (m *captureMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	m.onSend(to, subject, htmlBody)
	return "msg-1", nil
}
