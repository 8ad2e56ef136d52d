package models

import "time"

// ReminderTaskPayload is what the periodic scheduler enqueues for the worker.
// The stage is the only routing information; the pass itself re-reads the
// appointment store, so a stale task is harmless.
type ReminderTaskPayload struct {
	Stage       ReminderStage `json:"stage"`
	RequestedAt time.Time     `json:"requestedAt"`
}

// ReminderReport summarizes one reminder pass for logging and the ops
// trigger endpoint.
type ReminderReport struct {
	Stage       ReminderStage `json:"stage"`
	WindowFrom  time.Time     `json:"windowFrom"`
	WindowTo    time.Time     `json:"windowTo"`
	Matched     int           `json:"matched"`
	Sent        int           `json:"sent"`
	Failed      int           `json:"failed"`
	AlreadySent int           `json:"alreadySent"`
}
