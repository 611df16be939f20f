package automation

import (
	"context"
	"time"

	"github.com/commentify/commentify/domains/profile"
)

// RunStatus is the run state machine. A run always ends in StatusCompleted;
// failures show up in the counters, never as a distinct terminal state.
type RunStatus string

const (
	StatusIdle       RunStatus = "idle"
	StatusValidating RunStatus = "validating"
	StatusRunning    RunStatus = "running"
	StatusCompleted  RunStatus = "completed"
)

// Counters aggregate attempt outcomes. Success+Failed == Total after every
// attempt; Total increases exactly once per assignment.
type Counters struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type RunRequest struct {
	Platform   profile.Platform `json:"platform"`
	PostURL    string           `json:"post_url"`
	ProfileIDs []string         `json:"profile_ids"`
	CommentIDs []string         `json:"comment_ids"`
}

// RunSnapshot is what survives a run: status plus the three counters.
// Per-assignment results only exist as emitted events.
type RunSnapshot struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	PostURL    string     `json:"post_url"`
	Counters   Counters   `json:"counters"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// EventLevel mirrors the toast levels of the dashboard consuming the stream.
type EventLevel string

const (
	LevelSuccess EventLevel = "success"
	LevelError   EventLevel = "error"
	LevelInfo    EventLevel = "info"
)

// Event is one localized, human-readable run notification: one per
// assignment outcome plus one final summary.
type Event struct {
	RunID       string     `json:"run_id"`
	Level       EventLevel `json:"level"`
	Message     string     `json:"message"`
	ProfileName string     `json:"profile_name,omitempty"`
	Counters    Counters   `json:"counters"`
}

// Notifier receives run events as they occur.
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(event Event)

func (f NotifierFunc) Notify(event Event) {
	f(event)
}

type IAutomationUsecase interface {
	// StartRun validates and schedules a run. Validation failures return
	// immediately; a second run for the same user while one is active is
	// rejected, not queued.
	StartRun(ctx context.Context, userID string, req RunRequest) (RunSnapshot, error)
	// GetRun returns the live or most recent run snapshot for the user.
	GetRun(ctx context.Context, userID string) (RunSnapshot, error)
	// CancelRun requests a stop at the next assignment boundary. Counters
	// recorded so far are kept and reported.
	CancelRun(ctx context.Context, userID string) error
}
