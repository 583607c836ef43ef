package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventLineStart   EventType = "line_start"
	EventLineEnd     EventType = "line_end"
	EventRunEnd      EventType = "run_end"
	EventJobIndexed  EventType = "job_indexed"
	EventJobRejected EventType = "job_rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RunEvent reports progress of a narration run.
type RunEvent struct {
	EventBase
	Run       uint64 `json:"run"`
	LineIndex int    `json:"line_index,omitempty"`
	Line      string `json:"line,omitempty"`

	// Superseded is true on run_end when the run was cancelled by a newer
	// one rather than finishing its script.
	Superseded bool `json:"superseded,omitempty"`
}

// JobEvent reports an ingestion outcome.
type JobEvent struct {
	EventBase
	JobID     string        `json:"job_id"`
	Documents int           `json:"documents,omitempty"`
	Chunks    int           `json:"chunks,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for observability. All fields are
// optional; nil hooks are skipped.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnLineStart  func(context.Context, *RunEvent)
	OnLineEnd    func(context.Context, *RunEvent)
	OnRunEnd     func(context.Context, *RunEvent)
	OnJobIndexed func(context.Context, *JobEvent)
}
