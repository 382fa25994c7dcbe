package fetches

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

type RecordDraft struct {
	// Repository
	Path string

	// Request
	Nodes bool
	Tags  bool

	// Timing
	StartedAt   time.Time
	CompletedAt time.Time

	// Outcome
	Outcome   Outcome
	ErrorCode string // Backend error code, empty on success
	Message   string // Popup message shown for the failure
	TagCount  int    // Remote tags forwarded on success
}

type Record struct {
	RecordDraft

	ID        uuid.UUID
	CreatedAt time.Time
}

func (r *Record) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
