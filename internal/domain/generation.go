package domain

import "time"

// GenerationState enumerates the lifecycle of a generation request per session.
type GenerationState string

const (
	GenerationIdle      GenerationState = "IDLE"
	GenerationPending   GenerationState = "PENDING"
	GenerationSucceeded GenerationState = "SUCCEEDED"
	GenerationFailed    GenerationState = "FAILED"
)

// GenerationStatus is a snapshot of a session's latest generation request.
type GenerationStatus struct {
	SessionID  string
	State      GenerationState
	UserID     string
	StartedAt  time.Time
	FinishedAt *time.Time
	Created    int
	Error      string
}
