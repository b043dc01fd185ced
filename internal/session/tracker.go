package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// Tracker keeps the generation lifecycle of each interactive session:
// Idle -> Pending -> Succeeded|Failed -> Pending ...
// A session already Pending cannot begin another request.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*domain.GenerationStatus
	locker   Locker
	now      func() time.Time
	logger   *zap.Logger
}

// NewTracker builds a tracker. A nil locker keeps the gate in memory.
func NewTracker(locker Locker, logger *zap.Logger) *Tracker {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		sessions: make(map[string]*domain.GenerationStatus),
		locker:   locker,
		now:      time.Now,
		logger:   logger.Named("session"),
	}
}

// Begin moves the session to Pending. It returns domain.ErrGenerationInProgress
// when a request for the session is already outstanding.
func (t *Tracker) Begin(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	t.mu.Lock()
	if st, ok := t.sessions[sessionID]; ok && st.State == domain.GenerationPending {
		t.mu.Unlock()
		return domain.ErrGenerationInProgress
	}
	t.mu.Unlock()

	acquired, err := t.locker.TryLock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("acquire generation gate: %w", err)
	}
	if !acquired {
		return domain.ErrGenerationInProgress
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionID] = &domain.GenerationStatus{
		SessionID: sessionID,
		State:     domain.GenerationPending,
		UserID:    userID,
		StartedAt: t.now(),
	}
	t.logger.Debug("generation pending", zap.String("session_id", sessionID), zap.String("user_id", userID))
	return nil
}

// Finish resolves a Pending session to Succeeded (err == nil) or Failed and
// releases the gate. Finishing a session that is not Pending is a no-op.
func (t *Tracker) Finish(ctx context.Context, sessionID string, created int, err error) {
	t.mu.Lock()
	st, ok := t.sessions[sessionID]
	if !ok || st.State != domain.GenerationPending {
		t.mu.Unlock()
		return
	}
	finished := t.now()
	st.FinishedAt = &finished
	st.Created = created
	if err != nil {
		st.State = domain.GenerationFailed
		st.Error = err.Error()
	} else {
		st.State = domain.GenerationSucceeded
		st.Error = ""
	}
	state := st.State
	t.mu.Unlock()

	if unlockErr := t.locker.Unlock(context.WithoutCancel(ctx), sessionID); unlockErr != nil {
		t.logger.Warn("release generation gate", zap.String("session_id", sessionID), zap.Error(unlockErr))
	}
	t.logger.Debug("generation finished", zap.String("session_id", sessionID), zap.String("state", string(state)))
}

// Status returns a copy of the session's latest status. Unknown sessions are Idle.
func (t *Tracker) Status(sessionID string) domain.GenerationStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.sessions[sessionID]
	if !ok {
		return domain.GenerationStatus{SessionID: sessionID, State: domain.GenerationIdle}
	}
	return *st
}
