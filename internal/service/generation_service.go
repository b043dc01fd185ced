package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/events"
	"github.com/spec-kit/chronoplan/internal/observability"
	"github.com/spec-kit/chronoplan/internal/session"
)

// Generator turns a free-text prompt into validated drafts.
type Generator interface {
	Generate(ctx context.Context, prompt, userContext string) ([]domain.DraftEvent, error)
}

// GenerationService runs the prompt to timeline flow for one session at a time.
type GenerationService struct {
	schedule   *ScheduleService
	generator  Generator
	tracker    *session.Tracker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// GenerationDependencies bundles collaborators for the generation service.
type GenerationDependencies struct {
	Schedule   *ScheduleService
	Generator  Generator
	Tracker    *session.Tracker
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// GenerationResult carries the ingested events and the refreshed timeline.
type GenerationResult struct {
	Created  []domain.ScheduleEvent
	Timeline []domain.ScheduleEvent
	Status   domain.GenerationStatus
}

// NewGenerationService constructs the service.
func NewGenerationService(deps GenerationDependencies) *GenerationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := deps.Tracker
	if tracker == nil {
		tracker = session.NewTracker(nil, logger)
	}
	return &GenerationService{
		schedule:   deps.Schedule,
		generator:  deps.Generator,
		tracker:    tracker,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.Named("generation"),
	}
}

// Generate asks the model for events matching prompt and appends them to the
// user's timeline. Blank prompts and unknown users are rejected before the
// session leaves its current state. A failed call leaves the store untouched.
func (s *GenerationService) Generate(ctx context.Context, sessionID, userID, prompt string) (*GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}
	user, err := s.schedule.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = "user:" + userID
	}

	if err := s.tracker.Begin(ctx, sessionID, userID); err != nil {
		if errors.Is(err, domain.ErrGenerationInProgress) {
			s.metrics.RecordGeneration("rejected", 0)
		}
		return nil, err
	}

	started := time.Now()
	created, err := s.run(ctx, user, prompt)
	s.tracker.Finish(ctx, sessionID, len(created), err)
	if err != nil {
		s.metrics.RecordGeneration("failed", 0)
		s.logger.Warn("generation failed",
			zap.String("session_id", sessionID),
			zap.String("user_id", userID),
			zap.Error(err))
		s.publish(ctx, sessionID, events.New(events.EventGenerationFailed, userID, events.GenerationFailedPayload{
			PromptLength: len(prompt),
			Reason:       err.Error(),
		}))
		return nil, err
	}

	s.metrics.RecordGeneration("succeeded", len(created))
	s.publish(ctx, sessionID, events.New(events.EventGenerationSucceeded, userID, events.GenerationSucceededPayload{
		PromptLength: len(prompt),
		Created:      len(created),
		Duration:     time.Since(started),
	}))

	timeline, err := s.schedule.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GenerationResult{
		Created:  created,
		Timeline: timeline,
		Status:   s.tracker.Status(sessionID),
	}, nil
}

// Status reports the latest generation state of a session.
func (s *GenerationService) Status(sessionID string) domain.GenerationStatus {
	return s.tracker.Status(sessionID)
}

func (s *GenerationService) run(ctx context.Context, user *domain.User, prompt string) ([]domain.ScheduleEvent, error) {
	if s.generator == nil {
		return nil, domain.ErrMissingCredential
	}
	drafts, err := s.generator.Generate(ctx, prompt, user.Context())
	if err != nil {
		return nil, err
	}
	return s.schedule.ingest(ctx, user.ID, drafts, sourceGeneration)
}

func (s *GenerationService) publish(ctx context.Context, sessionID string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.SessionID = sessionID
	_ = s.dispatcher.Publish(ctx, event)
}
