package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// Request is a single schema-constrained model call.
type Request struct {
	SystemInstruction string
	Prompt            string
	Schema            *genai.Schema
}

// Model performs one structured-output call and returns the raw JSON text.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Options configures a Client.
type Options struct {
	// Credential must be non-empty for Generate to reach the model.
	Credential string
	// Location reads timestamps that carry no offset. Defaults to time.Local.
	Location *time.Location
	// Timeout bounds the model call. Zero means no bound beyond ctx.
	Timeout time.Duration
	// Now overrides the clock used as the temporal anchor.
	Now func() time.Time
}

// Client turns free-text intent into validated draft events.
type Client struct {
	model      Model
	credential string
	location   *time.Location
	timeout    time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewClient builds a Client. model may be nil when no credential is configured.
func NewClient(model Model, opts Options, logger *zap.Logger) *Client {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		model:      model,
		credential: strings.TrimSpace(opts.Credential),
		location:   opts.Location,
		timeout:    opts.Timeout,
		now:        opts.Now,
		logger:     logger.Named("generation"),
	}
}

// Configured reports whether Generate can reach the model.
func (c *Client) Configured() bool {
	return c.credential != "" && c.model != nil
}

// Generate makes exactly one model call. An empty response is not an error.
func (c *Client) Generate(ctx context.Context, prompt, userContext string) ([]domain.DraftEvent, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if !c.Configured() {
		c.logger.Error("generation requested without credential")
		return nil, domain.ErrMissingCredential
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	anchor := c.now().In(c.location)
	req := Request{
		SystemInstruction: SystemInstruction,
		Prompt:            BuildPrompt(prompt, userContext, anchor),
		Schema:            ResponseSchema(),
	}

	started := time.Now()
	text, err := c.model.Generate(ctx, req)
	if err != nil {
		c.logger.Warn("model call failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	drafts, err := decodeDrafts(text, c.location)
	if err != nil {
		c.logger.Warn("model response rejected", zap.Int("bytes", len(text)), zap.Error(err))
		return nil, err
	}
	c.logger.Info("model call completed",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("drafts", len(drafts)))
	return drafts, nil
}
