package generation

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"github.com/spec-kit/chronoplan/internal/config"
	"github.com/spec-kit/chronoplan/internal/domain"
)

// GeminiModel calls the Gemini generateContent API with structured output.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel builds the SDK client. httpClient may be nil.
func NewGeminiModel(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiModel{client: client, model: model}, nil
}

// Generate implements Model.
func (m *GeminiModel) Generate(ctx context.Context, req Request) (string, error) {
	if m == nil || m.client == nil {
		return "", errors.New("gemini client not initialized")
	}
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    req.Schema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
