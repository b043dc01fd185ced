package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/chronoplan/internal/domain"
)

type fakeModel struct {
	calls    int
	response string
	err      error
	last     Request
}

func (f *fakeModel) Generate(ctx context.Context, req Request) (string, error) {
	f.calls++
	f.last = req
	return f.response, f.err
}

var anchor = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func newTestClient(model Model, credential string) *Client {
	return NewClient(model, Options{
		Credential: credential,
		Location:   time.UTC,
		Now:        func() time.Time { return anchor },
	}, nil)
}

func TestGenerateMissingCredentialMakesNoCall(t *testing.T) {
	model := &fakeModel{response: "[]"}
	client := newTestClient(model, "")
	_, err := client.Generate(context.Background(), "plan my day", "Role: Student")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("expected zero model calls, got %d", model.calls)
	}
}

func TestGenerateNilModelIsConfigurationError(t *testing.T) {
	client := newTestClient(nil, "key")
	if _, err := client.Generate(context.Background(), "x", ""); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestGenerateBlankPrompt(t *testing.T) {
	model := &fakeModel{response: "[]"}
	client := newTestClient(model, "key")
	if _, err := client.Generate(context.Background(), "   ", ""); !errors.Is(err, domain.ErrEmptyPrompt) {
		t.Fatalf("expected empty prompt error, got %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("blank prompt must not reach the model")
	}
}

func TestGenerateEmptyResponses(t *testing.T) {
	for _, body := range []string{"[]", "", "  \n", "null"} {
		model := &fakeModel{response: body}
		drafts, err := newTestClient(model, "key").Generate(context.Background(), "nothing", "")
		if err != nil {
			t.Fatalf("body %q: unexpected error %v", body, err)
		}
		if len(drafts) != 0 {
			t.Fatalf("body %q: expected no drafts, got %d", body, len(drafts))
		}
		if model.calls != 1 {
			t.Fatalf("body %q: expected exactly one call, got %d", body, model.calls)
		}
	}
}

func TestGenerateBuildsSchemaConstrainedRequest(t *testing.T) {
	model := &fakeModel{response: `[
		{"title":"Review calculus","type":"Class","startTime":"2026-10-16T09:00:00+08:00","endTime":"2026-10-16T11:00:00+08:00","location":"Library"},
		{"title":"Lunch","type":"personal","startTime":"2026-10-16T12:00:00","endTime":"2026-10-16T13:00:00","location":"","description":"canteen"}
	]`}
	drafts, err := newTestClient(model, "key").Generate(context.Background(), "tomorrow's revision plan", "Role: Student, Bio: exams")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("expected one call, got %d", model.calls)
	}
	if model.last.SystemInstruction != SystemInstruction {
		t.Fatalf("unexpected system instruction %q", model.last.SystemInstruction)
	}
	for _, fragment := range []string{
		"User Context: Role: Student, Bio: exams",
		"Current Date: 2026-10-15T09:30:00Z",
		`"tomorrow's revision plan"`,
		"3-5 events",
		"in the future relative to Current Date",
	} {
		if !strings.Contains(model.last.Prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, model.last.Prompt)
		}
	}
	if model.last.Schema == nil || model.last.Schema.Items == nil || len(model.last.Schema.Items.Required) != 5 {
		t.Fatalf("expected array schema with 5 required fields")
	}

	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Type != domain.EventTypeClass {
		t.Fatalf("expected case-normalized type, got %q", drafts[0].Type)
	}
	if drafts[0].StartTime.UTC().Hour() != 1 {
		t.Fatalf("expected offset honoured, got %v", drafts[0].StartTime)
	}
	if drafts[1].StartTime.Location() != time.UTC || drafts[1].StartTime.Hour() != 12 {
		t.Fatalf("expected zone-less time read in display location, got %v", drafts[1].StartTime)
	}
	if drafts[1].Location != "" || drafts[1].Description != "canteen" {
		t.Fatalf("unexpected optional fields %+v", drafts[1])
	}
}

func TestGenerateModelFailurePropagates(t *testing.T) {
	cause := errors.New("connection reset")
	model := &fakeModel{err: cause}
	_, err := newTestClient(model, "key").Generate(context.Background(), "x", "")
	if !errors.Is(err, domain.ErrGenerationFailed) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("expected no retries, got %d calls", model.calls)
	}
}

func TestGenerateRejectsMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":      "Sure! Here is your schedule",
		"object":        `{"title":"x"}`,
		"missing field": `[{"title":"x","type":"class","startTime":"2026-10-16T09:00:00Z","endTime":"2026-10-16T10:00:00Z"}]`,
		"unknown type":  `[{"title":"x","type":"party","startTime":"2026-10-16T09:00:00Z","endTime":"2026-10-16T10:00:00Z","location":""}]`,
		"bad time":      `[{"title":"x","type":"class","startTime":"tomorrow","endTime":"2026-10-16T10:00:00Z","location":""}]`,
		"inverted":      `[{"title":"x","type":"class","startTime":"2026-10-16T11:00:00Z","endTime":"2026-10-16T10:00:00Z","location":""}]`,
		"blank title":   `[{"title":"  ","type":"class","startTime":"2026-10-16T09:00:00Z","endTime":"2026-10-16T10:00:00Z","location":""}]`,
	}
	for name, body := range cases {
		model := &fakeModel{response: body}
		drafts, err := newTestClient(model, "key").Generate(context.Background(), "x", "")
		if !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("%s: expected malformed response, got %v", name, err)
		}
		if drafts != nil {
			t.Fatalf("%s: expected no drafts on failure", name)
		}
	}
}

func TestMalformedItemCarriesFieldDetails(t *testing.T) {
	body := `[
		{"title":"ok","type":"class","startTime":"2026-10-16T09:00:00Z","endTime":"2026-10-16T10:00:00Z","location":""},
		{"title":"bad","type":"party","startTime":"2026-10-16T09:00:00Z","endTime":"2026-10-16T10:00:00Z","location":""}
	]`
	_, err := newTestClient(&fakeModel{response: body}, "key").Generate(context.Background(), "x", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation details, got %v", err)
	}
	if verr.Position != 2 {
		t.Fatalf("expected second item flagged, got position %d", verr.Position)
	}
	if _, ok := verr.Fields["type"]; !ok {
		t.Fatalf("expected type field flagged, got %v", verr.Fields)
	}
}

func TestGenerateAppliesTimeout(t *testing.T) {
	model := &deadlineModel{}
	client := NewClient(model, Options{Credential: "key", Timeout: time.Minute}, nil)
	if _, err := client.Generate(context.Background(), "x", ""); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !model.hadDeadline {
		t.Fatalf("expected model call to carry a deadline")
	}
}

type deadlineModel struct{ hadDeadline bool }

func (d *deadlineModel) Generate(ctx context.Context, req Request) (string, error) {
	_, d.hadDeadline = ctx.Deadline()
	return "[]", nil
}
