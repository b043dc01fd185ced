package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when an operation references an unknown user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidEvent marks drafts rejected at the ingestion boundary.
	ErrInvalidEvent = errors.New("invalid schedule event")
	// ErrEmptyPrompt is returned for blank generation prompts.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrMissingCredential means no model API key is configured.
	ErrMissingCredential = errors.New("generation API key not configured")
	// ErrGenerationFailed wraps transport and provider failures.
	ErrGenerationFailed = errors.New("generation call failed")
	// ErrMalformedResponse is returned when the model output violates the schema.
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrGenerationInProgress rejects a second request while one is pending.
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// ValidationError collects field level problems. It matches ErrInvalidEvent with errors.Is.
type ValidationError struct {
	// Position is the 1-based index of the offending draft in a batch, zero when not applicable.
	Position int
	Fields   map[string]string
}

// Add records a problem for the field, keeping the first message.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; ok {
		return
	}
	v.Fields[field] = msg
}

// OrNil returns nil when no problems were recorded.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+v.Fields[k])
	}
	return ErrInvalidEvent.Error() + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrInvalidEvent
}

// DetailsMap exposes the field problems for API responses.
func (v *ValidationError) DetailsMap() map[string]any {
	out := make(map[string]any, len(v.Fields)+1)
	for k, msg := range v.Fields {
		out[k] = msg
	}
	if v.Position > 0 {
		out["index"] = v.Position - 1
	}
	return out
}
