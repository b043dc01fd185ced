package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// wireEvent mirrors one element of the model's JSON array before any trust is placed in it.
type wireEvent struct {
	Title       string  `json:"title" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=concert class meeting travel personal other"`
	StartTime   string  `json:"startTime" validate:"required"`
	EndTime     string  `json:"endTime" validate:"required"`
	Location    *string `json:"location" validate:"required"`
	Description string  `json:"description"`
}

var wireValidator = newWireValidator()

func newWireValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp accepts ISO-8601 variants. Values without an offset are read in loc.
func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// decodeDrafts turns raw model text into validated drafts. Blank text and an
// empty array both yield no drafts. Any invalid element rejects the batch.
func decodeDrafts(text string, loc *time.Location) ([]domain.DraftEvent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.DraftEvent{}, nil
	}

	var wire []wireEvent
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	drafts := make([]domain.DraftEvent, 0, len(wire))
	for i := range wire {
		draft, err := wire[i].toDraft(loc)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				verr.Position = i + 1
			}
			return nil, fmt.Errorf("%w: item %d: %w", domain.ErrMalformedResponse, i, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func (w wireEvent) toDraft(loc *time.Location) (domain.DraftEvent, error) {
	w.Type = strings.ToLower(strings.TrimSpace(w.Type))
	w.Title = strings.TrimSpace(w.Title)

	verr := &domain.ValidationError{}
	if err := wireValidator.Struct(w); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.DraftEvent{}, err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), describeTag(fe))
		}
		return domain.DraftEvent{}, verr
	}

	start, err := parseTimestamp(w.StartTime, loc)
	if err != nil {
		verr.Add("startTime", err.Error())
	}
	end, err := parseTimestamp(w.EndTime, loc)
	if err != nil {
		verr.Add("endTime", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return domain.DraftEvent{}, err
	}

	eventType, _ := domain.ParseEventType(w.Type)
	draft := domain.DraftEvent{
		Title:       w.Title,
		Type:        eventType,
		StartTime:   start,
		EndTime:     end,
		Location:    strings.TrimSpace(*w.Location),
		Description: strings.TrimSpace(w.Description),
	}
	if err := draft.Validate(); err != nil {
		return domain.DraftEvent{}, err
	}
	return draft, nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag()
	}
}
