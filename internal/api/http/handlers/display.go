package handlers

import (
	"time"

	"github.com/spec-kit/chronoplan/internal/agenda"
)

// Display controls how times and labels are rendered in responses.
type Display struct {
	Location *time.Location
	Locale   string
}

func (d Display) location() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

func (d Display) language() string {
	return agenda.Language(d.Locale)
}
