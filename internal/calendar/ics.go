// Package calendar exports timelines as iCalendar feeds.
package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/spec-kit/chronoplan/internal/domain"
)

const productID = "-//chronoplan//schedule//EN"

// ContentType is the media type of Render's output.
const ContentType = "text/calendar; charset=utf-8"

// Render builds a VCALENDAR holding one VEVENT per event. Times are written in UTC.
func Render(user domain.User, events []domain.ScheduleEvent, stamp time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(user.Name)
	cal.SetXWRCalDesc(user.Context())

	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@chronoplan")
		ve.SetDtStampTime(stamp.UTC())
		ve.SetStartAt(e.StartTime.UTC())
		ve.SetEndAt(e.EndTime.UTC())
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.AddProperty(ical.ComponentPropertyCategories, string(e.Type))
	}
	return []byte(cal.Serialize())
}
