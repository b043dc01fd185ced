// Package agenda turns a sorted timeline into calendar-day sections.
package agenda

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// KeyLayout formats DayGroup.Key.
const KeyLayout = "2006-01-02"

// FilterAll disables type filtering.
const FilterAll = "all"

// Options controls filtering and bucketing.
type Options struct {
	// Type is FilterAll, empty, or one of the event types.
	Type string
	// Location decides which calendar day an event falls on. Defaults to time.Local.
	Location *time.Location
	// Locale picks the label language, e.g. "zh-CN" or "en-US".
	Locale string
}

// DayGroup is one calendar day of events.
type DayGroup struct {
	Key    string
	Label  string
	Date   time.Time
	Events []domain.ScheduleEvent
}

// ParseTypeFilter resolves the user-facing filter value. all is reported as
// true for FilterAll and empty input.
func ParseTypeFilter(raw string) (t domain.EventType, all bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, FilterAll) {
		return "", true, nil
	}
	parsed, ok := domain.ParseEventType(raw)
	if !ok {
		verr := &domain.ValidationError{}
		verr.Add("type", "must be all or one of "+strings.Join(domain.EventTypeStrings(), ", "))
		return "", false, verr
	}
	return parsed, false, nil
}

// GroupByDay applies the type filter, then partitions events by the calendar
// day of their start time. Groups appear in order of first appearance and
// events keep their input order, so a timeline sorted by start time yields
// chronological groups.
func GroupByDay(events []domain.ScheduleEvent, opts Options) ([]DayGroup, error) {
	filter, all, err := ParseTypeFilter(opts.Type)
	if err != nil {
		return nil, err
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	lang := Language(opts.Locale)

	groups := []DayGroup{}
	index := map[string]int{}
	for _, e := range events {
		if !all && e.Type != filter {
			continue
		}
		local := e.StartTime.In(loc)
		key := local.Format(KeyLayout)
		i, ok := index[key]
		if !ok {
			day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
			groups = append(groups, DayGroup{Key: key, Label: DayLabel(day, lang), Date: day})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups, nil
}

var (
	supported = []language.Tag{language.English, language.Chinese}
	matcher   = language.NewMatcher(supported)
)

// Language maps a locale to the base language used for labels ("en" or "zh").
func Language(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return "en"
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[idx].Base()
	return base.String()
}

var zhWeekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// DayLabel renders a long date with weekday, e.g. "2026年10月15日星期四" or
// "Thursday, October 15, 2026".
func DayLabel(day time.Time, lang string) string {
	if lang == "zh" {
		return fmt.Sprintf("%d年%d月%d日%s", day.Year(), int(day.Month()), day.Day(), zhWeekdays[day.Weekday()])
	}
	return day.Format("Monday, January 2, 2006")
}
