package persistence

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/chronoplan/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedFile is the YAML layout of a seed fixture. Event times are wall-clock
// hours on a day relative to the seeding date.
type SeedFile struct {
	Users  []SeedUser  `yaml:"users"`
	Events []SeedEvent `yaml:"events"`
}

// SeedUser describes a profile.
type SeedUser struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Avatar     string `yaml:"avatar"`
	Bio        string `yaml:"bio"`
	ThemeColor string `yaml:"theme_color"`
}

// SeedEvent describes an event pinned to DayOffset days after the seeding date.
type SeedEvent struct {
	ID          string `yaml:"id"`
	UserID      string `yaml:"user_id"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	DayOffset   int    `yaml:"day_offset"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
}

// LoadSeed populates db from the YAML fixture at path, or from the built-in
// fixture when path is empty. now anchors day offsets in loc.
func LoadSeed(db *MemoryDB, path string, now time.Time, loc *time.Location, logger *zap.Logger) error {
	data := defaultSeed
	source := "embedded"
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed %s: %w", path, err)
		}
		data = content
		source = path
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse seed %s: %w", source, err)
	}

	users, events, err := file.materialize(now, loc)
	if err != nil {
		return fmt.Errorf("seed %s: %w", source, err)
	}

	if err := db.Update(func(t *Tables) error {
		t.Users = append(t.Users, users...)
		t.Events = append(t.Events, events...)
		return nil
	}); err != nil {
		return err
	}

	logger.Info("seed loaded",
		zap.String("source", source),
		zap.Int("users", len(users)),
		zap.Int("events", len(events)))
	return nil
}

func (f SeedFile) materialize(now time.Time, loc *time.Location) ([]domain.User, []domain.ScheduleEvent, error) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	known := make(map[string]bool, len(f.Users))
	users := make([]domain.User, 0, len(f.Users))
	for _, u := range f.Users {
		if u.ID == "" {
			return nil, nil, fmt.Errorf("user without id")
		}
		if known[u.ID] {
			return nil, nil, fmt.Errorf("duplicate user id %q", u.ID)
		}
		known[u.ID] = true
		users = append(users, domain.User{
			ID:         u.ID,
			Name:       u.Name,
			Role:       u.Role,
			Avatar:     u.Avatar,
			Bio:        u.Bio,
			ThemeColor: u.ThemeColor,
		})
	}

	seen := make(map[string]bool, len(f.Events))
	events := make([]domain.ScheduleEvent, 0, len(f.Events))
	for i, e := range f.Events {
		if e.ID == "" || seen[e.ID] {
			return nil, nil, fmt.Errorf("event %d: missing or duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
		if !known[e.UserID] {
			return nil, nil, fmt.Errorf("event %s: %w: %s", e.ID, domain.ErrUserNotFound, e.UserID)
		}
		day := midnight.AddDate(0, 0, e.DayOffset)
		start, err := clockOn(day, e.Start)
		if err != nil {
			return nil, nil, fmt.Errorf("event %s start: %w", e.ID, err)
		}
		end, err := clockOn(day, e.End)
		if err != nil {
			return nil, nil, fmt.Errorf("event %s end: %w", e.ID, err)
		}
		eventType, _ := domain.ParseEventType(e.Type)
		draft := domain.DraftEvent{
			Title:       e.Title,
			Type:        eventType,
			StartTime:   start,
			EndTime:     end,
			Location:    e.Location,
			Description: e.Description,
		}
		if err := draft.Validate(); err != nil {
			return nil, nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		events = append(events, domain.ScheduleEvent{
			ID:          e.ID,
			UserID:      e.UserID,
			Title:       draft.Title,
			Type:        draft.Type,
			StartTime:   draft.StartTime,
			EndTime:     draft.EndTime,
			Location:    draft.Location,
			Description: draft.Description,
		})
	}
	return users, events, nil
}

func clockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
