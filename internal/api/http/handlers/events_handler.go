package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chronoplan/internal/agenda"
	"github.com/spec-kit/chronoplan/internal/api/dto"
	"github.com/spec-kit/chronoplan/internal/calendar"
	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/service"
	apperrors "github.com/spec-kit/chronoplan/pkg/util/errorutil"
)

// EventsHandler exposes timeline reads and writes.
type EventsHandler struct {
	schedule *service.ScheduleService
	display  Display
	now      func() time.Time
}

// NewEventsHandler constructs handler.
func NewEventsHandler(schedule *service.ScheduleService, display Display) *EventsHandler {
	return &EventsHandler{schedule: schedule, display: display, now: time.Now}
}

// List handles GET /users/:id/events. Unknown users have an empty timeline.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events, err := h.schedule.ListEventsForUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(events, h.display.location(), h.display.language())})
}

// Agenda handles GET /users/:id/agenda?type=.
func (h *EventsHandler) Agenda(c *fiber.Ctx) error {
	userID := c.Params("id")
	events, err := h.schedule.ListEventsForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	filter := c.Query("type", agenda.FilterAll)
	locale := c.Query("locale", h.display.Locale)
	groups, err := agenda.GroupByDay(events, agenda.Options{
		Type:     filter,
		Location: h.display.location(),
		Locale:   locale,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AgendaResponse{
		UserID: userID,
		Type:   filter,
		Days:   dto.NewDayGroupResponses(groups, h.display.location(), agenda.Language(locale)),
	}})
}

// Create handles POST /users/:id/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	drafts, err := req.ToDrafts()
	if err != nil {
		return err
	}
	created, err := h.schedule.CreateEvents(c.UserContext(), c.Params("id"), drafts)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewEventResponses(created, h.display.location(), h.display.language()),
	})
}

// Delete handles DELETE /events/:id. Unknown ids succeed without effect.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.schedule.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Export handles GET /users/:id/events.ics.
func (h *EventsHandler) Export(c *fiber.Ctx) error {
	user, err := h.schedule.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	events, err := h.schedule.ListEventsForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, calendar.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", user.ID+".ics"))
	return c.Send(calendar.Render(*user, events, h.now()))
}

// Types handles GET /event-types.
func (h *EventsHandler) Types(c *fiber.Ctx) error {
	lang := agenda.Language(c.Query("locale", h.display.Locale))
	resp := make([]fiber.Map, 0, len(domain.EventTypes))
	for _, t := range domain.EventTypes {
		resp = append(resp, fiber.Map{"type": t, "label": t.Label(lang), "color": t.Color()})
	}
	return c.JSON(fiber.Map{"data": resp})
}
