package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chronoplan/internal/api/dto"
	"github.com/spec-kit/chronoplan/internal/service"
)

// UsersHandler exposes the switchable profiles.
type UsersHandler struct {
	schedule *service.ScheduleService
	activity *service.ActivityService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(schedule *service.ScheduleService, activity *service.ActivityService) *UsersHandler {
	return &UsersHandler{schedule: schedule, activity: activity}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.schedule.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.schedule.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Activity handles GET /users/:id/activity.
func (h *UsersHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	return c.JSON(fiber.Map{"data": h.activity.Recent(c.Params("id"), limit)})
}
