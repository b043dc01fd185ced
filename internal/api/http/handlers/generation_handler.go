package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chronoplan/internal/api/dto"
	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/service"
	apperrors "github.com/spec-kit/chronoplan/pkg/util/errorutil"
)

// SessionHeader identifies the interactive session issuing a generation.
const SessionHeader = "X-Session-ID"

// GenerationHandler exposes the prompt to timeline flow.
type GenerationHandler struct {
	generation *service.GenerationService
	display    Display
}

// NewGenerationHandler constructs handler.
func NewGenerationHandler(generation *service.GenerationService, display Display) *GenerationHandler {
	return &GenerationHandler{generation: generation, display: display}
}

// Generate handles POST /users/:id/generate.
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sessionID := c.Get(SessionHeader)

	result, err := h.generation.Generate(c.UserContext(), sessionID, c.Params("id"), req.Prompt)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationInProgress) {
			return apperrors.NewGenerationInProgress(sessionID)
		}
		return err
	}

	loc, lang := h.display.location(), h.display.language()
	return c.JSON(fiber.Map{"data": dto.GenerationResponse{
		Created:  dto.NewEventResponses(result.Created, loc, lang),
		Timeline: dto.NewEventResponses(result.Timeline, loc, lang),
		Status:   dto.NewGenerationStatusResponse(result.Status),
	}})
}

// Status handles GET /sessions/:id/generation.
func (h *GenerationHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewGenerationStatusResponse(h.generation.Status(c.Params("id")))})
}
