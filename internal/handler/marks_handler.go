package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/service"
	"github.com/gradehub/gradehub-api/internal/utils"
)

// MarksHandler manages marks endpoints.
type MarksHandler struct {
	service service.MarksService
	logger  zerolog.Logger
}

// NewMarksHandler builds a marks handler instance.
func NewMarksHandler(service service.MarksService, logger zerolog.Logger) *MarksHandler {
	return &MarksHandler{
		service: service,
		logger:  logger.With().Str("component", "marks_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *MarksHandler) Register(router fiber.Router) {
	router.Get("/:enrollmentNo", h.get)
	router.Patch("", h.patch)
}

func (h *MarksHandler) get(c *fiber.Ctx) error {
	enrollmentNo := c.Params("enrollmentNo")
	if enrollmentNo == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "enrollment number is required")
	}

	marks, err := h.service.Get(c.Context(), enrollmentNo)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "marks retrieved", marks)
}

func (h *MarksHandler) patch(c *fiber.Ctx) error {
	var payload dto.MarksPatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	marks, err := h.service.Patch(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "marks updated", marks)
}

func (h *MarksHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrMarksNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "marks not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
