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

// QuizAttemptHandler manages student quiz attempt endpoints.
type QuizAttemptHandler struct {
	service service.QuizAttemptService
	logger  zerolog.Logger
}

// NewQuizAttemptHandler builds a quiz attempt handler instance.
func NewQuizAttemptHandler(service service.QuizAttemptService, logger zerolog.Logger) *QuizAttemptHandler {
	return &QuizAttemptHandler{
		service: service,
		logger:  logger.With().Str("component", "quiz_attempt_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuizAttemptHandler) Register(router fiber.Router) {
	router.Post("", h.start)
	router.Post("/:id/answers", h.answer)
	router.Post("/:id/complete", h.complete)
	router.Get("/:id/result", h.result)
}

func (h *QuizAttemptHandler) start(c *fiber.Ctx) error {
	var payload dto.AttemptStartRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	attempt, err := h.service.Start(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attempt started", attempt)
}

func (h *QuizAttemptHandler) answer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AttemptAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	attempt, err := h.service.Answer(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer recorded", attempt)
}

func (h *QuizAttemptHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Complete(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempt completed", result)
}

func (h *QuizAttemptHandler) result(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Result(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempt result retrieved", result)
}

func (h *QuizAttemptHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrAttemptNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attempt not found")
	case errors.Is(err, service.ErrQuestionNotInQuiz):
		return utils.SendError(c, fiber.StatusBadRequest, "question does not belong to the quiz")
	case errors.Is(err, service.ErrAttemptCompleted):
		return utils.SendError(c, fiber.StatusConflict, "attempt already completed")
	case errors.Is(err, service.ErrQuizNotPublished):
		return utils.SendError(c, fiber.StatusConflict, "quiz is not open for attempts")
	case errors.Is(err, service.ErrQuizExpired):
		return utils.SendError(c, fiber.StatusConflict, "quiz deadline has passed")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
