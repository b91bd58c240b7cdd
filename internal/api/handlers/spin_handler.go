package handlers

import (
	"errors"
	"strconv"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/spin"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SpinHandler interface {
		Spin(c *fiber.Ctx) error
		History(c *fiber.Ctx) error
	}

	spinHandler struct {
		spinService spin.SpinService
		validator   *validator.Validate
	}
)

func NewSpinHandler(spinService spin.SpinService, validator *validator.Validate) SpinHandler {
	return &spinHandler{
		spinService: spinService,
		validator:   validator,
	}
}

func (h *spinHandler) Spin(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SpinRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSpin, err)
	}

	result, err := h.spinService.Spin(c.Context(), userID, c.Params("id"), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageTooManySpins, err)
		case errors.Is(err, domain.ErrMachineNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageMachineUnavailable, err)
		case errors.Is(err, domain.ErrMachineUnavailable), errors.Is(err, domain.ErrNoActiveConfiguration):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageMachineUnavailable, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSpin, err)
		}
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessSpin)
}

func (h *spinHandler) History(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	spins, err := h.spinService.History(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSpin, err)
	}

	return presenters.SuccessResponse(c, spins, fiber.StatusOK, domain.MessageSuccessSpin)
}
