package handlers

import (
	"errors"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/event"

	"github.com/gofiber/fiber/v2"
)

type (
	EventHandler interface {
		DailyCheckin(c *fiber.Ctx) error
		Status(c *fiber.Ctx) error
	}

	eventHandler struct {
		eventService event.EventService
	}
)

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandler{
		eventService: eventService,
	}
}

func (h *eventHandler) DailyCheckin(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	result, err := h.eventService.DailyCheckin(c.Context(), userID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			status = fiber.StatusConflict
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedCheckin, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessCheckin)
}

func (h *eventHandler) Status(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	status, err := h.eventService.Status(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEventStatus, err)
	}

	return presenters.SuccessResponse(c, status, fiber.StatusOK, domain.MessageSuccessEventStatus)
}
