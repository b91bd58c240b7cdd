package handlers

import (
	"errors"
	"strconv"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PaymentHandler interface {
		GetPackages(c *fiber.Ctx) error
		CreateOrder(c *fiber.Ctx) error
		Webhook(c *fiber.Ctx) error
		ListOrders(c *fiber.Ctx) error
	}

	paymentHandler struct {
		paymentService payment.PaymentService
		validator      *validator.Validate
	}
)

func NewPaymentHandler(paymentService payment.PaymentService, validator *validator.Validate) PaymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
		validator:      validator,
	}
}

func (h *paymentHandler) GetPackages(c *fiber.Ctx) error {
	packages := h.paymentService.GetPackages(c.Context())
	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetPackages)
}

func (h *paymentHandler) CreateOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateOrder, err)
	}

	resp, err := h.paymentService.CreateOrder(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateOrder, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessCreateOrder)
}

func (h *paymentHandler) Webhook(c *fiber.Ctx) error {
	req := new(domain.PaymentWebhookRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
	}

	resp, err := h.paymentService.Webhook(c.Context(), c.Get("X-Webhook-Signature"), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedWebhook, err)
		case errors.Is(err, domain.ErrOrderNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedWebhook, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
		}
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessWebhook)
}

func (h *paymentHandler) ListOrders(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	orders, err := h.paymentService.ListOrders(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPackages, err)
	}

	return presenters.SuccessResponse(c, orders, fiber.StatusOK, domain.MessageSuccessGetPackages)
}
