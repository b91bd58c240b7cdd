package handlers

import (
	"strconv"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	WalletHandler interface {
		GetBalance(c *fiber.Ctx) error
		LedgerHistory(c *fiber.Ctx) error
		AdjustPoints(c *fiber.Ctx) error
	}

	walletHandler struct {
		walletService wallet.WalletService
		validator     *validator.Validate
	}
)

func NewWalletHandler(walletService wallet.WalletService, validator *validator.Validate) WalletHandler {
	return &walletHandler{
		walletService: walletService,
		validator:     validator,
	}
}

func (h *walletHandler) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	balance, err := h.walletService.GetBalance(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWallet, err)
	}

	return presenters.SuccessResponse(c, balance, fiber.StatusOK, domain.MessageSuccessGetWallet)
}

func (h *walletHandler) LedgerHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	cursor := c.Query("cursor")
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	history, err := h.walletService.LedgerHistory(c.Context(), userID, cursor, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetLedgerHistory, err)
	}

	return presenters.SuccessResponse(c, history, fiber.StatusOK, domain.MessageSuccessGetLedgerHistory)
}

func (h *walletHandler) AdjustPoints(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)
	targetID := c.Params("user_id")

	req := new(domain.AdjustPointsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAdjustPoints, err)
	}

	if err := h.walletService.AdjustPoints(c.Context(), targetID, *req, actorID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAdjustPoints, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessAdjustPoints)
}
