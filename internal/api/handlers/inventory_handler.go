package handlers

import (
	"errors"
	"strconv"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/inventory"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InventoryHandler interface {
		ListInventory(c *fiber.Ctx) error
		Equip(c *fiber.Ctx) error
		ListEquips(c *fiber.Ctx) error
		ListRewards(c *fiber.Ctx) error
		CreateReward(c *fiber.Ctx) error
		UpdateReward(c *fiber.Ctx) error
		UploadRewardImage(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) ListInventory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	cursor := c.Query("cursor")
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	list, err := h.inventoryService.ListInventory(c.Context(), userID, c.Query("rarity"), cursor, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, list, fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) Equip(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.EquipRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEquip, err)
	}

	if err := h.inventoryService.Equip(c.Context(), userID, *req); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrItemNotOwned) {
			status = fiber.StatusForbidden
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedEquip, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessEquip)
}

func (h *inventoryHandler) ListEquips(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	equips, err := h.inventoryService.ListEquips(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEquips, err)
	}

	return presenters.SuccessResponse(c, equips, fiber.StatusOK, domain.MessageSuccessGetEquips)
}

func (h *inventoryHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.inventoryService.ListRewards(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, rewards, fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) CreateReward(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	req := new(domain.CreateRewardRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReward, err)
	}

	reward, err := h.inventoryService.CreateReward(c.Context(), *req, actorID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReward, err)
	}

	return presenters.SuccessResponse(c, reward, fiber.StatusCreated, domain.MessageSuccessCreateReward)
}

func (h *inventoryHandler) UpdateReward(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	req := new(domain.UpdateRewardRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateReward, err)
	}

	reward, err := h.inventoryService.UpdateReward(c.Context(), c.Params("id"), *req, actorID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrRewardNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedUpdateReward, err)
	}

	return presenters.SuccessResponse(c, reward, fiber.StatusOK, domain.MessageSuccessUpdateReward)
}

func (h *inventoryHandler) UploadRewardImage(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	reward, err := h.inventoryService.UploadRewardImage(c.Context(), c.Params("id"), file, actorID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrRewardNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, reward, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
