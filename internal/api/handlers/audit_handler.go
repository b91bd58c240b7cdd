package handlers

import (
	"strconv"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/audit"

	"github.com/gofiber/fiber/v2"
)

type (
	AuditHandler interface {
		History(c *fiber.Ctx) error
	}

	auditHandler struct {
		auditService audit.AuditService
	}
)

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandler{
		auditService: auditService,
	}
}

func (h *auditHandler) History(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	logs, err := h.auditService.History(c.Context(), c.Query("target_type"), c.Query("target_id"), limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAuditLogs, err)
	}

	return presenters.SuccessResponse(c, logs, fiber.StatusOK, domain.MessageSuccessGetAuditLogs)
}
