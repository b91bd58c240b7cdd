package handlers

import (
	"errors"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/presenters"
	"Pointspin-Backend/pkg/machine"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MachineHandler interface {
		ListMachines(c *fiber.Ctx) error
		GetMachine(c *fiber.Ctx) error
		CreateMachine(c *fiber.Ctx) error
		UpdateMachine(c *fiber.Ctx) error
		CreateVersion(c *fiber.Ctx) error
		ListVersions(c *fiber.Ctx) error
		GetVersion(c *fiber.Ctx) error
		PublishVersion(c *fiber.Ctx) error
	}

	machineHandler struct {
		machineService machine.MachineService
		validator      *validator.Validate
	}
)

func NewMachineHandler(machineService machine.MachineService, validator *validator.Validate) MachineHandler {
	return &machineHandler{
		machineService: machineService,
		validator:      validator,
	}
}

func machineErrStatus(err error) int {
	if errors.Is(err, domain.ErrMachineNotFound) || errors.Is(err, domain.ErrVersionNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

func (h *machineHandler) ListMachines(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"

	machines, err := h.machineService.ListMachines(c.Context(), activeOnly)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMachines, err)
	}

	return presenters.SuccessResponse(c, machines, fiber.StatusOK, domain.MessageSuccessGetMachines)
}

func (h *machineHandler) GetMachine(c *fiber.Ctx) error {
	summary, err := h.machineService.GetMachine(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedGetMachine, err)
	}

	detail := fiber.Map{"machine": summary}
	if _, version, err := h.machineService.ActiveConfiguration(c.Context(), c.Params("id")); err == nil {
		detail["active_version"] = fiber.Map{
			"id":             version.ID,
			"version_number": version.VersionNumber,
			"published_at":   version.PublishedAt,
		}
	}

	return presenters.SuccessResponse(c, detail, fiber.StatusOK, domain.MessageSuccessGetMachine)
}

func (h *machineHandler) CreateMachine(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	req := new(domain.CreateMachineRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMachine, err)
	}

	summary, err := h.machineService.CreateMachine(c.Context(), *req, actorID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMachine, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusCreated, domain.MessageSuccessCreateMachine)
}

func (h *machineHandler) UpdateMachine(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	req := new(domain.UpdateMachineRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMachine, err)
	}

	summary, err := h.machineService.UpdateMachine(c.Context(), c.Params("id"), *req, actorID)
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedUpdateMachine, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, domain.MessageSuccessUpdateMachine)
}

func (h *machineHandler) CreateVersion(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	req := new(domain.CreateProbabilityVersionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateVersion, err)
	}

	version, err := h.machineService.CreateDraft(c.Context(), c.Params("id"), *req, actorID)
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedCreateVersion, err)
	}

	return presenters.SuccessResponse(c, version, fiber.StatusCreated, domain.MessageSuccessCreateVersion)
}

func (h *machineHandler) ListVersions(c *fiber.Ctx) error {
	versions, err := h.machineService.ListVersions(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedGetMachine, err)
	}

	return presenters.SuccessResponse(c, versions, fiber.StatusOK, domain.MessageSuccessGetMachine)
}

func (h *machineHandler) GetVersion(c *fiber.Ctx) error {
	version, err := h.machineService.GetVersion(c.Context(), c.Params("version_id"))
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedGetMachine, err)
	}

	return presenters.SuccessResponse(c, version, fiber.StatusOK, domain.MessageSuccessGetMachine)
}

func (h *machineHandler) PublishVersion(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)

	result, err := h.machineService.Publish(c.Context(), c.Params("id"), c.Params("version_id"), actorID)
	if err != nil {
		return presenters.ErrorResponse(c, machineErrStatus(err), domain.MessageFailedPublishVersion, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessPublishVersion)
}
