package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/service"
	"github.com/noah-isme/kelas-go-api/internal/utils"
)

// ResourceHandler wires module resource HTTP routes, including file uploads.
type ResourceHandler struct {
	service service.ResourceService
	logger  zerolog.Logger
}

// NewResourceHandler constructs the handler.
func NewResourceHandler(service service.ResourceService, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger.With().Str("component", "resource_handler").Logger(),
	}
}

// Register attaches resource endpoints. List/create live under the module
// scope; item mutations address the resource directly.
func (h *ResourceHandler) Register(modules, resources fiber.Router) {
	modules.Get("/:moduleId/resources", h.list)
	modules.Post("/:moduleId/resources", h.create)
	resources.Patch("/:id", h.update)
	resources.Delete("/:id", h.delete)
}

func (h *ResourceHandler) list(c *fiber.Ctx) error {
	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resources, err := h.service.ListByModule(c.Context(), moduleID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "resources retrieved", resources)
}

func (h *ResourceHandler) create(c *fiber.Ctx) error {
	moduleID, err := parseUintParam(c, "moduleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.ResourceCreateRequest{Title: c.FormValue("title")}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	resource, err := h.service.Create(c.Context(), moduleID, userIDFromContext(c), payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resource created", resource)
}

func (h *ResourceHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.ResourceUpdateRequest{}
	if title := c.FormValue("title"); title != "" {
		payload.Title = &title
	}

	resource, err := h.service.Update(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource updated", resource)
}

func (h *ResourceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resource deleted", fiber.Map{"id": id})
}

func (h *ResourceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrModuleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "module not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "not allowed to manage resources in this course")
	case errors.Is(err, service.ErrResourceTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ResourceHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
