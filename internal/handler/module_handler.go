package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/service"
	"github.com/noah-isme/kelas-go-api/internal/utils"
)

// ModuleHandler wires course module HTTP routes.
type ModuleHandler struct {
	service service.ModuleService
	logger  zerolog.Logger
}

// NewModuleHandler constructs the handler.
func NewModuleHandler(service service.ModuleService, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		service: service,
		logger:  logger.With().Str("component", "module_handler").Logger(),
	}
}

// Register attaches module endpoints. List/create live under the course
// scope; item mutations address the module directly.
func (h *ModuleHandler) Register(courses, modules fiber.Router) {
	courses.Get("/:courseId/modules", h.list)
	courses.Post("/:courseId/modules", h.create)
	modules.Patch("/:id", h.update)
	modules.Delete("/:id", h.delete)
}

func (h *ModuleHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	modules, err := h.service.ListByCourse(c.Context(), courseID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "modules retrieved", modules)
}

func (h *ModuleHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.Create(c.Context(), courseID, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module created", module)
}

func (h *ModuleHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModuleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.Update(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "module updated", module)
}

func (h *ModuleHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "module deleted", fiber.Map{"id": id})
}

func (h *ModuleHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrModuleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "module not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "not allowed to manage modules in this course")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ModuleHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
