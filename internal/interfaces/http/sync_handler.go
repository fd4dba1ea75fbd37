package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/application/sync"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// SyncHandler expone las escrituras dual-write del coordinador. Un fallo
// remoto en entidades no autoritativas no rompe la petición: la caché local ya
// quedó escrita y la respuesta es 200.
type SyncHandler struct {
	coord *sync.Coordinator
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(coord *sync.Coordinator) *SyncHandler {
	return &SyncHandler{coord: coord}
}

// saveBody parsea el cuerpo y fuerza que el id del path mande sobre el del body.
func saveBody[T any](c *fiber.Ctx, setID func(*T, string)) (*T, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if id := c.Params("id"); id != "" {
		setID(&in, id)
	}
	return &in, nil
}

// SaveCompany guarda una empresa (local primero, remoto mejor-esfuerzo).
func (h *SyncHandler) SaveCompany(c *fiber.Ctx) error {
	in, err := saveBody[entity.Company](c, func(e *entity.Company, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveCompany(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteCompany dispara la cascada completa de borrado de una empresa.
func (h *SyncHandler) DeleteCompany(c *fiber.Ctx) error {
	if err := h.coord.DeleteCompany(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveProject guarda un proyecto.
func (h *SyncHandler) SaveProject(c *fiber.Ctx) error {
	in, err := saveBody[entity.Project](c, func(e *entity.Project, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveProject(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteProject borra un proyecto y antes sus tareas.
func (h *SyncHandler) DeleteProject(c *fiber.Ctx) error {
	if err := h.coord.DeleteProject(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveTask guarda una tarea.
func (h *SyncHandler) SaveTask(c *fiber.Ctx) error {
	in, err := saveBody[entity.Task](c, func(e *entity.Task, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveTask(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteTask borra una tarea.
func (h *SyncHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.coord.DeleteTask(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveAccessoryTask guarda una tarea de calendario.
func (h *SyncHandler) SaveAccessoryTask(c *fiber.Ctx) error {
	in, err := saveBody[entity.AccessoryTask](c, func(e *entity.AccessoryTask, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveAccessoryTask(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteAccessoryTask borra una tarea de calendario.
func (h *SyncHandler) DeleteAccessoryTask(c *fiber.Ctx) error {
	if err := h.coord.DeleteAccessoryTask(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveUser guarda un perfil de usuario. La unicidad del email debe comprobarse
// antes con CheckEmail: la capa de sincronización no la garantiza por sí sola.
func (h *SyncHandler) SaveUser(c *fiber.Ctx) error {
	in, err := saveBody[entity.User](c, func(e *entity.User, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveUser(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteUser borra un perfil de usuario.
func (h *SyncHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.coord.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckEmail indica si un email está libre (query: email, exclude_user_id).
func (h *SyncHandler) CheckEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "VALIDATION", Message: "email es requerido"})
	}
	available, err := h.coord.CheckEmailAvailable(c.Context(), email, c.Query("exclude_user_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

// SaveRole guarda un rol. Autoritativo en la nube: un fallo remoto responde 502
// para que la UI revierta el cambio optimista.
func (h *SyncHandler) SaveRole(c *fiber.Ctx) error {
	in, err := saveBody[entity.UserRole](c, func(e *entity.UserRole, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveRole(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteRole borra un rol (autoritativo en la nube).
func (h *SyncHandler) DeleteRole(c *fiber.Ctx) error {
	if err := h.coord.DeleteRole(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveInvitation guarda una invitación (autoritativa en la nube).
func (h *SyncHandler) SaveInvitation(c *fiber.Ctx) error {
	in, err := saveBody[entity.Invitation](c, func(e *entity.Invitation, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveInvitation(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteInvitation borra una invitación (autoritativa en la nube).
func (h *SyncHandler) DeleteInvitation(c *fiber.Ctx) error {
	if err := h.coord.DeleteInvitation(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveResource guarda un recurso de ayuda (autoritativo en la nube).
func (h *SyncHandler) SaveResource(c *fiber.Ctx) error {
	in, err := saveBody[entity.HelpResource](c, func(e *entity.HelpResource, id string) { e.ID = id })
	if in == nil {
		return err
	}
	if err := h.coord.SaveResource(c.Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(in)
}

// DeleteResource borra un recurso de ayuda (autoritativo en la nube).
func (h *SyncHandler) DeleteResource(c *fiber.Ctx) error {
	if err := h.coord.DeleteResource(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordLog registra un evento de auditoría; empresa y usuario salen del token.
func (h *SyncHandler) RecordLog(c *fiber.Ctx) error {
	var in entity.ActivityLog
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CompanyID == "" {
		in.CompanyID = GetCompanyID(c)
	}
	if in.UserID == "" {
		in.UserID = GetUserID(c)
	}
	if err := h.coord.RecordLog(c.Context(), &in); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(in)
}
