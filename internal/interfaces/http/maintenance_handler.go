package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/application/backup"
	"github.com/jhoicas/gestor-pro/internal/application/migration"
	"github.com/jhoicas/gestor-pro/internal/application/retention"
	"github.com/jhoicas/gestor-pro/internal/domain"
)

// MaintenanceHandler agrupa las operaciones administrativas: purga y limpieza
// de logs, migración de datos heredados y respaldo de la caché local.
type MaintenanceHandler struct {
	retention *retention.Engine
	migrator  *migration.Runner
	backup    *backup.Service
}

// NewMaintenanceHandler construye el handler de mantenimiento.
func NewMaintenanceHandler(ret *retention.Engine, mig *migration.Runner, bak *backup.Service) *MaintenanceHandler {
	return &MaintenanceHandler{retention: ret, migrator: mig, backup: bak}
}

// purgeRequest cuerpo de la petición de purga. Todos los campos son
// opcionales; sin filtros se borran TODOS los logs (no hay ventana segura por
// defecto: ese salvaguardo es una decisión de producto pendiente).
type purgeRequest struct {
	Category     string     `json:"category"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	AllCompanies bool       `json:"allCompanies"`
}

// Purge borra los logs que cumplen el criterio en ambos almacenes. Por defecto
// la purga se limita a la empresa del token; allCompanies la amplía.
func (h *MaintenanceHandler) Purge(c *fiber.Ctx) error {
	var in purgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	crit := domain.PurgeCriteria{
		Category:  in.Category,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if !in.AllCompanies {
		crit.CompanyID = GetCompanyID(c)
	}
	deleted, err := h.retention.Purge(c.Context(), crit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"localDeleted": deleted})
}

// Cleanup elimina los logs con timestamp ausente, cero o ilegible en ambos
// almacenes.
func (h *MaintenanceHandler) Cleanup(c *fiber.Ctx) error {
	deleted, err := h.retention.CleanupInvalid(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// RunMigration fuerza la comprobación de migración de datos heredados para la
// empresa y usuario del token.
func (h *MaintenanceHandler) RunMigration(c *fiber.Ctx) error {
	migrated, err := h.migrator.Run(c.Context(), GetCompanyID(c), GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"migrated": migrated})
}

// ExportBackup descarga un respaldo JSON de todas las colecciones locales.
func (h *MaintenanceHandler) ExportBackup(c *fiber.Ctx) error {
	data, err := h.backup.Export(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="gestor-pro-backup.json"`)
	return c.Send(data)
}

// ImportBackup restaura un respaldo sobre la caché local únicamente: no
// re-empuja nada al backend remoto, por lo que la convergencia remota no queda
// garantizada tras restaurar.
func (h *MaintenanceHandler) ImportBackup(c *fiber.Ctx) error {
	restored, err := h.backup.Import(c.Context(), c.Body())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"restored": restored})
}
