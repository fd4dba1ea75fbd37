package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/application/backup"
	"github.com/jhoicas/gestor-pro/internal/application/bootstrap"
	"github.com/jhoicas/gestor-pro/internal/application/migration"
	"github.com/jhoicas/gestor-pro/internal/application/retention"
	"github.com/jhoicas/gestor-pro/internal/application/sync"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/postgres"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *sync.Coordinator
	Loader      *bootstrap.Loader
	Retention   *retention.Engine
	Migrator    *migration.Runner
	Backup      *backup.Service
	LocalStore  *localdb.Store
	SyncClient  *postgres.SyncClient
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.LocalStore, deps.SyncClient)
	app.Get("/health", health.Check)

	api := app.Group("/api")

	// Arranque público (marca de la empresa, sin token)
	bootstrapHandler := NewBootstrapHandler(deps.Loader)
	api.Get("/public/branding", bootstrapHandler.Public)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/session", bootstrapHandler.Session)

	syncHandler := NewSyncHandler(deps.Coordinator)

	companies := protected.Group("/companies")
	companies.Put("/:id", syncHandler.SaveCompany)
	companies.Delete("/:id", syncHandler.DeleteCompany)

	projects := protected.Group("/projects")
	projects.Put("/:id", syncHandler.SaveProject)
	projects.Delete("/:id", syncHandler.DeleteProject)

	tasks := protected.Group("/tasks")
	tasks.Put("/:id", syncHandler.SaveTask)
	tasks.Delete("/:id", syncHandler.DeleteTask)

	accessory := protected.Group("/accessory-tasks")
	accessory.Put("/:id", syncHandler.SaveAccessoryTask)
	accessory.Delete("/:id", syncHandler.DeleteAccessoryTask)

	users := protected.Group("/users")
	users.Get("/check-email", syncHandler.CheckEmail)
	users.Put("/:id", syncHandler.SaveUser)
	users.Delete("/:id", syncHandler.DeleteUser)

	roles := protected.Group("/roles")
	roles.Put("/:id", syncHandler.SaveRole)
	roles.Delete("/:id", syncHandler.DeleteRole)

	invitations := protected.Group("/invitations")
	invitations.Put("/:id", syncHandler.SaveInvitation)
	invitations.Delete("/:id", syncHandler.DeleteInvitation)

	resources := protected.Group("/resources")
	resources.Put("/:id", syncHandler.SaveResource)
	resources.Delete("/:id", syncHandler.DeleteResource)

	logs := protected.Group("/logs")
	logs.Post("/", syncHandler.RecordLog)

	// Mantenimiento: purga, limpieza, migración y respaldo
	maintenance := NewMaintenanceHandler(deps.Retention, deps.Migrator, deps.Backup)
	logs.Post("/purge", maintenance.Purge)
	logs.Post("/cleanup", maintenance.Cleanup)
	protected.Post("/migration/run", maintenance.RunMigration)
	protected.Get("/backup", maintenance.ExportBackup)
	protected.Post("/backup", maintenance.ImportBackup)
}
