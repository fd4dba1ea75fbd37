package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/postgres"
)

// HealthHandler reporta el estado de los dos almacenes. El modo fallback de la
// caché local no degrada el estado general: es una condición prevista.
type HealthHandler struct {
	store  *localdb.Store
	remote *postgres.SyncClient
}

// NewHealthHandler construye el handler de salud.
func NewHealthHandler(store *localdb.Store, remote *postgres.SyncClient) *HealthHandler {
	return &HealthHandler{store: store, remote: remote}
}

// Check responde 200 con el detalle de cada almacén; 503 solo si el backend
// remoto no responde.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	local := "ok"
	if h.store.Fallback() {
		local = "fallback"
	}
	remote := "ok"
	status := fiber.StatusOK
	if err := h.remote.Ping(c.Context()); err != nil {
		remote = "unreachable"
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"local":  local,
		"remote": remote,
	})
}
