package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/application/bootstrap"
)

// BootstrapHandler expone el arranque público (marca de empresa) y la carga
// de sesión autenticada.
type BootstrapHandler struct {
	loader *bootstrap.Loader
}

// NewBootstrapHandler construye el handler de arranque.
func NewBootstrapHandler(loader *bootstrap.Loader) *BootstrapHandler {
	return &BootstrapHandler{loader: loader}
}

// Public devuelve la lista de empresas para la pantalla pública. Nunca falla
// por un remoto caído: responde lo que haya en la caché local.
func (h *BootstrapHandler) Public(c *fiber.Ctx) error {
	companies, err := h.loader.LoadPublic(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"companies": companies})
}

// Session descarga el estado inicial de la sesión del usuario autenticado,
// tolerando fallos parciales, y dispara la migración de datos heredados si
// procede.
func (h *BootstrapHandler) Session(c *fiber.Ctx) error {
	snap := h.loader.LoadSession(c.Context(), GetCompanyID(c), GetUserID(c))
	return c.JSON(snap)
}
