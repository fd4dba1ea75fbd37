package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-pro/internal/domain"
)

// ErrorResponse cuerpo JSON de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fail mapea los errores del dominio a códigos HTTP. Los fallos de
// sincronización remota llegan aquí solo para el subconjunto autoritativo; el
// resto se traga en el coordinador y la petición responde 200.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "EMAIL_TAKEN", Message: "el email ya está en uso"})
	case errors.Is(err, domain.ErrRemoteSync):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Code: "REMOTE_SYNC", Message: "el backend remoto rechazó la operación"})
	case errors.Is(err, domain.ErrMigrationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Code: "MIGRATION_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrPurgeRemote):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Code: "PURGE_REMOTE", Message: "purga local aplicada; la remota falló"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Code: "LOCAL_STORE_UNAVAILABLE", Message: "el almacén local opera en modo degradado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
