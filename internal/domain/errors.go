package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// ErrStorageUnavailable: el motor embebido no pudo abrirse y el adaptador
	// local opera en modo fallback. La sincronización tolera ese modo; las
	// operaciones de respaldo no, porque exportarían/restaurarían al vacío.
	ErrStorageUnavailable = errors.New("almacén local no disponible")

	// ErrRemoteSync: fallo de red o validación en un upsert/delete remoto.
	// Siempre se registra; solo se propaga para entidades autoritativas en la nube.
	ErrRemoteSync = errors.New("fallo de sincronización remota")

	// ErrMigrationFailed: fallo parcial del batch de migración legada.
	// Se notifica una sola vez de forma agregada; no hay reintento automático.
	ErrMigrationFailed = errors.New("migración de datos locales fallida")

	// ErrPurgeRemote: el borrado remoto falló después de aplicar el borrado local,
	// dejando una inconsistencia conocida entre almacenes.
	ErrPurgeRemote = errors.New("purga remota fallida tras purga local")
)

// MappingError señala que una fila del almacén no pudo convertirse a su entidad.
// Sustituye la adivinanza de nombres de campo por un resultado etiquetado.
type MappingError struct {
	Entity string
	Field  string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapeo de %s (campo %s): %v", e.Entity, e.Field, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
