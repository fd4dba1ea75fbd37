package domain

import (
	"time"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// PurgeCriteria filtros opcionales para la purga de logs de auditoría.
// Todos los campos son opcionales e independientes; un criterio vacío coincide
// con TODOS los logs. El motor no exige al menos un límite: ese salvaguardo,
// si se quiere, pertenece a la capa llamadora.
type PurgeCriteria struct {
	CompanyID string     // vacío = cualquier empresa
	Category  string     // vacío o "all" = cualquier categoría de acción
	StartDate *time.Time // nil = sin límite inferior
	EndDate   *time.Time // nil = sin límite superior
}

// CategoryAll coincide explícitamente con todas las categorías.
const CategoryAll = "all"

// Matches indica si un log cumple el criterio: (companyId ausente O igual) Y
// (categoría ausente O 'all' O igual) Y (timestamp dentro de los límites
// opcionales, cada lado independiente).
func (c PurgeCriteria) Matches(l entity.ActivityLog) bool {
	if c.CompanyID != "" && l.CompanyID != c.CompanyID {
		return false
	}
	if c.Category != "" && c.Category != CategoryAll && l.Action != c.Category {
		return false
	}
	if c.StartDate != nil && l.Timestamp.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && l.Timestamp.After(*c.EndDate) {
		return false
	}
	return true
}

// Empty indica que el criterio no restringe nada (purgaría todos los logs).
func (c PurgeCriteria) Empty() bool {
	return c.CompanyID == "" &&
		(c.Category == "" || c.Category == CategoryAll) &&
		c.StartDate == nil && c.EndDate == nil
}
