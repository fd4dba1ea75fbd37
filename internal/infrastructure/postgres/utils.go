package postgres

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestor-pro/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mappingErr etiqueta un fallo de scan como error de mapeo fila->entidad.
func mappingErr(entityName string, err error) error {
	return &domain.MappingError{Entity: entityName, Field: "row", Err: err}
}

// jsonbArray serializa un slice de strings para una columna jsonb.
// nil se normaliza a lista vacía para no escribir NULL.
func jsonbArray(vals []string) []byte {
	if vals == nil {
		vals = []string{}
	}
	b, _ := json.Marshal(vals)
	return b
}

// scanStringArray decodifica una columna jsonb en un slice de strings.
// NULL remoto se normaliza a slice vacío.
func scanStringArray(entityName, field string, raw []byte, out *[]string) error {
	if len(raw) == 0 {
		*out = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.MappingError{Entity: entityName, Field: field, Err: err}
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}
