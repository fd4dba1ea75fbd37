package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

// Engine aplica la política de retención sobre los logs de auditoría en los
// dos almacenes. El barrido automático de 30 días vive en la caché local; este
// motor cubre la purga bajo demanda y la limpieza de filas inválidas.
//
// El escaneo local es fila a fila sobre los documentos crudos: una fila que no
// decodifica (timestamp ilegible, JSON corrupto importado por un respaldo) no
// aborta el cursor, se clasifica como inválida y la recoge CleanupInvalid.
type Engine struct {
	local  LocalStore
	remote RemoteStore
	log    *logger.Logger
}

// NewEngine construye el motor de retención.
func NewEngine(local LocalStore, remote RemoteStore, log *logger.Logger) *Engine {
	return &Engine{local: local, remote: remote, log: log}
}

// Purge borra de ambos almacenes los logs que cumplen el criterio. Un criterio
// vacío borra TODOS los logs válidos: el motor no impone ningún límite mínimo,
// y la ventana segura por defecto, si se desea, corresponde a la capa
// llamadora. Las filas locales que no decodifican se saltan con aviso (no hay
// timestamp contra el que evaluar el criterio); CleanupInvalid las elimina.
//
// Orden: primero local, luego remoto. Si el borrado remoto falla, el local ya
// se aplicó; se devuelve ErrPurgeRemote dejando una inconsistencia conocida
// entre almacenes. La purga es segura de reintentar: borrar una fila ya
// borrada es un no-op.
func (e *Engine) Purge(ctx context.Context, crit domain.PurgeCriteria) (int, error) {
	if crit.Empty() {
		e.log.Warn().Msg("purga sin filtros: se borrarán todos los logs")
	}

	docs, err := e.local.ListRaw(ctx, domain.ColLogs)
	if err != nil {
		return 0, fmt.Errorf("purga: leyendo logs locales: %w", err)
	}

	deleted := 0
	for _, d := range docs {
		var l entity.ActivityLog
		if err := json.Unmarshal(d.Data, &l); err != nil {
			e.log.Warn().Err(err).Str("log_id", d.ID).Msg("log local ilegible; lo recoge la limpieza")
			continue
		}
		if !crit.Matches(l) {
			continue
		}
		if err := e.local.Delete(ctx, domain.ColLogs, d.ID); err != nil {
			e.log.Warn().Err(err).Str("log_id", d.ID).Msg("no se pudo borrar el log local")
			continue
		}
		deleted++
	}

	if err := e.remote.DeleteLogsByCriteria(ctx, crit); err != nil {
		e.log.Error().Err(err).Int("local_deleted", deleted).
			Msg("purga remota fallida tras aplicar la local")
		return deleted, errors.Join(domain.ErrPurgeRemote, err)
	}

	e.log.Info().Int("local_deleted", deleted).
		Str("company_id", crit.CompanyID).Str("category", crit.Category).
		Msg("purga completada")
	return deleted, nil
}

// CleanupInvalid elimina los logs con timestamp ausente, cero o ilegible:
// escaneo fila a fila local y, en remoto, fetch de todos los logs seguido de
// un borrado masivo por ids. La estrategia remota es O(n) en el total de logs;
// aceptable solo porque la retención de 30 días ya acota el volumen.
// Idempotente: una segunda pasada no encuentra nada que borrar.
func (e *Engine) CleanupInvalid(ctx context.Context) (int, error) {
	docs, err := e.local.ListRaw(ctx, domain.ColLogs)
	if err != nil {
		return 0, fmt.Errorf("limpieza: leyendo logs locales: %w", err)
	}

	deleted := 0
	for _, d := range docs {
		var l entity.ActivityLog
		if err := json.Unmarshal(d.Data, &l); err == nil && !l.Timestamp.IsZero() {
			continue
		}
		if err := e.local.Delete(ctx, domain.ColLogs, d.ID); err != nil {
			e.log.Warn().Err(err).Str("log_id", d.ID).Msg("no se pudo borrar el log local inválido")
			continue
		}
		deleted++
	}

	remoteLogs, err := e.remote.ListAllLogs(ctx)
	if err != nil {
		return deleted, errors.Join(domain.ErrPurgeRemote, err)
	}
	var invalid []string
	for _, l := range remoteLogs {
		if l.Timestamp.IsZero() {
			invalid = append(invalid, l.ID)
		}
	}
	if len(invalid) > 0 {
		if err := e.remote.DeleteLogsByIDs(ctx, invalid); err != nil {
			return deleted, errors.Join(domain.ErrPurgeRemote, err)
		}
	}

	e.log.Info().Int("local_deleted", deleted).Int("remote_deleted", len(invalid)).
		Msg("limpieza de logs inválidos completada")
	return deleted + len(invalid), nil
}
