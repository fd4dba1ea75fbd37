package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

// Runner ejecuta la migración única de datos heredados que solo existen en la
// caché local hacia el backend remoto. Se dispara durante el bootstrap
// autenticado cuando la lista remota de proyectos está vacía y la local no.
type Runner struct {
	local  LocalStore
	remote RemoteStore
	log    *logger.Logger
}

// NewRunner construye el runner de migración.
func NewRunner(local LocalStore, remote RemoteStore, log *logger.Logger) *Runner {
	return &Runner{local: local, remote: remote, log: log}
}

// DoneFlag devuelve la clave del marcador local de finalización por usuario.
func DoneFlag(userID string) string {
	return "migration_done_" + userID
}

// Run comprueba el disparador y, si procede, sube por lotes los proyectos,
// tareas y tareas de calendario locales de la empresa. Devuelve true solo si
// se migraron datos. Es idempotente: el marcador evita llamadas de red en
// logins posteriores, y aun sin marcador la igualdad de ids en los upserts
// impide filas duplicadas.
//
// No hay reintento automático: un fallo parcial devuelve un único error
// agregado y requiere recargar la sesión.
func (r *Runner) Run(ctx context.Context, companyID, userID string) (bool, error) {
	if _, done, err := r.local.GetFlag(ctx, DoneFlag(userID)); err == nil && done {
		return false, nil
	}

	remoteProjects, err := r.remote.ListProjectsByCompany(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("migración: comprobando proyectos remotos: %w", err)
	}
	if len(remoteProjects) > 0 {
		// El remoto ya tiene datos: no hay nada heredado que subir.
		r.markDone(ctx, userID)
		return false, nil
	}

	var projects []entity.Project
	if err := r.local.ListByIndex(ctx, domain.ColProjects, "company_id", companyID, &projects); err != nil {
		return false, fmt.Errorf("migración: leyendo proyectos locales: %w", err)
	}
	if len(projects) == 0 {
		// Atajo idempotente: sin datos locales la migración termina aquí.
		r.markDone(ctx, userID)
		return false, nil
	}

	var tasks []entity.Task
	if err := r.local.ListByIndex(ctx, domain.ColTasks, "company_id", companyID, &tasks); err != nil {
		return false, fmt.Errorf("migración: leyendo tareas locales: %w", err)
	}
	var accessories []entity.AccessoryTask
	if err := r.local.ListByIndex(ctx, domain.ColAccessoryTasks, "company_id", companyID, &accessories); err != nil {
		return false, fmt.Errorf("migración: leyendo tareas de calendario locales: %w", err)
	}

	r.log.Info().
		Str("company_id", companyID).
		Int("projects", len(projects)).
		Int("tasks", len(tasks)).
		Int("accessory_tasks", len(accessories)).
		Msg("iniciando migración de datos heredados")

	var failures []error
	for i := range projects {
		if err := r.remote.UpsertProject(ctx, &projects[i]); err != nil {
			failures = append(failures, fmt.Errorf("proyecto %s: %w", projects[i].ID, err))
		}
	}
	for i := range tasks {
		if err := r.remote.UpsertTask(ctx, &tasks[i]); err != nil {
			failures = append(failures, fmt.Errorf("tarea %s: %w", tasks[i].ID, err))
		}
	}
	for i := range accessories {
		if err := r.remote.UpsertAccessoryTask(ctx, &accessories[i]); err != nil {
			failures = append(failures, fmt.Errorf("tarea de calendario %s: %w", accessories[i].ID, err))
		}
	}

	if len(failures) > 0 {
		err := errors.Join(append([]error{domain.ErrMigrationFailed}, failures...)...)
		r.log.Error().Err(err).Str("company_id", companyID).
			Int("failed", len(failures)).Msg("migración con fallos parciales")
		return false, err
	}

	r.markDone(ctx, userID)
	r.log.Info().Str("company_id", companyID).Str("user_id", userID).
		Msg("migración completada")
	return true, nil
}

// markDone escribe el marcador local; si falla, la migración simplemente se
// reevaluará en el siguiente login como sobrescritura inocua.
func (r *Runner) markDone(ctx context.Context, userID string) {
	if err := r.local.SetFlag(ctx, DoneFlag(userID), "1"); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).
			Msg("no se pudo guardar el marcador de migración")
	}
}
