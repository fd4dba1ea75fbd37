package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

// Coordinator orquesta la escritura dual "local primero, réplica remota
// best-effort" y los borrados en cascada ordenados.
//
// Máquina de estados por escritura lógica:
//   LocalWritten -> RemoteAttempted -> {RemoteAcked | RemoteFailed}
//
// La escritura local se completa (o no-opera en modo fallback) antes de emitir
// la llamada remota, y nunca se revierte si la réplica falla. Para la mayoría
// de entidades un RemoteFailed se registra y se traga (la caché local manda
// durante la sesión); para el subconjunto autoritativo en la nube (roles,
// invitaciones, recursos de ayuda) el fallo se propaga al llamador para que la
// UI optimista pueda revertir.
//
// Escrituras concurrentes sobre el mismo id no están serializadas: dos
// ediciones rápidas pueden resolver sus upserts remotos fuera de orden y gana
// la última en resolver (last-write-wins asumido, no ordenación garantizada).
type Coordinator struct {
	local   LocalStore
	remote  RemoteStore
	log     *logger.Logger
	onEvent EventFunc
}

// NewCoordinator construye el coordinador dual-write.
func NewCoordinator(local LocalStore, remote RemoteStore, log *logger.Logger) *Coordinator {
	return &Coordinator{local: local, remote: remote, log: log}
}

// OnEvent registra el suscriptor de eventos estructurados del coordinador.
func (c *Coordinator) OnEvent(fn EventFunc) { c.onEvent = fn }

func (c *Coordinator) emit(ev Event) {
	if c.onEvent != nil {
		c.onEvent(ev)
	}
}

// save aplica la escritura dual para una entidad: local primero, remoto después.
func (c *Coordinator) save(ctx context.Context, col, entityName, id string, doc any, remote func(context.Context) error, authoritative bool) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := c.local.Put(ctx, col, id, doc); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return err
		}
		// Fallo local tragado por diseño: la caché nunca bloquea la operación.
		c.log.Warn().Err(err).Str("entity", entityName).Str("id", id).Msg("escritura local fallida")
	}
	c.emit(Event{Entity: entityName, ID: id, Op: OpUpsert, State: StateLocalWritten})

	if err := remote(ctx); err != nil {
		c.log.Error().Err(err).Str("entity", entityName).Str("id", id).Msg("réplica remota fallida")
		c.emit(Event{Entity: entityName, ID: id, Op: OpUpsert, State: StateRemoteFailed, Err: err})
		if authoritative {
			return errors.Join(domain.ErrRemoteSync, err)
		}
		return nil
	}
	c.emit(Event{Entity: entityName, ID: id, Op: OpUpsert, State: StateRemoteAcked})
	return nil
}

// delete aplica el borrado dual: local primero, remoto después.
func (c *Coordinator) delete(ctx context.Context, col, entityName, id string, remote func(context.Context) error, authoritative bool) error {
	if err := c.local.Delete(ctx, col, id); err != nil {
		c.log.Warn().Err(err).Str("entity", entityName).Str("id", id).Msg("borrado local fallido")
	}
	c.emit(Event{Entity: entityName, ID: id, Op: OpDelete, State: StateLocalWritten})

	if err := remote(ctx); err != nil {
		c.log.Error().Err(err).Str("entity", entityName).Str("id", id).Msg("borrado remoto fallido")
		c.emit(Event{Entity: entityName, ID: id, Op: OpDelete, State: StateRemoteFailed, Err: err})
		if authoritative {
			return errors.Join(domain.ErrRemoteSync, err)
		}
		return nil
	}
	c.emit(Event{Entity: entityName, ID: id, Op: OpDelete, State: StateRemoteAcked})
	return nil
}

// SaveCompany persiste una empresa (caché local autoritativa ante fallo remoto).
func (c *Coordinator) SaveCompany(ctx context.Context, e *entity.Company) error {
	return c.save(ctx, domain.ColCompanies, "company", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertCompany(ctx, e) }, false)
}

// SaveProject persiste un proyecto.
func (c *Coordinator) SaveProject(ctx context.Context, e *entity.Project) error {
	return c.save(ctx, domain.ColProjects, "project", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertProject(ctx, e) }, false)
}

// SaveTask persiste una tarea.
func (c *Coordinator) SaveTask(ctx context.Context, e *entity.Task) error {
	return c.save(ctx, domain.ColTasks, "task", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertTask(ctx, e) }, false)
}

// SaveAccessoryTask persiste una entrada de calendario.
func (c *Coordinator) SaveAccessoryTask(ctx context.Context, e *entity.AccessoryTask) error {
	return c.save(ctx, domain.ColAccessoryTasks, "accessory_task", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertAccessoryTask(ctx, e) }, false)
}

// SaveUser persiste un usuario. La unicidad del email debe validarse antes de
// llamar (CheckEmailAvailable); el backend remoto la impone en última instancia.
func (c *Coordinator) SaveUser(ctx context.Context, e *entity.User) error {
	return c.save(ctx, domain.ColUsers, "user", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertUser(ctx, e) }, false)
}

// SaveRole persiste un rol global. Autoritativo en la nube: el fallo remoto se propaga.
func (c *Coordinator) SaveRole(ctx context.Context, e *entity.UserRole) error {
	return c.save(ctx, domain.ColRoles, "role", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertRole(ctx, e) }, true)
}

// SaveInvitation persiste una invitación. Autoritativa en la nube.
func (c *Coordinator) SaveInvitation(ctx context.Context, e *entity.Invitation) error {
	return c.save(ctx, domain.ColInvitations, "invitation", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertInvitation(ctx, e) }, true)
}

// SaveResource persiste un recurso de ayuda global. Autoritativo en la nube.
func (c *Coordinator) SaveResource(ctx context.Context, e *entity.HelpResource) error {
	return c.save(ctx, domain.ColResources, "resource", e.ID, e,
		func(ctx context.Context) error { return c.remote.UpsertResource(ctx, e) }, true)
}

// RecordLog añade un registro de auditoría (append-only). Completa id y
// timestamp si el llamador no los asignó.
func (c *Coordinator) RecordLog(ctx context.Context, l *entity.ActivityLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return c.save(ctx, domain.ColLogs, "activity_log", l.ID, l,
		func(ctx context.Context) error { return c.remote.InsertLog(ctx, l) }, false)
}

// CheckEmailAvailable valida contra la caché local que ningún otro usuario use
// el email. Es la comprobación previa que exige la capa de sincronización; en
// modo fallback devuelve true y decide el constraint remoto.
func (c *Coordinator) CheckEmailAvailable(ctx context.Context, email, excludeUserID string) (bool, error) {
	var users []entity.User
	if err := c.local.ListByIndex(ctx, domain.ColUsers, "email", email, &users); err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID != excludeUserID {
			return false, nil
		}
	}
	return true, nil
}

// DeleteTask elimina una tarea en ambos almacenes.
func (c *Coordinator) DeleteTask(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColTasks, "task", id,
		func(ctx context.Context) error { return c.remote.DeleteTask(ctx, id) }, false)
}

// DeleteAccessoryTask elimina una entrada de calendario en ambos almacenes.
func (c *Coordinator) DeleteAccessoryTask(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColAccessoryTasks, "accessory_task", id,
		func(ctx context.Context) error { return c.remote.DeleteAccessoryTask(ctx, id) }, false)
}

// DeleteUser elimina un usuario en ambos almacenes.
func (c *Coordinator) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColUsers, "user", id,
		func(ctx context.Context) error { return c.remote.DeleteUser(ctx, id) }, false)
}

// DeleteRole elimina un rol global. Autoritativo: el fallo remoto se propaga.
func (c *Coordinator) DeleteRole(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColRoles, "role", id,
		func(ctx context.Context) error { return c.remote.DeleteRole(ctx, id) }, true)
}

// DeleteInvitation elimina una invitación. Autoritativa.
func (c *Coordinator) DeleteInvitation(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColInvitations, "invitation", id,
		func(ctx context.Context) error { return c.remote.DeleteInvitation(ctx, id) }, true)
}

// DeleteResource elimina un recurso de ayuda. Autoritativo.
func (c *Coordinator) DeleteResource(ctx context.Context, id string) error {
	return c.delete(ctx, domain.ColResources, "resource", id,
		func(ctx context.Context) error { return c.remote.DeleteResource(ctx, id) }, true)
}

// DeleteProject elimina un proyecto y, antes, todas sus tareas (en ambos
// almacenes), para no dejar filas remotas huérfanas.
func (c *Coordinator) DeleteProject(ctx context.Context, id string) error {
	if err := c.local.DeleteByIndex(ctx, domain.ColTasks, "project_id", id); err != nil {
		c.log.Warn().Err(err).Str("project_id", id).Msg("borrado local de tareas del proyecto fallido")
	}
	if err := c.remote.DeleteTasksByProject(ctx, id); err != nil {
		c.log.Error().Err(err).Str("project_id", id).Msg("borrado remoto de tareas del proyecto fallido")
		c.emit(Event{Entity: "task", ID: id, Op: OpDelete, State: StateRemoteFailed, Err: err})
	}
	return c.delete(ctx, domain.ColProjects, "project", id,
		func(ctx context.Context) error { return c.remote.DeleteProject(ctx, id) }, false)
}

// DeleteCompany ejecuta el borrado en cascada de una empresa en orden fijo:
// tareas, proyectos, tareas de calendario, usuarios, logs y por último la fila
// de la empresa. Cada paso es best-effort e independiente: un fallo no aborta
// los pasos siguientes.
func (c *Coordinator) DeleteCompany(ctx context.Context, id string) error {
	steps := []struct {
		name   string
		local  func(context.Context) error
		remote func(context.Context) error
	}{
		{"tasks", func(ctx context.Context) error {
			return c.local.DeleteByIndex(ctx, domain.ColTasks, "company_id", id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteTasksByCompany(ctx, id)
		}},
		{"projects", func(ctx context.Context) error {
			return c.local.DeleteByIndex(ctx, domain.ColProjects, "company_id", id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteProjectsByCompany(ctx, id)
		}},
		{"accessory_tasks", func(ctx context.Context) error {
			return c.local.DeleteByIndex(ctx, domain.ColAccessoryTasks, "company_id", id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteAccessoryTasksByCompany(ctx, id)
		}},
		{"users", func(ctx context.Context) error {
			return c.local.DeleteByIndex(ctx, domain.ColUsers, "company_id", id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteUsersByCompany(ctx, id)
		}},
		{"logs", func(ctx context.Context) error {
			return c.local.DeleteByIndex(ctx, domain.ColLogs, "company_id", id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteLogsByCompany(ctx, id)
		}},
		{"company", func(ctx context.Context) error {
			return c.local.Delete(ctx, domain.ColCompanies, id)
		}, func(ctx context.Context) error {
			return c.remote.DeleteCompanyRow(ctx, id)
		}},
	}

	for _, step := range steps {
		if err := step.local(ctx); err != nil {
			c.log.Warn().Err(err).Str("company_id", id).Str("step", step.name).Msg("cascada local fallida")
		}
		if err := step.remote(ctx); err != nil {
			c.log.Error().Err(err).Str("company_id", id).Str("step", step.name).Msg("cascada remota fallida")
			c.emit(Event{Entity: step.name, ID: id, Op: OpDelete, State: StateRemoteFailed, Err: err})
			continue
		}
		c.emit(Event{Entity: step.name, ID: id, Op: OpDelete, State: StateRemoteAcked})
	}
	return nil
}
