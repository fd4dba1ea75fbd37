package bootstrap

import (
	"context"
	gosync "sync"
	"time"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/pkg/logger"
	"github.com/jhoicas/gestor-pro/pkg/retry"
)

// logsLimit tope de logs descargados en la sesión, ordenados por fecha.
const logsLimit = 200

// Snapshot estado inicial de una sesión autenticada. Cada colección se aplica
// de forma independiente: una descarga fallida deja su campo vacío y marca
// Partial, sin bloquear al resto.
type Snapshot struct {
	Companies      []entity.Company
	Projects       []entity.Project
	Tasks          []entity.Task
	AccessoryTasks []entity.AccessoryTask
	Users          []entity.User
	Logs           []entity.ActivityLog
	Roles          []entity.UserRole
	Invitations    []entity.Invitation
	Resources      []entity.HelpResource

	Migrated bool // la migración de datos heredados se ejecutó en esta sesión
	Partial  bool // al menos una colección no pudo descargarse
}

// Loader orquesta el arranque: la ruta pública (marca de la empresa) y la
// sesión autenticada completa, incluida la migración de datos heredados.
type Loader struct {
	local    LocalStore
	remote   RemoteStore
	migrator Migrator
	policy   retry.Policy
	log      *logger.Logger
}

// NewLoader construye el loader con la política de reintentos del arranque
// público: 3 intentos con 1 segundo fijo entre ellos.
func NewLoader(local LocalStore, remote RemoteStore, migrator Migrator, log *logger.Logger) *Loader {
	return &Loader{
		local:    local,
		remote:   remote,
		migrator: migrator,
		policy:   retry.Constant(3, time.Second),
		log:      log,
	}
}

// LoadPublic devuelve la lista de empresas para la pantalla pública. La caché
// local responde de inmediato; en paralelo conceptual se intenta la descarga
// remota con reintentos y se adopta el primer resultado no vacío,
// persistiéndolo localmente. Si todos los intentos fallan se conserva lo que
// hubiera en caché, sin error: la ruta pública nunca bloquea el arranque.
func (l *Loader) LoadPublic(ctx context.Context) ([]entity.Company, error) {
	var cached []entity.Company
	if err := l.local.List(ctx, domain.ColCompanies, &cached); err != nil {
		l.log.Warn().Err(err).Msg("caché de marca ilegible")
	}

	companies, err := retry.DoAccept(ctx, l.policy,
		func(ctx context.Context) ([]entity.Company, error) {
			return l.remote.ListCompanies(ctx)
		},
		func(cs []entity.Company) bool { return len(cs) > 0 },
	)
	if err != nil {
		l.log.Warn().Err(err).Int("cached", len(cached)).
			Msg("descarga pública de empresas fallida; se mantiene la caché")
		return cached, nil
	}

	persist(ctx, l, domain.ColCompanies, companies, func(c entity.Company) string { return c.ID })
	return companies, nil
}

// LoadSession descarga las nueve colecciones de la sesión en paralelo lógico,
// tolerando fallos parciales, persiste localmente lo descargado y dispara la
// migración de datos heredados si procede.
func (l *Loader) LoadSession(ctx context.Context, companyID, userID string) *Snapshot {
	snap := &Snapshot{}
	var (
		wg   gosync.WaitGroup
		mu   gosync.Mutex
		errs int
	)

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				l.log.Warn().Err(err).Str("collection", name).
					Msg("colección no descargada; la sesión continúa sin ella")
				mu.Lock()
				errs++
				mu.Unlock()
			}
		}()
	}

	fetch(domain.ColCompanies, func() (err error) {
		snap.Companies, err = l.remote.ListCompanies(ctx)
		return
	})
	fetch(domain.ColProjects, func() (err error) {
		snap.Projects, err = l.remote.ListProjectsByCompany(ctx, companyID)
		return
	})
	fetch(domain.ColTasks, func() (err error) {
		snap.Tasks, err = l.remote.ListTasksByCompany(ctx, companyID)
		return
	})
	fetch(domain.ColAccessoryTasks, func() (err error) {
		snap.AccessoryTasks, err = l.remote.ListAccessoryTasksByCompany(ctx, companyID)
		return
	})
	fetch(domain.ColUsers, func() (err error) {
		snap.Users, err = l.remote.ListUsersByCompany(ctx, companyID)
		return
	})
	fetch(domain.ColLogs, func() (err error) {
		snap.Logs, err = l.remote.ListRecentLogs(ctx, companyID, logsLimit)
		return
	})
	fetch(domain.ColRoles, func() (err error) {
		snap.Roles, err = l.remote.ListRoles(ctx)
		return
	})
	fetch(domain.ColInvitations, func() (err error) {
		snap.Invitations, err = l.remote.ListInvitationsByCompany(ctx, companyID)
		return
	})
	fetch(domain.ColResources, func() (err error) {
		snap.Resources, err = l.remote.ListResources(ctx)
		return
	})
	wg.Wait()
	snap.Partial = errs > 0

	persist(ctx, l, domain.ColCompanies, snap.Companies, func(c entity.Company) string { return c.ID })
	persist(ctx, l, domain.ColProjects, snap.Projects, func(p entity.Project) string { return p.ID })
	persist(ctx, l, domain.ColTasks, snap.Tasks, func(t entity.Task) string { return t.ID })
	persist(ctx, l, domain.ColAccessoryTasks, snap.AccessoryTasks, func(t entity.AccessoryTask) string { return t.ID })
	persist(ctx, l, domain.ColUsers, snap.Users, func(u entity.User) string { return u.ID })
	persist(ctx, l, domain.ColLogs, snap.Logs, func(lg entity.ActivityLog) string { return lg.ID })
	persist(ctx, l, domain.ColRoles, snap.Roles, func(r entity.UserRole) string { return r.ID })
	persist(ctx, l, domain.ColInvitations, snap.Invitations, func(i entity.Invitation) string { return i.ID })
	persist(ctx, l, domain.ColResources, snap.Resources, func(r entity.HelpResource) string { return r.ID })

	if l.migrator != nil {
		migrated, err := l.migrator.Run(ctx, companyID, userID)
		if err != nil {
			l.log.Error().Err(err).Str("company_id", companyID).
				Msg("migración de datos heredados fallida; requiere recargar la sesión")
		}
		snap.Migrated = migrated
		if migrated {
			// Los proyectos recién subidos deben verse en esta misma sesión.
			if projects, err := l.remote.ListProjectsByCompany(ctx, companyID); err == nil {
				snap.Projects = projects
			}
		}
	}

	return snap
}

// persist guarda una colección descargada en la caché local, mejor-esfuerzo:
// un elemento que no se puede cachear no impide cachear los siguientes.
func persist[T any](ctx context.Context, l *Loader, col string, items []T, id func(T) string) {
	for _, it := range items {
		if err := l.local.Put(ctx, col, id(it), it); err != nil {
			l.log.Warn().Err(err).Str("collection", col).Msg("no se pudo cachear el elemento")
		}
	}
}
