package bootstrap

import (
	"context"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// LocalStore puerto de la caché local: lectura de la caché de marca y
// persistencia de las colecciones recién descargadas.
type LocalStore interface {
	Put(ctx context.Context, col, id string, doc any) error
	List(ctx context.Context, col string, out any) error
}

// RemoteStore puerto de lectura del backend remoto: las nueve colecciones de
// una sesión autenticada más la lista pública de empresas.
type RemoteStore interface {
	ListCompanies(ctx context.Context) ([]entity.Company, error)
	ListProjectsByCompany(ctx context.Context, companyID string) ([]entity.Project, error)
	ListTasksByCompany(ctx context.Context, companyID string) ([]entity.Task, error)
	ListAccessoryTasksByCompany(ctx context.Context, companyID string) ([]entity.AccessoryTask, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]entity.User, error)
	ListRecentLogs(ctx context.Context, companyID string, limit int) ([]entity.ActivityLog, error)
	ListRoles(ctx context.Context) ([]entity.UserRole, error)
	ListInvitationsByCompany(ctx context.Context, companyID string) ([]entity.Invitation, error)
	ListResources(ctx context.Context) ([]entity.HelpResource, error)
}

// Migrator dispara la migración de datos heredados durante la sesión.
type Migrator interface {
	Run(ctx context.Context, companyID, userID string) (bool, error)
}
