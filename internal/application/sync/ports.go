package sync

import (
	"context"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// LocalStore puerto de la caché local (colecciones nombradas con índices
// secundarios). La implementación puede estar en modo fallback: escrituras
// triviales y lecturas vacías.
type LocalStore interface {
	Put(ctx context.Context, col, id string, doc any) error
	Get(ctx context.Context, col, id string, out any) (bool, error)
	Delete(ctx context.Context, col, id string) error
	DeleteByIndex(ctx context.Context, col, indexCol, value string) error
	List(ctx context.Context, col string, out any) error
	ListByIndex(ctx context.Context, col, indexCol, value string, out any) error
}

// RemoteStore puerto del almacén remoto durable, con upsert/delete por entidad
// y borrados masivos para la cascada de empresa.
type RemoteStore interface {
	UpsertCompany(ctx context.Context, c *entity.Company) error
	DeleteCompanyRow(ctx context.Context, id string) error

	UpsertProject(ctx context.Context, p *entity.Project) error
	DeleteProject(ctx context.Context, id string) error
	DeleteProjectsByCompany(ctx context.Context, companyID string) error

	UpsertTask(ctx context.Context, t *entity.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByProject(ctx context.Context, projectID string) error
	DeleteTasksByCompany(ctx context.Context, companyID string) error

	UpsertAccessoryTask(ctx context.Context, t *entity.AccessoryTask) error
	DeleteAccessoryTask(ctx context.Context, id string) error
	DeleteAccessoryTasksByCompany(ctx context.Context, companyID string) error

	UpsertUser(ctx context.Context, u *entity.User) error
	DeleteUser(ctx context.Context, id string) error
	DeleteUsersByCompany(ctx context.Context, companyID string) error

	InsertLog(ctx context.Context, l *entity.ActivityLog) error
	DeleteLogsByCompany(ctx context.Context, companyID string) error

	UpsertRole(ctx context.Context, r *entity.UserRole) error
	DeleteRole(ctx context.Context, id string) error

	UpsertInvitation(ctx context.Context, inv *entity.Invitation) error
	DeleteInvitation(ctx context.Context, id string) error

	UpsertResource(ctx context.Context, res *entity.HelpResource) error
	DeleteResource(ctx context.Context, id string) error
}
