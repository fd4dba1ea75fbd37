package migration

import (
	"context"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// LocalStore puerto mínimo de la caché local para la migración: lecturas por
// empresa y el marcador de finalización en la tabla de flags.
type LocalStore interface {
	ListByIndex(ctx context.Context, col, indexCol, value string, out any) error
	GetFlag(ctx context.Context, key string) (string, bool, error)
	SetFlag(ctx context.Context, key, value string) error
}

// RemoteStore puerto del backend remoto: comprobación del disparador y
// upserts por lotes de las tres colecciones migrables.
type RemoteStore interface {
	ListProjectsByCompany(ctx context.Context, companyID string) ([]entity.Project, error)
	UpsertProject(ctx context.Context, p *entity.Project) error
	UpsertTask(ctx context.Context, t *entity.Task) error
	UpsertAccessoryTask(ctx context.Context, t *entity.AccessoryTask) error
}
