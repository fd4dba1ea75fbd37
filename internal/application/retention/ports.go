package retention

import (
	"context"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
)

// LocalStore puerto de la caché local: escaneo completo de logs sin decodificar
// (una fila corrupta no debe tumbar el cursor) y borrado por id.
type LocalStore interface {
	ListRaw(ctx context.Context, col string) ([]localdb.RawDoc, error)
	Delete(ctx context.Context, col, id string) error
}

// RemoteStore puerto del backend remoto para purga y limpieza de logs.
type RemoteStore interface {
	DeleteLogsByCriteria(ctx context.Context, crit domain.PurgeCriteria) error
	ListAllLogs(ctx context.Context) ([]entity.ActivityLog, error)
	DeleteLogsByIDs(ctx context.Context, ids []string) error
}
