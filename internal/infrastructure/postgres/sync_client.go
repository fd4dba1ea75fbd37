package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncClient agrupa los adaptadores de sincronización por entidad sobre un
// único pool. Es la implementación concreta de los puertos remotos de la capa
// de aplicación (coordinator, migración, retención, bootstrap).
type SyncClient struct {
	*CompanyRepo
	*ProjectRepo
	*TaskRepo
	*AccessoryTaskRepo
	*ProfileRepo
	*LogRepo
	*RoleRepo
	*InvitationRepo
	*ResourceRepo

	pool *pgxpool.Pool
}

// NewSyncClient construye el cliente de sincronización remota completo.
func NewSyncClient(pool *pgxpool.Pool) *SyncClient {
	return &SyncClient{
		CompanyRepo:       NewCompanyRepository(pool),
		ProjectRepo:       NewProjectRepository(pool),
		TaskRepo:          NewTaskRepository(pool),
		AccessoryTaskRepo: NewAccessoryTaskRepository(pool),
		ProfileRepo:       NewProfileRepository(pool),
		LogRepo:           NewLogRepository(pool),
		RoleRepo:          NewRoleRepository(pool),
		InvitationRepo:    NewInvitationRepository(pool),
		ResourceRepo:      NewResourceRepository(pool),
		pool:              pool,
	}
}

// Ping comprueba la conectividad con el backend remoto (endpoint de salud).
func (c *SyncClient) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}
