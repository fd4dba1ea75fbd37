package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// ResourceRepo cliente de sincronización remota para recursos de ayuda globales.
//
// Tabla de renombrado de campos: videoUrl -> video_url, createdAt -> created_at.
// Los recursos son autoritativos en la nube.
type ResourceRepo struct {
	pool *pgxpool.Pool
}

// NewResourceRepository construye el adaptador de sincronización para recursos de ayuda.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

// UpsertResource inserta o reemplaza la fila remota completa, con clave en el id.
func (r *ResourceRepo) UpsertResource(ctx context.Context, res *entity.HelpResource) error {
	query := `
		INSERT INTO resources (id, title, category, content, video_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, category = excluded.category, content = excluded.content,
			video_url = excluded.video_url, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		res.ID, res.Title, res.Category, res.Content, res.VideoURL, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert resource: %w", err)
	}
	return nil
}

// DeleteResource elimina la fila del recurso por id.
func (r *ResourceRepo) DeleteResource(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

// ListResources devuelve todos los recursos de ayuda (colección global, sin tenant).
func (r *ResourceRepo) ListResources(ctx context.Context) ([]entity.HelpResource, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, category, content, video_url, created_at FROM resources ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	list := make([]entity.HelpResource, 0)
	for rows.Next() {
		res, err := rowToResource(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

// rowToResource mapea una fila remota a la entidad (mapeo explícito).
func rowToResource(row pgx.Row) (*entity.HelpResource, error) {
	var res entity.HelpResource
	err := row.Scan(&res.ID, &res.Title, &res.Category, &res.Content, &res.VideoURL, &res.CreatedAt)
	if err != nil {
		return nil, mappingErr("resource", err)
	}
	return &res, nil
}
