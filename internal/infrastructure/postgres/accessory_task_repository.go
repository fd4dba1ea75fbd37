package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// AccessoryTaskRepo cliente de sincronización remota para tareas de calendario.
//
// Tabla de renombrado de campos: companyId -> company_id, projectId -> project_id,
// createdAt -> created_at. project_id es NULL cuando la entrada no está ligada
// a ningún proyecto.
type AccessoryTaskRepo struct {
	pool *pgxpool.Pool
}

// NewAccessoryTaskRepository construye el adaptador de sincronización para tareas de calendario.
func NewAccessoryTaskRepository(pool *pgxpool.Pool) *AccessoryTaskRepo {
	return &AccessoryTaskRepo{pool: pool}
}

// UpsertAccessoryTask inserta o reemplaza la fila remota completa, con clave en el id.
func (r *AccessoryTaskRepo) UpsertAccessoryTask(ctx context.Context, t *entity.AccessoryTask) error {
	var projectID any
	if t.ProjectID != "" {
		projectID = t.ProjectID
	}
	query := `
		INSERT INTO accessory_tasks (id, company_id, project_id, date, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			company_id = excluded.company_id, project_id = excluded.project_id,
			date = excluded.date, title = excluded.title,
			description = excluded.description, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.CompanyID, projectID, t.Date, t.Title, t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert accessory task: %w", err)
	}
	return nil
}

// DeleteAccessoryTask elimina la fila por id.
func (r *AccessoryTaskRepo) DeleteAccessoryTask(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM accessory_tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete accessory task: %w", err)
	}
	return nil
}

// DeleteAccessoryTasksByCompany elimina todas las entradas de calendario de una empresa.
func (r *AccessoryTaskRepo) DeleteAccessoryTasksByCompany(ctx context.Context, companyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM accessory_tasks WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete accessory tasks by company: %w", err)
	}
	return nil
}

// ListAccessoryTasksByCompany devuelve las entradas de calendario remotas de una empresa.
func (r *AccessoryTaskRepo) ListAccessoryTasksByCompany(ctx context.Context, companyID string) ([]entity.AccessoryTask, error) {
	query := `
		SELECT id, company_id, project_id, date, title, description, created_at
		FROM accessory_tasks WHERE company_id = $1 ORDER BY date`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accessory tasks: %w", err)
	}
	defer rows.Close()

	list := make([]entity.AccessoryTask, 0)
	for rows.Next() {
		t, err := rowToAccessoryTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// rowToAccessoryTask mapea una fila remota a la entidad (mapeo explícito).
// project_id NULL se normaliza a cadena vacía.
func rowToAccessoryTask(row pgx.Row) (*entity.AccessoryTask, error) {
	var t entity.AccessoryTask
	var projectID *string
	err := row.Scan(&t.ID, &t.CompanyID, &projectID, &t.Date, &t.Title, &t.Description, &t.CreatedAt)
	if err != nil {
		return nil, mappingErr("accessory_task", err)
	}
	if projectID != nil {
		t.ProjectID = *projectID
	}
	return &t, nil
}
