package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// ProjectRepo cliente de sincronización remota para proyectos.
//
// Tabla de renombrado de campos: companyId -> company_id,
// totalBudget -> total_budget, startDate -> start_date, endDate -> end_date,
// logoData -> logo_data, createdAt -> created_at. objectives es jsonb.
type ProjectRepo struct {
	pool *pgxpool.Pool
}

// NewProjectRepository construye el adaptador de sincronización para proyectos.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// UpsertProject inserta o reemplaza la fila remota completa, con clave en el id.
func (r *ProjectRepo) UpsertProject(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, company_id, name, description, total_budget, objectives,
			start_date, end_date, status, created_at, logo_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			company_id = excluded.company_id, name = excluded.name,
			description = excluded.description, total_budget = excluded.total_budget,
			objectives = excluded.objectives, start_date = excluded.start_date,
			end_date = excluded.end_date, status = excluded.status,
			created_at = excluded.created_at, logo_data = excluded.logo_data`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.CompanyID, p.Name, p.Description, p.TotalBudget, jsonbArray(p.Objectives),
		p.StartDate, p.EndDate, p.Status, p.CreatedAt, p.LogoData,
	)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

// DeleteProject elimina la fila del proyecto por id.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// DeleteProjectsByCompany elimina todos los proyectos de una empresa.
func (r *ProjectRepo) DeleteProjectsByCompany(ctx context.Context, companyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete projects by company: %w", err)
	}
	return nil
}

// ListProjectsByCompany devuelve los proyectos remotos de una empresa.
func (r *ProjectRepo) ListProjectsByCompany(ctx context.Context, companyID string) ([]entity.Project, error) {
	query := `
		SELECT id, company_id, name, description, total_budget, objectives,
			start_date, end_date, status, created_at, logo_data
		FROM projects WHERE company_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Project, 0)
	for rows.Next() {
		p, err := rowToProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// rowToProject mapea una fila remota a la entidad (mapeo explícito, sin
// nombres de columna alternativos).
func rowToProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	var objectives []byte
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.TotalBudget, &objectives,
		&p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt, &p.LogoData,
	)
	if err != nil {
		return nil, mappingErr("project", err)
	}
	if err := scanStringArray("project", "objectives", objectives, &p.Objectives); err != nil {
		return nil, err
	}
	return &p, nil
}
