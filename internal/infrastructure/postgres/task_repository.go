package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// TaskRepo cliente de sincronización remota para tareas.
//
// Tabla de renombrado de campos: projectId -> project_id, companyId -> company_id,
// startDate -> start_date, endDate -> end_date, linkedObjectives -> linked_objectives,
// targetAudience -> target_audience, createdAt -> created_at.
// linked_objectives y attachments son jsonb.
type TaskRepo struct {
	pool *pgxpool.Pool
}

// NewTaskRepository construye el adaptador de sincronización para tareas.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// UpsertTask inserta o reemplaza la fila remota completa, con clave en el id.
func (r *TaskRepo) UpsertTask(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, company_id, title, description, start_date, end_date,
			goal, linked_objectives, budget, involved, target_audience, status, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			project_id = excluded.project_id, company_id = excluded.company_id,
			title = excluded.title, description = excluded.description,
			start_date = excluded.start_date, end_date = excluded.end_date,
			goal = excluded.goal, linked_objectives = excluded.linked_objectives,
			budget = excluded.budget, involved = excluded.involved,
			target_audience = excluded.target_audience, status = excluded.status,
			attachments = excluded.attachments, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.ProjectID, t.CompanyID, t.Title, t.Description, t.StartDate, t.EndDate,
		t.Goal, jsonbArray(t.LinkedObjectives), t.Budget, t.Involved, t.TargetAudience,
		t.Status, jsonbArray(t.Attachments), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return nil
}

// DeleteTask elimina la fila de la tarea por id.
func (r *TaskRepo) DeleteTask(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteTasksByProject elimina todas las tareas de un proyecto (primer paso al borrar el proyecto).
func (r *TaskRepo) DeleteTasksByProject(ctx context.Context, projectID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete tasks by project: %w", err)
	}
	return nil
}

// DeleteTasksByCompany elimina todas las tareas de una empresa.
func (r *TaskRepo) DeleteTasksByCompany(ctx context.Context, companyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete tasks by company: %w", err)
	}
	return nil
}

// ListTasksByCompany devuelve las tareas remotas de una empresa.
func (r *TaskRepo) ListTasksByCompany(ctx context.Context, companyID string) ([]entity.Task, error) {
	query := `
		SELECT id, project_id, company_id, title, description, start_date, end_date,
			goal, linked_objectives, budget, involved, target_audience, status, attachments, created_at
		FROM tasks WHERE company_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Task, 0)
	for rows.Next() {
		t, err := rowToTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// rowToTask mapea una fila remota a la entidad (mapeo explícito).
func rowToTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var linked, attachments []byte
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.CompanyID, &t.Title, &t.Description, &t.StartDate, &t.EndDate,
		&t.Goal, &linked, &t.Budget, &t.Involved, &t.TargetAudience, &t.Status, &attachments, &t.CreatedAt,
	)
	if err != nil {
		return nil, mappingErr("task", err)
	}
	if err := scanStringArray("task", "linked_objectives", linked, &t.LinkedObjectives); err != nil {
		return nil, err
	}
	if err := scanStringArray("task", "attachments", attachments, &t.Attachments); err != nil {
		return nil, err
	}
	return &t, nil
}
