package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// RoleRepo cliente de sincronización remota para roles globales (tabla roles).
// permissions es jsonb. Los roles son autoritativos en la nube.
type RoleRepo struct {
	pool *pgxpool.Pool
}

// NewRoleRepository construye el adaptador de sincronización para roles.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

// UpsertRole inserta o reemplaza la fila remota completa, con clave en el id.
func (r *RoleRepo) UpsertRole(ctx context.Context, role *entity.UserRole) error {
	query := `
		INSERT INTO roles (id, name, permissions)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, permissions = excluded.permissions`
	_, err := r.pool.Exec(ctx, query, role.ID, role.Name, jsonbArray(role.Permissions))
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}

// DeleteRole elimina la fila del rol por id.
func (r *RoleRepo) DeleteRole(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// ListRoles devuelve todos los roles (colección global, sin tenant).
func (r *RoleRepo) ListRoles(ctx context.Context) ([]entity.UserRole, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, permissions FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	list := make([]entity.UserRole, 0)
	for rows.Next() {
		role, err := rowToRole(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *role)
	}
	return list, rows.Err()
}

// rowToRole mapea una fila remota a la entidad (mapeo explícito).
func rowToRole(row pgx.Row) (*entity.UserRole, error) {
	var role entity.UserRole
	var permissions []byte
	if err := row.Scan(&role.ID, &role.Name, &permissions); err != nil {
		return nil, mappingErr("role", err)
	}
	if err := scanStringArray("role", "permissions", permissions, &role.Permissions); err != nil {
		return nil, err
	}
	return &role, nil
}
