package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// InvitationRepo cliente de sincronización remota para invitaciones.
//
// Tabla de renombrado de campos: companyId -> company_id,
// invitedBy -> invited_by, createdAt -> created_at.
// Las invitaciones son autoritativas en la nube.
type InvitationRepo struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository construye el adaptador de sincronización para invitaciones.
func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

// UpsertInvitation inserta o reemplaza la fila remota completa, con clave en el id.
func (r *InvitationRepo) UpsertInvitation(ctx context.Context, inv *entity.Invitation) error {
	query := `
		INSERT INTO invitations (id, email, company_id, role, invited_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email, company_id = excluded.company_id, role = excluded.role,
			invited_by = excluded.invited_by, status = excluded.status, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.Email, inv.CompanyID, inv.Role, inv.InvitedBy, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert invitation: %w", err)
	}
	return nil
}

// DeleteInvitation elimina la fila de la invitación por id.
func (r *InvitationRepo) DeleteInvitation(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

// ListInvitationsByCompany devuelve las invitaciones remotas de una empresa.
func (r *InvitationRepo) ListInvitationsByCompany(ctx context.Context, companyID string) ([]entity.Invitation, error) {
	query := `
		SELECT id, email, company_id, role, invited_by, status, created_at
		FROM invitations WHERE company_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Invitation, 0)
	for rows.Next() {
		inv, err := rowToInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

// rowToInvitation mapea una fila remota a la entidad (mapeo explícito).
func rowToInvitation(row pgx.Row) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := row.Scan(&inv.ID, &inv.Email, &inv.CompanyID, &inv.Role, &inv.InvitedBy, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, mappingErr("invitation", err)
	}
	return &inv, nil
}
