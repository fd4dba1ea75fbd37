package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// ProfileRepo cliente de sincronización remota para usuarios (tabla profiles).
//
// Tabla de renombrado de campos: companyId -> company_id,
// firstAccessDone -> first_access_done, lgpdConsent -> lgpd_consent,
// lgpdConsentDate -> lgpd_consent_date, createdAt -> created_at.
//
// La unicidad del email la impone el constraint remoto: este cliente no
// pre-valida duplicados (la validación previa es responsabilidad del llamador).
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador de sincronización para usuarios.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// UpsertUser inserta o reemplaza la fila remota completa, con clave en el id.
// Devuelve domain.ErrEmailAlreadyExists si el backend rechaza el email duplicado.
func (r *ProfileRepo) UpsertUser(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO profiles (id, company_id, name, email, role, status,
			first_access_done, lgpd_consent, lgpd_consent_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			company_id = excluded.company_id, name = excluded.name, email = excluded.email,
			role = excluded.role, status = excluded.status,
			first_access_done = excluded.first_access_done, lgpd_consent = excluded.lgpd_consent,
			lgpd_consent_date = excluded.lgpd_consent_date, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.CompanyID, u.Name, u.Email, u.Role, u.Status,
		u.FirstAccessDone, u.LGPDConsent, u.LGPDConsentDate, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// DeleteUser elimina la fila del usuario por id.
func (r *ProfileRepo) DeleteUser(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// DeleteUsersByCompany elimina todos los usuarios de una empresa.
func (r *ProfileRepo) DeleteUsersByCompany(ctx context.Context, companyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete profiles by company: %w", err)
	}
	return nil
}

// ListUsersByCompany devuelve los usuarios remotos de una empresa.
func (r *ProfileRepo) ListUsersByCompany(ctx context.Context, companyID string) ([]entity.User, error) {
	query := `
		SELECT id, company_id, name, email, role, status,
			first_access_done, lgpd_consent, lgpd_consent_date, created_at
		FROM profiles WHERE company_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	list := make([]entity.User, 0)
	for rows.Next() {
		u, err := rowToUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// rowToUser mapea una fila remota a la entidad (mapeo explícito).
func rowToUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Role, &u.Status,
		&u.FirstAccessDone, &u.LGPDConsent, &u.LGPDConsentDate, &u.CreatedAt,
	)
	if err != nil {
		return nil, mappingErr("profile", err)
	}
	return &u, nil
}
