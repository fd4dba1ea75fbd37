package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// CompanyRepo cliente de sincronización remota para empresas.
//
// Tabla de renombrado de campos (forma en memoria -> columna remota):
//   logoData -> logo_data, loginBgData -> login_bg_data,
//   chatbotIconData -> chatbot_icon_data, primaryColor -> primary_color,
//   appName -> app_name, privacyPolicy -> privacy_policy,
//   termsOfUse -> terms_of_use, aiPersona -> ai_persona,
//   aiDefinitions -> ai_definitions, contractActive -> contract_active,
//   createdAt -> created_at.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construye el adaptador de sincronización para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// UpsertCompany inserta o reemplaza la fila remota completa, con clave en el id.
func (r *CompanyRepo) UpsertCompany(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, cnpj, email, logo_data, login_bg_data, chatbot_icon_data,
			primary_color, app_name, privacy_policy, terms_of_use, ai_persona, ai_definitions,
			status, contract_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, cnpj = excluded.cnpj, email = excluded.email,
			logo_data = excluded.logo_data, login_bg_data = excluded.login_bg_data,
			chatbot_icon_data = excluded.chatbot_icon_data, primary_color = excluded.primary_color,
			app_name = excluded.app_name, privacy_policy = excluded.privacy_policy,
			terms_of_use = excluded.terms_of_use, ai_persona = excluded.ai_persona,
			ai_definitions = excluded.ai_definitions, status = excluded.status,
			contract_active = excluded.contract_active, created_at = excluded.created_at`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.CNPJ, c.Email, c.LogoData, c.LoginBgData, c.ChatbotIconData,
		c.PrimaryColor, c.AppName, c.PrivacyPolicy, c.TermsOfUse, c.AIPersona, c.AIDefinitions,
		c.Status, c.ContractActive, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}

// DeleteCompanyRow elimina la fila de la empresa (último paso del borrado en cascada).
func (r *CompanyRepo) DeleteCompanyRow(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// ListCompanies devuelve todas las empresas (branding para el arranque sin sesión).
func (r *CompanyRepo) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	query := `
		SELECT id, name, cnpj, email, logo_data, login_bg_data, chatbot_icon_data,
			primary_color, app_name, privacy_policy, terms_of_use, ai_persona, ai_definitions,
			status, contract_active, created_at
		FROM companies ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Company, 0)
	for rows.Next() {
		c, err := rowToCompany(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// rowToCompany mapea una fila remota a la entidad. Mapeo explícito: ningún
// nombre de columna alternativo se acepta en silencio.
func rowToCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.CNPJ, &c.Email, &c.LogoData, &c.LoginBgData, &c.ChatbotIconData,
		&c.PrimaryColor, &c.AppName, &c.PrivacyPolicy, &c.TermsOfUse, &c.AIPersona, &c.AIDefinitions,
		&c.Status, &c.ContractActive, &c.CreatedAt,
	)
	if err != nil {
		return nil, mappingErr("company", err)
	}
	return &c, nil
}
