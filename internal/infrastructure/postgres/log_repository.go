package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
)

// LogRepo cliente de sincronización remota para logs de auditoría (tabla activity_logs).
//
// Tabla de renombrado de campos: companyId -> company_id, userId -> user_id,
// userName -> user_name, userEmail -> user_email, ipAddress -> ip_address,
// deviceInfo -> device_info.
//
// Los logs son append-only: solo hay insert, borrado por criterio y borrado
// masivo por id (limpieza de filas corruptas).
type LogRepo struct {
	pool *pgxpool.Pool
}

// NewLogRepository construye el adaptador de sincronización para logs.
func NewLogRepository(pool *pgxpool.Pool) *LogRepo {
	return &LogRepo{pool: pool}
}

// InsertLog añade un log de auditoría. Un id repetido se ignora (el registro
// original es inmutable, nunca se reescribe).
func (r *LogRepo) InsertLog(ctx context.Context, l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, company_id, user_id, user_name, user_email,
			action, details, ip_address, device_info, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		l.ID, l.CompanyID, l.UserID, l.UserName, l.UserEmail,
		l.Action, l.Details, l.IPAddress, l.DeviceInfo, l.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// DeleteLogsByCompany elimina todos los logs de una empresa (cascada de borrado).
func (r *LogRepo) DeleteLogsByCompany(ctx context.Context, companyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete logs by company: %w", err)
	}
	return nil
}

// ListRecentLogs devuelve los logs de una empresa ordenados por timestamp
// descendente, acotados a limit filas.
func (r *LogRepo) ListRecentLogs(ctx context.Context, companyID string, limit int) ([]entity.ActivityLog, error) {
	query := `
		SELECT id, company_id, user_id, user_name, user_email,
			action, details, ip_address, device_info, timestamp
		FROM activity_logs WHERE company_id = $1
		ORDER BY timestamp DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

// ListAllLogs devuelve todos los logs remotos, incluidas las filas con
// timestamp NULL (estrategia fetch-all de cleanupInvalid; O(n) asumible porque
// la retención de 30 días acota el histórico).
func (r *LogRepo) ListAllLogs(ctx context.Context) ([]entity.ActivityLog, error) {
	query := `
		SELECT id, company_id, user_id, user_name, user_email,
			action, details, ip_address, device_info, timestamp
		FROM activity_logs`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

// DeleteLogsByIDs elimina en bloque las filas indicadas.
func (r *LogRepo) DeleteLogsByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete logs by ids: %w", err)
	}
	return nil
}

// DeleteLogsByCriteria elimina las filas que cumplan el criterio de purga.
// Un criterio vacío borra TODOS los logs; el motor no añade límites implícitos.
func (r *LogRepo) DeleteLogsByCriteria(ctx context.Context, crit domain.PurgeCriteria) error {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if crit.CompanyID != "" {
		add("company_id = $%d", crit.CompanyID)
	}
	if crit.Category != "" && crit.Category != domain.CategoryAll {
		add("action = $%d", crit.Category)
	}
	if crit.StartDate != nil {
		add("timestamp >= $%d", *crit.StartDate)
	}
	if crit.EndDate != nil {
		add("timestamp <= $%d", *crit.EndDate)
	}

	query := `DELETE FROM activity_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete logs by criteria: %w", err)
	}
	return nil
}

func collectLogs(rows pgx.Rows) ([]entity.ActivityLog, error) {
	list := make([]entity.ActivityLog, 0)
	for rows.Next() {
		l, err := rowToLog(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *l)
	}
	return list, rows.Err()
}

// rowToLog mapea una fila remota a la entidad. timestamp NULL se normaliza al
// cero de time.Time para que cleanupInvalid pueda detectarla.
func rowToLog(row pgx.Row) (*entity.ActivityLog, error) {
	var l entity.ActivityLog
	var ts *time.Time
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.UserID, &l.UserName, &l.UserEmail,
		&l.Action, &l.Details, &l.IPAddress, &l.DeviceInfo, &ts,
	)
	if err != nil {
		return nil, mappingErr("activity_log", err)
	}
	if ts != nil {
		l.Timestamp = *ts
	}
	return &l, nil
}
