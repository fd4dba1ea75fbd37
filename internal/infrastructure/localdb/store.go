package localdb

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Versión del esquema local:
// 0 - sin inicializar
// 1 - esquema inicial (nueve colecciones + flags)
const currentSchemaVersion = 1

// RetentionDays ventana fija de retención de logs locales.
const RetentionDays = 30

// colSpec describe las columnas de índice secundario de una colección.
type colSpec struct {
	indexCols []string
}

var colSpecs = map[string]colSpec{
	domain.ColCompanies:      {},
	domain.ColProjects:       {indexCols: []string{"company_id"}},
	domain.ColTasks:          {indexCols: []string{"company_id", "project_id"}},
	domain.ColAccessoryTasks: {indexCols: []string{"company_id", "project_id", "date"}},
	domain.ColResources:      {},
	domain.ColUsers:          {indexCols: []string{"company_id", "email"}},
	domain.ColLogs:           {indexCols: []string{"company_id", "ts"}},
	domain.ColRoles:          {},
	domain.ColInvitations:    {indexCols: []string{"company_id", "email"}},
}

// Store adaptador del almacén local embebido (SQLite) con colecciones nombradas.
//
// Si el motor no puede abrirse (entorno sandboxed, cuota agotada), el Store entra
// en modo fallback: las lecturas devuelven vacío y las escrituras/borrados
// reportan éxito sin almacenar nada. Disponibilidad sobre durabilidad: la caché
// nunca debe bloquear al consumidor.
type Store struct {
	db       *sql.DB
	fallback bool
	log      *logger.Logger
}

// Open abre (o crea) el almacén local en path y aplica el esquema si la versión
// registrada es anterior a la actual. Nunca devuelve error: ante cualquier fallo
// de apertura entrega un Store en modo fallback.
//
// También lanza en segundo plano el barrido de logs locales con más de
// RetentionDays días de antigüedad (range scan sobre el índice de timestamp).
func Open(path string, log *logger.Logger) *Store {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("almacén local inaccesible; modo fallback")
		return &Store{fallback: true, log: log}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		log.Warn().Err(err).Str("path", path).Msg("almacén local inaccesible; modo fallback")
		return &Store{fallback: true, log: log}
	}

	// SQLite solo admite un escritor; limitar el pool evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		log.Warn().Err(err).Msg("pragmas del almacén local; modo fallback")
		return &Store{fallback: true, log: log}
	}
	if err := applySchema(db); err != nil {
		db.Close()
		log.Warn().Err(err).Msg("esquema del almacén local; modo fallback")
		return &Store{fallback: true, log: log}
	}

	s := &Store{db: db, log: log}

	// Barrido de retención en segundo plano: no bloquea el arranque.
	go func() {
		cutoff := time.Now().AddDate(0, 0, -RetentionDays)
		n, err := s.DeleteLogsBefore(context.Background(), cutoff)
		if err != nil {
			log.Warn().Err(err).Msg("barrido de retención de logs locales")
			return
		}
		if n > 0 {
			log.Info().Int64("deleted", n).Msg("logs locales fuera de la ventana de retención eliminados")
		}
	}()

	return s
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("aplicar %q: %w", p, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("leer user_version: %w", err)
	}
	if version >= currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("crear colecciones: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("fijar user_version: %w", err)
	}
	return nil
}

// Fallback indica si el almacén opera en modo degradado (sin persistencia).
func (s *Store) Fallback() bool { return s.fallback }

// Close cierra el handle del motor embebido.
func (s *Store) Close() error {
	if s.fallback || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserta o reemplaza el documento completo de la colección (sin patch
// parcial). Extrae las columnas de índice secundario del propio documento.
func (s *Store) Put(ctx context.Context, col, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializar documento de %s: %w", col, err)
	}
	return s.PutRaw(ctx, col, id, raw)
}

// PutRaw inserta o reemplaza un documento ya serializado (usado por el import de backups).
func (s *Store) PutRaw(ctx context.Context, col, id string, raw []byte) error {
	if s.fallback {
		return nil
	}
	spec, ok := colSpecs[col]
	if !ok {
		return fmt.Errorf("colección desconocida: %s", col)
	}

	cols := []string{"id", "data"}
	args := []any{id, string(raw)}
	for _, ic := range spec.indexCols {
		cols = append(cols, ic)
		args = append(args, indexValue(ic, raw))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	sets := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		col, strings.Join(cols, ", "), placeholders, strings.Join(sets, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if col == domain.ColUsers && strings.Contains(err.Error(), "users.email") {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("escribir en %s: %w", col, err)
	}
	return nil
}

// indexValue extrae el valor de una columna de índice desde el JSON del documento.
// ts se guarda como unix millis para que el range scan ordene correctamente.
func indexValue(indexCol string, raw []byte) any {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	switch indexCol {
	case "company_id":
		return str(doc["companyId"])
	case "project_id":
		return str(doc["projectId"])
	case "email":
		return str(doc["email"])
	case "date":
		if t, err := time.Parse(time.RFC3339, str(doc["date"])); err == nil {
			return t.Format("2006-01-02")
		}
		return ""
	case "ts":
		if t, err := time.Parse(time.RFC3339, str(doc["timestamp"])); err == nil {
			return t.UnixMilli()
		}
		return int64(0)
	}
	return ""
}

func str(v any) string {
	sv, _ := v.(string)
	return sv
}

// Get carga el documento id de la colección en out. Devuelve false si no existe
// (o siempre false en modo fallback).
func (s *Store) Get(ctx context.Context, col, id string, out any) (bool, error) {
	if s.fallback {
		return false, nil
	}
	if _, ok := colSpecs[col]; !ok {
		return false, fmt.Errorf("colección desconocida: %s", col)
	}
	var data string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT data FROM %s WHERE id = ?", col), id).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("leer %s: %w", col, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, &domain.MappingError{Entity: col, Field: "data", Err: err}
	}
	return true, nil
}

// Delete elimina el documento id. Borrar un id inexistente no es error.
func (s *Store) Delete(ctx context.Context, col, id string) error {
	if s.fallback {
		return nil
	}
	if _, ok := colSpecs[col]; !ok {
		return fmt.Errorf("colección desconocida: %s", col)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", col), id); err != nil {
		return fmt.Errorf("borrar de %s: %w", col, err)
	}
	return nil
}

// DeleteByIndex elimina todos los documentos cuya columna de índice tenga el valor dado.
func (s *Store) DeleteByIndex(ctx context.Context, col, indexCol, value string) error {
	if s.fallback {
		return nil
	}
	if err := validIndex(col, indexCol); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", col, indexCol), value); err != nil {
		return fmt.Errorf("borrar de %s por %s: %w", col, indexCol, err)
	}
	return nil
}

// List decodifica en out (puntero a slice) todos los documentos de la colección.
func (s *Store) List(ctx context.Context, col string, out any) error {
	return s.listWhere(ctx, col, "", nil, out)
}

// ListByIndex decodifica en out los documentos cuya columna de índice tenga el valor dado.
func (s *Store) ListByIndex(ctx context.Context, col, indexCol, value string, out any) error {
	if err := validIndex(col, indexCol); err != nil {
		return err
	}
	return s.listWhere(ctx, col, fmt.Sprintf("WHERE %s = ?", indexCol), []any{value}, out)
}

func (s *Store) listWhere(ctx context.Context, col, where string, args []any, out any) error {
	if s.fallback {
		return json.Unmarshal([]byte("[]"), out)
	}
	if _, ok := colSpecs[col]; !ok {
		return fmt.Errorf("colección desconocida: %s", col)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT data FROM %s %s", col, where), args...)
	if err != nil {
		return fmt.Errorf("listar %s: %w", col, err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scan de %s: %w", col, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("cursor de %s: %w", col, err)
	}
	joined, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("agrupar %s: %w", col, err)
	}
	if err := json.Unmarshal(joined, out); err != nil {
		return &domain.MappingError{Entity: col, Field: "data", Err: err}
	}
	return nil
}

// Count devuelve el número de documentos de la colección (0 en modo fallback).
func (s *Store) Count(ctx context.Context, col string) (int, error) {
	if s.fallback {
		return 0, nil
	}
	if _, ok := colSpecs[col]; !ok {
		return 0, fmt.Errorf("colección desconocida: %s", col)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", col)).Scan(&n); err != nil {
		return 0, fmt.Errorf("contar %s: %w", col, err)
	}
	return n, nil
}

// DeleteLogsBefore elimina los logs locales con timestamp anterior a cutoff
// mediante un range scan sobre el índice ts.
func (s *Store) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.fallback {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM logs WHERE ts > 0 AND ts < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("barrer logs: %w", err)
	}
	return res.RowsAffected()
}

// SetFlag guarda un marcador local (ej. migration_done_<userId>).
func (s *Store) SetFlag(ctx context.Context, key, value string) error {
	if s.fallback {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO flags (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("guardar flag %s: %w", key, err)
	}
	return nil
}

// GetFlag lee un marcador local. Devuelve false si no existe (o en modo fallback).
func (s *Store) GetFlag(ctx context.Context, key string) (string, bool, error) {
	if s.fallback {
		return "", false, nil
	}
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM flags WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("leer flag %s: %w", key, err)
	}
	return value, true, nil
}

// RawDoc documento serializado tal cual se guarda en una colección (export/import).
type RawDoc struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// ListRaw devuelve todos los documentos de la colección sin decodificar.
func (s *Store) ListRaw(ctx context.Context, col string) ([]RawDoc, error) {
	if s.fallback {
		return []RawDoc{}, nil
	}
	if _, ok := colSpecs[col]; !ok {
		return nil, fmt.Errorf("colección desconocida: %s", col)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, data FROM %s", col))
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", col, err)
	}
	defer rows.Close()

	docs := make([]RawDoc, 0)
	for rows.Next() {
		var d RawDoc
		var data string
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, fmt.Errorf("scan de %s: %w", col, err)
		}
		d.Data = json.RawMessage(data)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func validIndex(col, indexCol string) error {
	spec, ok := colSpecs[col]
	if !ok {
		return fmt.Errorf("colección desconocida: %s", col)
	}
	for _, c := range spec.indexCols {
		if c == indexCol {
			return nil
		}
	}
	return fmt.Errorf("índice %s no definido en %s", indexCol, col)
}
