package localdb_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

func openTestStore(t *testing.T) *localdb.Store {
	t.Helper()
	s := localdb.Open(filepath.Join(t.TempDir(), "cache.db"), logger.Nop())
	require.False(t, s.Fallback(), "el almacén de test debe abrir en modo normal")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Round-trip local: save(x) seguido de get(x.id) devuelve un valor igual campo a campo.
func TestStore_PutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := entity.Project{
		ID:         uuid.New().String(),
		CompanyID:  "empresa-1",
		Name:       "Reforma web",
		Objectives: []string{"lanzar portal", "migrar clientes"},
		Status:     entity.ProjectStatusActive,
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Put(ctx, domain.ColProjects, p.ID, p))

	var got entity.Project
	found, err := s.Get(ctx, domain.ColProjects, p.ID, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, p, got)
}

// Put con el mismo id reemplaza el documento completo (sin patch parcial).
func TestStore_PutReemplazaDocumentoCompleto(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task := entity.Task{ID: "t1", ProjectID: "p1", CompanyID: "c1", Title: "original", Involved: "equipo A"}
	require.NoError(t, s.Put(ctx, domain.ColTasks, task.ID, task))

	task.Title = "editado"
	task.Involved = "" // el reemplazo debe borrar campos ausentes
	require.NoError(t, s.Put(ctx, domain.ColTasks, task.ID, task))

	var got entity.Task
	found, err := s.Get(ctx, domain.ColTasks, task.ID, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "editado", got.Title)
	assert.Empty(t, got.Involved)
}

// ListByIndex filtra por la columna de índice secundario companyId.
func TestStore_ListByIndexCompanyID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, companyID := range []string{"c1", "c1", "c2"} {
		p := entity.Project{ID: uuid.New().String(), CompanyID: companyID, Name: "p"}
		require.NoError(t, s.Put(ctx, domain.ColProjects, p.ID, p), "proyecto %d", i)
	}

	var got []entity.Project
	require.NoError(t, s.ListByIndex(ctx, domain.ColProjects, "company_id", "c1", &got))
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "c1", p.CompanyID)
	}
}

// El índice único de email rechaza dos usuarios distintos con el mismo email.
func TestStore_EmailUnicoEnUsuarios(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u1 := entity.User{ID: "u1", CompanyID: "c1", Email: "ana@acme.com"}
	u2 := entity.User{ID: "u2", CompanyID: "c1", Email: "ana@acme.com"}
	require.NoError(t, s.Put(ctx, domain.ColUsers, u1.ID, u1))

	err := s.Put(ctx, domain.ColUsers, u2.ID, u2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// El mismo usuario puede reescribirse (upsert por id, no conflicto de email).
	require.NoError(t, s.Put(ctx, domain.ColUsers, u1.ID, u1))
}

// DeleteByIndex elimina todos los documentos de una empresa.
func TestStore_DeleteByIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, domain.ColTasks, "t1", entity.Task{ID: "t1", CompanyID: "c1"}))
	require.NoError(t, s.Put(ctx, domain.ColTasks, "t2", entity.Task{ID: "t2", CompanyID: "c1"}))
	require.NoError(t, s.Put(ctx, domain.ColTasks, "t3", entity.Task{ID: "t3", CompanyID: "c2"}))

	require.NoError(t, s.DeleteByIndex(ctx, domain.ColTasks, "company_id", "c1"))

	n, err := s.Count(ctx, domain.ColTasks)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// DeleteLogsBefore elimina solo los logs anteriores al corte (range scan por ts).
func TestStore_DeleteLogsBefore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := entity.ActivityLog{ID: "l1", CompanyID: "c1", Action: entity.ActionLogin, Timestamp: now.AddDate(0, 0, -40)}
	recent := entity.ActivityLog{ID: "l2", CompanyID: "c1", Action: entity.ActionLogin, Timestamp: now}
	require.NoError(t, s.Put(ctx, domain.ColLogs, old.ID, old))
	require.NoError(t, s.Put(ctx, domain.ColLogs, recent.ID, recent))

	n, err := s.DeleteLogsBefore(ctx, now.AddDate(0, 0, -localdb.RetentionDays))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got entity.ActivityLog
	found, err := s.Get(ctx, domain.ColLogs, recent.ID, &got)
	require.NoError(t, err)
	assert.True(t, found, "el log reciente debe sobrevivir al barrido")
}

// Los marcadores locales persisten entre aperturas del mismo archivo.
func TestStore_FlagsPersistenEntreAperturas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	s1 := localdb.Open(path, logger.Nop())
	require.False(t, s1.Fallback())
	require.NoError(t, s1.SetFlag(ctx, "migration_done_u1", "true"))
	require.NoError(t, s1.Close())

	s2 := localdb.Open(path, logger.Nop())
	defer s2.Close()
	v, ok, err := s2.GetFlag(ctx, "migration_done_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

// Modo fallback: lecturas vacías, escrituras y borrados triviales sin error.
func TestStore_ModoFallback(t *testing.T) {
	s := localdb.Open(filepath.Join(t.TempDir(), "no-existe", "sub", "cache.db"), logger.Nop())
	require.True(t, s.Fallback(), "una ruta inaccesible debe degradar a fallback")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, domain.ColCompanies, "c1", entity.Company{ID: "c1", Name: "Acme"}))
	require.NoError(t, s.Delete(ctx, domain.ColCompanies, "c1"))
	require.NoError(t, s.SetFlag(ctx, "k", "v"))

	var got entity.Company
	found, err := s.Get(ctx, domain.ColCompanies, "c1", &got)
	require.NoError(t, err)
	assert.False(t, found, "las lecturas en fallback devuelven vacío")

	var list []entity.Company
	require.NoError(t, s.List(ctx, domain.ColCompanies, &list))
	assert.Empty(t, list)

	_, ok, err := s.GetFlag(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
