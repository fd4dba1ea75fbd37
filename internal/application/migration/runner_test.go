package migration_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-pro/internal/application/migration"
	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/domain/entity"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

type fakeLocal struct {
	docs  map[string]map[string][]byte // colección -> id -> json
	flags map[string]string
}

func newFakeLocal() *fakeLocal {
	docs := make(map[string]map[string][]byte)
	for _, c := range domain.Collections {
		docs[c] = make(map[string][]byte)
	}
	return &fakeLocal{docs: docs, flags: map[string]string{}}
}

func (f *fakeLocal) put(t *testing.T, col, id string, doc any) {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	f.docs[col][id] = b
}

func (f *fakeLocal) ListByIndex(_ context.Context, col, indexCol, value string, out any) error {
	raws := make([]json.RawMessage, 0)
	for _, b := range f.docs[col] {
		var doc map[string]any
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		key := "companyId"
		if indexCol == "project_id" {
			key = "projectId"
		}
		if s, _ := doc[key].(string); s == value {
			raws = append(raws, json.RawMessage(b))
		}
	}
	joined, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(joined, out)
}

func (f *fakeLocal) GetFlag(_ context.Context, key string) (string, bool, error) {
	v, ok := f.flags[key]
	return v, ok, nil
}

func (f *fakeLocal) SetFlag(_ context.Context, key, value string) error {
	f.flags[key] = value
	return nil
}

type fakeRemote struct {
	projects    map[string]entity.Project
	tasks       map[string]entity.Task
	accessories map[string]entity.AccessoryTask

	calls      int // llamadas de red totales
	failTaskID string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		projects:    map[string]entity.Project{},
		tasks:       map[string]entity.Task{},
		accessories: map[string]entity.AccessoryTask{},
	}
}

func (f *fakeRemote) ListProjectsByCompany(_ context.Context, companyID string) ([]entity.Project, error) {
	f.calls++
	var out []entity.Project
	for _, p := range f.projects {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRemote) UpsertProject(_ context.Context, p *entity.Project) error {
	f.calls++
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeRemote) UpsertTask(_ context.Context, t *entity.Task) error {
	f.calls++
	if t.ID == f.failTaskID {
		return errors.New("violación de esquema")
	}
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeRemote) UpsertAccessoryTask(_ context.Context, t *entity.AccessoryTask) error {
	f.calls++
	f.accessories[t.ID] = *t
	return nil
}

func seedLocal(t *testing.T, local *fakeLocal, companyID string, nProjects int) {
	t.Helper()
	for i := 0; i < nProjects; i++ {
		id := string(rune('a'+i)) + "-" + companyID
		local.put(t, domain.ColProjects, id, entity.Project{ID: id, CompanyID: companyID, Name: "Proyecto " + id})
		local.put(t, domain.ColTasks, id+"-t", entity.Task{ID: id + "-t", ProjectID: id, CompanyID: companyID})
	}
	local.put(t, domain.ColAccessoryTasks, companyID+"-a", entity.AccessoryTask{ID: companyID + "-a", CompanyID: companyID})
}

// Escenario principal: 3 proyectos locales, remoto vacío -> tras la migración
// el remoto tiene exactamente esos ids y el marcador queda escrito.
func TestRun_MigraDatosHeredados(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	seedLocal(t, local, "c1", 3)

	r := migration.NewRunner(local, remote, logger.Nop())
	migrated, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.True(t, migrated)

	assert.Len(t, remote.projects, 3)
	for id := range remote.projects {
		_, existe := local.docs[domain.ColProjects][id]
		assert.True(t, existe, "el remoto solo debe contener ids locales")
	}
	assert.Len(t, remote.tasks, 3)
	assert.Len(t, remote.accessories, 1)

	_, done, _ := local.GetFlag(context.Background(), migration.DoneFlag("u1"))
	assert.True(t, done)
}

// Segunda ejecución para el mismo usuario: cero llamadas de red y sin filas
// duplicadas.
func TestRun_SegundaEjecucionSinLlamadasDeRed(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	seedLocal(t, local, "c1", 2)

	r := migration.NewRunner(local, remote, logger.Nop())
	_, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)

	antes := remote.calls
	migrated, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, antes, remote.calls, "el marcador debe evitar toda llamada de red")
	assert.Len(t, remote.projects, 2)
}

// Sin marcador (p. ej. caché local borrada) la re-ejecución es una
// sobrescritura inocua, no una duplicación.
func TestRun_SinMarcadorReejecutaComoNoOp(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	seedLocal(t, local, "c1", 2)

	r := migration.NewRunner(local, remote, logger.Nop())
	_, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)

	delete(local.flags, migration.DoneFlag("u1"))
	// El remoto ya tiene proyectos: el disparador no se cumple.
	migrated, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Len(t, remote.projects, 2)

	_, done, _ := local.GetFlag(context.Background(), migration.DoneFlag("u1"))
	assert.True(t, done, "el marcador se reescribe para logins futuros")
}

// Sin proyectos locales: atajo idempotente, marcador escrito, nada subido.
func TestRun_SinDatosLocalesMarcaYTermina(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()

	r := migration.NewRunner(local, remote, logger.Nop())
	migrated, err := r.Run(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Empty(t, remote.projects)

	_, done, _ := local.GetFlag(context.Background(), migration.DoneFlag("u1"))
	assert.True(t, done)
}

// Fallo parcial: un solo error agregado, sin marcador y sin reintento.
func TestRun_FalloParcialAgregaErroresYNoMarca(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	seedLocal(t, local, "c1", 2)
	remote.failTaskID = "a-c1-t"

	r := migration.NewRunner(local, remote, logger.Nop())
	migrated, err := r.Run(context.Background(), "c1", "u1")
	require.Error(t, err)
	assert.False(t, migrated)
	assert.ErrorIs(t, err, domain.ErrMigrationFailed)
	assert.Contains(t, err.Error(), "a-c1-t")

	// Los proyectos sí subieron; la migración no es transaccional.
	assert.Len(t, remote.projects, 2)
	_, done, _ := local.GetFlag(context.Background(), migration.DoneFlag("u1"))
	assert.False(t, done, "un fallo parcial no debe marcar la migración como hecha")
}
