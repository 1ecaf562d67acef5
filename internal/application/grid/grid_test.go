package grid_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/items-grid/internal/application/grid"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Gateway falso
// ──────────────────────────────────────────────────────────────────────────────

var errServer = fmt.Errorf("500: %w", domain.ErrNetworkFailure)

type fakeGateway struct {
	mu      sync.Mutex
	items   []entity.Item
	nextID  int
	created []entity.Item
	updated []entity.Item
	deleted []string

	fetchErr  error
	createErr error
	updateErr []error // se consume uno por llamada
	deleteErr error

	// si no es nil, Create/Update esperan a que se cierre antes de responder
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeGateway) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeGateway) FetchAll(context.Context) ([]entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]entity.Item(nil), f.items...), nil
}

func (f *fakeGateway) Create(_ context.Context, fields entity.Item) (entity.Item, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, fields)
	if f.createErr != nil {
		return entity.Item{}, f.createErr
	}
	f.nextID++
	fields.ID = fmt.Sprintf("srv-%d", f.nextID)
	f.items = append(f.items, fields)
	return fields, nil
}

func (f *fakeGateway) Update(_ context.Context, id string, fields entity.Item) (entity.Item, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, fields)
	if len(f.updateErr) > 0 {
		err := f.updateErr[0]
		f.updateErr = f.updateErr[1:]
		if err != nil {
			return entity.Item{}, err
		}
	}
	fields.ID = id
	fields.Price = fields.Price.Round(2)
	return fields, nil
}

func (f *fakeGateway) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newGrid(t *testing.T, gw *fakeGateway) *grid.Grid {
	t.Helper()
	g := grid.New(gw, grid.Config{
		Categories:     testCategories,
		DebounceWindow: time.Hour, // las ediciones sólo se aplican con Commit/Save
		DismissAfter:   time.Hour,
	}, nil, seqIDs())
	t.Cleanup(g.Close)
	return g
}

func seeded() *fakeGateway {
	return &fakeGateway{items: []entity.Item{
		{ID: "1", Name: "TV", Category: "Electronics", Price: dec("300")},
		{ID: "2", Name: "Shirt", Category: "Clothing", Price: dec("20")},
		{ID: "3", Name: "Apple", Category: "Food", Price: dec("0.5")},
	}}
}

func assertNotification(t *testing.T, g *grid.Grid, msg string, sev grid.Severity) {
	t.Helper()
	n := g.Notification()
	assert.True(t, n.Visible, "debe haber una notificación visible")
	assert.Equal(t, msg, n.Message)
	assert.Equal(t, sev, n.Severity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga y filtro
// ──────────────────────────────────────────────────────────────────────────────

func TestGrid_Load(t *testing.T) {
	g := newGrid(t, seeded())
	require.NoError(t, g.Load(context.Background()))

	assert.Equal(t, 3, g.Total())
	for _, r := range g.Rows() {
		assert.True(t, r.Persisted())
	}
	assert.False(t, g.Notification().Visible, "una carga exitosa no notifica")
}

func TestGrid_LoadFalla_FilasIntactas(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	require.NoError(t, g.Load(context.Background()))
	g.AddRow()

	gw.fetchErr = errServer
	err := g.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Len(t, g.Rows(), 4, "las filas no cambian si la carga falla")
	assertNotification(t, g, grid.MsgLoadFailed, grid.SeverityError)
}

func TestGrid_FiltroYAltaHeredaCategoria(t *testing.T) {
	g := newGrid(t, seeded())
	require.NoError(t, g.Load(context.Background()))

	require.NoError(t, g.SetFilter("Food"))
	assert.Equal(t, entity.Category("Food"), g.Filter())
	assert.Equal(t, 1, g.Total())

	row := g.AddRow()
	assert.Equal(t, entity.Category("Food"), row.Category, "el borrador hereda el filtro activo")
	assert.Equal(t, 2, g.Total(), "el borrador queda visible bajo el filtro")

	require.NoError(t, g.SetFilter("All"))
	assert.Equal(t, entity.CategoryUnset, g.AddRow().Category)
	assert.Equal(t, 5, g.Total())

	assert.ErrorIs(t, g.SetFilter("Weapons"), domain.ErrInvalidCategory)
	assert.Equal(t, entity.CategoryAll, g.Filter())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ediciones
// ──────────────────────────────────────────────────────────────────────────────

func TestGrid_EditValida(t *testing.T) {
	g := newGrid(t, seeded())
	row := g.AddRow()

	assert.ErrorIs(t, g.Edit("nope", entity.FieldName, "x"), domain.ErrRowNotFound)
	assert.ErrorIs(t, g.Edit(row.RowID, entity.Field("color"), "x"), domain.ErrUnknownField)
	assert.ErrorIs(t, g.Edit(row.RowID, entity.FieldCategory, "Weapons"), domain.ErrInvalidCategory)

	require.NoError(t, g.Edit(row.RowID, entity.FieldPrice, "4.25"))
	got, _ := g.Row(row.RowID)
	assert.True(t, got.Price.IsZero(), "la edición queda pendiente hasta Commit")

	require.NoError(t, g.Commit(row.RowID))
	got, _ = g.Row(row.RowID)
	assert.True(t, dec("4.25").Equal(got.Price))
}

func TestGrid_EditSeAplicaTrasLaVentana(t *testing.T) {
	gw := seeded()
	g := grid.New(gw, grid.Config{Categories: testCategories, DebounceWindow: 20 * time.Millisecond}, nil, seqIDs())
	defer g.Close()
	row := g.AddRow()

	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "Wid"))
	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "Widget"))

	assert.Eventually(t, func() bool {
		r, _ := g.Row(row.RowID)
		return r.Name == "Widget"
	}, time.Second, 5*time.Millisecond)
}

// ──────────────────────────────────────────────────────────────────────────────
// Save
// ──────────────────────────────────────────────────────────────────────────────

// Guardar antes de que cierre la ventana de debounce envía el último valor tecleado.
func TestGrid_SaveAntesDelDebounceEnviaUltimoValor(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	row := g.AddRow()

	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "Widget"))
	require.NoError(t, g.Edit(row.RowID, entity.FieldCategory, "Toys"))
	require.NoError(t, g.Edit(row.RowID, entity.FieldPrice, "9.99"))
	require.NoError(t, g.Save(context.Background(), row.RowID))

	require.Len(t, gw.created, 1)
	assert.Equal(t, "Widget", gw.created[0].Name)
	assert.Equal(t, entity.Category("Toys"), gw.created[0].Category)
	assert.True(t, dec("9.99").Equal(gw.created[0].Price))

	got, ok := g.Row(row.RowID)
	require.True(t, ok)
	assert.False(t, got.IsNew)
	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, row.RowID, got.RowID)
	assertNotification(t, g, grid.MsgAdded, grid.SeveritySuccess)
}

func TestGrid_CreateFalla_FilaSigueSiendoBorrador(t *testing.T) {
	gw := &fakeGateway{createErr: errServer}
	g := newGrid(t, gw)
	row := g.AddRow()
	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "Widget"))

	err := g.Save(context.Background(), row.RowID)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	got, _ := g.Row(row.RowID)
	assert.True(t, got.IsNew)
	assert.Empty(t, got.ID)
	assert.Equal(t, "Widget", got.Name, "la edición local se conserva")
	assertNotification(t, g, grid.MsgAddFailed, grid.SeverityError)
	assert.False(t, g.InFlight(row.RowID))
}

func TestGrid_SaveDosVecesCreaYLuegoActualiza(t *testing.T) {
	gw := &fakeGateway{}
	g := newGrid(t, gw)
	row := g.AddRow()
	require.NoError(t, g.Save(context.Background(), row.RowID))
	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "Renamed"))
	require.NoError(t, g.Save(context.Background(), row.RowID))

	assert.Len(t, gw.created, 1, "un solo Create por fila")
	require.Len(t, gw.updated, 1)
	assert.Equal(t, "srv-1", gw.updated[0].ID)
	assert.Equal(t, "Renamed", gw.updated[0].Name)
	assertNotification(t, g, grid.MsgUpdated, grid.SeveritySuccess)
}

// Un Update que falla por timeout y luego se reintenta con éxito deja una sola fila con el ID original.
func TestGrid_UpdateTimeoutYReintento(t *testing.T) {
	gw := seeded()
	gw.updateErr = []error{fmt.Errorf("timeout: %w", domain.ErrNetworkFailure), nil}
	g := newGrid(t, gw)
	require.NoError(t, g.Load(context.Background()))
	target := g.Rows()[0]

	require.NoError(t, g.Edit(target.RowID, entity.FieldPrice, "310.456"))
	assert.Error(t, g.Save(context.Background(), target.RowID))
	assertNotification(t, g, grid.MsgUpdateFailed, grid.SeverityError)

	got, _ := g.Row(target.RowID)
	assert.True(t, dec("310.456").Equal(got.Price), "sin rollback: la edición queda visible")

	require.NoError(t, g.Save(context.Background(), target.RowID))
	assertNotification(t, g, grid.MsgUpdated, grid.SeveritySuccess)

	rows := g.Rows()
	assert.Len(t, rows, 3)
	matches := 0
	for _, r := range rows {
		if r.ID == "1" {
			matches++
			assert.True(t, dec("310.46").Equal(r.Price), "se aplica el valor canónico del servidor")
		}
	}
	assert.Equal(t, 1, matches)
}

func TestGrid_SaveFilaInexistente(t *testing.T) {
	g := newGrid(t, seeded())
	assert.ErrorIs(t, g.Save(context.Background(), "nope"), domain.ErrRowNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestGrid_DeleteBorradorEsLocal(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	row := g.AddRow()
	require.NoError(t, g.Edit(row.RowID, entity.FieldName, "pendiente"))

	require.NoError(t, g.Delete(context.Background(), row.RowID))
	_, ok := g.Row(row.RowID)
	assert.False(t, ok)
	assert.Empty(t, gw.deleted, "un borrador no llama al servidor")
	assertNotification(t, g, grid.MsgRemoved, grid.SeverityWarning)
}

func TestGrid_DeletePersistida(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	require.NoError(t, g.Load(context.Background()))
	target := g.Rows()[1]

	require.NoError(t, g.Delete(context.Background(), target.RowID))
	assert.Equal(t, []string{"2"}, gw.deleted)
	assert.Len(t, g.Rows(), 2)
	assertNotification(t, g, grid.MsgDeleted, grid.SeverityWarning)
}

// Un 500 en el borrado deja la fila intacta y notifica el error.
func TestGrid_DeleteFalla_FilaIntacta(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	require.NoError(t, g.Load(context.Background()))
	target := g.Rows()[0]

	gw.deleteErr = errServer
	err := g.Delete(context.Background(), target.RowID)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	got, ok := g.Row(target.RowID)
	require.True(t, ok)
	assert.Equal(t, target, got)
	assert.Len(t, g.Rows(), 3)
	assertNotification(t, g, grid.MsgDeleteFailed, grid.SeverityError)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Una segunda acción sobre una fila con operación en curso se rechaza.
func TestGrid_FilaOcupada(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	require.NoError(t, g.Load(context.Background()))
	target := g.Rows()[0]

	gw.gate = make(chan struct{})
	gw.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- g.Save(context.Background(), target.RowID) }()
	<-gw.started
	assert.True(t, g.InFlight(target.RowID))

	assert.ErrorIs(t, g.Save(context.Background(), target.RowID), domain.ErrRowBusy)
	assert.ErrorIs(t, g.Delete(context.Background(), target.RowID), domain.ErrRowBusy)
	assertNotification(t, g, grid.MsgRowBusy, grid.SeverityWarning)

	close(gw.gate)
	require.NoError(t, <-done)
	assert.False(t, g.InFlight(target.RowID))
	assert.Len(t, gw.updated, 1, "la acción rechazada no llega al servidor")
	assert.Empty(t, gw.deleted)
}

// Si la fila desaparece (recarga) mientras su Create está en curso, el resultado se descarta.
func TestGrid_CreateDescartadoTrasRecarga(t *testing.T) {
	gw := seeded()
	g := newGrid(t, gw)
	row := g.AddRow()

	gw.gate = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- g.Save(context.Background(), row.RowID) }()
	<-gw.started

	require.NoError(t, g.Load(context.Background()))
	close(gw.gate)
	require.NoError(t, <-done)

	_, ok := g.Row(row.RowID)
	assert.False(t, ok, "la fila no se resucita")
	assert.Len(t, g.Rows(), 3)
}

func TestGrid_Subscribe(t *testing.T) {
	g := newGrid(t, seeded())
	var mu sync.Mutex
	calls := 0
	unsub := g.Subscribe(func([]entity.Row) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer unsub()

	require.NoError(t, g.Load(context.Background()))
	g.AddRow()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestGrid_DismissNotification(t *testing.T) {
	gw := &fakeGateway{fetchErr: errors.New("down")}
	g := newGrid(t, gw)
	_ = g.Load(context.Background())
	require.True(t, g.Notification().Visible)

	g.DismissNotification()
	assert.False(t, g.Notification().Visible)
	assert.Equal(t, grid.MsgLoadFailed, g.Notification().Message)
}
