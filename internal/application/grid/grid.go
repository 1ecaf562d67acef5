// Package grid contiene el estado del grid editable de ítems: el store de filas,
// la proyección filtrada, el canal de notificaciones, el debounce de ediciones y el
// controlador que reconcilia el estado local con el recurso remoto.
//
// Ciclo de vida de una fila:
//
//	AddRow ──► borrador (IsNew) ──Save/Create ok──► persistida (ID) ──Save/Update──► persistida
//	   │                │                                   │
//	   │           Delete (local)                   Delete remoto ok
//	   ▼                ▼                                   ▼
//	               eliminada                           eliminada
//
// Cada fila admite una sola operación remota a la vez; una segunda acción sobre la misma
// fila mientras la primera está en curso se rechaza con domain.ErrRowBusy.
package grid

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/items-grid/internal/application/ports"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/pkg/logger"
)

// Mensajes mostrados en el canal de notificaciones. No exponen el detalle del fallo.
const (
	MsgLoadFailed    = "No se pudieron cargar los datos"
	MsgAdded         = "Ítem agregado correctamente"
	MsgAddFailed     = "No se pudo agregar el ítem"
	MsgUpdated       = "Ítem actualizado correctamente"
	MsgUpdateFailed  = "No se pudo actualizar el ítem"
	MsgDeleted       = "Ítem eliminado de la base de datos"
	MsgDeleteFailed  = "No se pudo eliminar el ítem"
	MsgRemoved       = "Fila eliminada"
	MsgRowBusy       = "La fila tiene una operación en curso"
	MsgInvalidValue  = "Valor inválido"
	MsgMissingItemID = "La fila no tiene ID del servidor"
)

// Config parámetros del grid.
type Config struct {
	Categories     entity.CategorySet
	DebounceWindow time.Duration // 0 -> DefaultDebounceWindow
	DismissAfter   time.Duration // 0 -> DefaultDismissAfter
}

// Grid controlador del grid editable: traduce las acciones del usuario a mutaciones del
// RowStore y llamadas al ItemsGateway, y publica el resultado en el Notifier.
type Grid struct {
	cfg      Config
	gateway  ports.ItemsGateway
	log      *logger.Logger
	store    *RowStore
	view     *FilterView
	notifier *Notifier
	edits    *Debouncer

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New construye el grid vacío. Llamar Load para traer la colección remota.
func New(gateway ports.ItemsGateway, cfg Config, log *logger.Logger, opts ...StoreOption) *Grid {
	if log == nil {
		log = logger.Nop()
	}
	g := &Grid{
		cfg:      cfg,
		gateway:  gateway,
		log:      log.Named("grid"),
		store:    NewRowStore(cfg.Categories, opts...),
		notifier: NewNotifier(cfg.DismissAfter),
		inflight: map[string]struct{}{},
	}
	g.view = NewFilterView(g.store)
	g.edits = NewDebouncer(cfg.DebounceWindow, g.store.UpdateField, func(rowID string, field entity.Field, err error) {
		g.log.Debug().Err(err).Str("row_id", rowID).Str("field", string(field)).Msg("edición diferida descartada")
	})
	return g
}

// Load reemplaza todas las filas por la colección remota. Si falla, las filas no cambian
// y se notifica un error.
func (g *Grid) Load(ctx context.Context) error {
	items, err := g.gateway.FetchAll(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("carga inicial de ítems")
		g.notifier.Show(MsgLoadFailed, SeverityError)
		return err
	}
	rows := g.store.ReplaceAll(items)
	g.log.Debug().Int("rows", len(rows)).Msg("ítems cargados")
	return nil
}

// AddRow agrega un borrador. Si hay un filtro de categoría activo, el borrador lo hereda.
func (g *Grid) AddRow() entity.Row {
	category := entity.CategoryUnset
	if f := g.view.Category(); f != entity.CategoryAll {
		category = f
	}
	row := g.store.AddDraft(category)
	g.log.Debug().Str("row_id", row.RowID).Str("category", string(category)).Msg("borrador agregado")
	return row
}

// Edit registra una edición de celda; se aplica al store al cerrar la ventana de debounce
// o en el próximo Save/Commit de la fila.
func (g *Grid) Edit(rowID string, field entity.Field, value string) error {
	if _, ok := g.store.Get(rowID); !ok {
		return domain.ErrRowNotFound
	}
	switch field {
	case entity.FieldName, entity.FieldPrice:
	case entity.FieldCategory:
		if _, err := g.cfg.Categories.Parse(value); err != nil {
			return err
		}
	default:
		return domain.ErrUnknownField
	}
	g.edits.Push(rowID, field, value)
	return nil
}

// Commit aplica ya las ediciones pendientes de la fila.
func (g *Grid) Commit(rowID string) error {
	return g.edits.Flush(rowID)
}

// Save persiste la fila: Create si es borrador, Update si ya tiene ID.
// Las ediciones pendientes se aplican antes de leer la fila.
func (g *Grid) Save(ctx context.Context, rowID string) error {
	if err := g.edits.Flush(rowID); err != nil {
		if errors.Is(err, domain.ErrRowNotFound) {
			return err
		}
		g.notifier.Show(MsgInvalidValue, SeverityWarning)
		return err
	}

	release, err := g.acquire(rowID)
	if err != nil {
		return err
	}
	defer release()

	row, ok := g.store.Get(rowID)
	if !ok {
		return domain.ErrRowNotFound
	}
	if row.IsNew {
		return g.create(ctx, row)
	}
	return g.update(ctx, row)
}

func (g *Grid) create(ctx context.Context, row entity.Row) error {
	item, err := g.gateway.Create(ctx, row.Fields())
	if err != nil {
		g.log.Error().Err(err).Str("row_id", row.RowID).Msg("crear ítem")
		g.notifier.Show(MsgAddFailed, SeverityError)
		return err
	}
	if !g.store.MarkPersisted(row.RowID, item) {
		// la fila se eliminó mientras el Create estaba en curso
		g.log.Warn().Str("row_id", row.RowID).Str("id", item.ID).Msg("resultado de creación descartado")
	}
	g.log.Debug().Str("row_id", row.RowID).Str("id", item.ID).Msg("ítem creado")
	g.notifier.Show(MsgAdded, SeveritySuccess)
	return nil
}

func (g *Grid) update(ctx context.Context, row entity.Row) error {
	if row.ID == "" {
		g.notifier.Show(MsgMissingItemID, SeverityError)
		return domain.ErrInvalidInput
	}
	item, err := g.gateway.Update(ctx, row.ID, row.Fields())
	if err != nil {
		// sin rollback: la edición queda visible para reintentar
		g.log.Error().Err(err).Str("row_id", row.RowID).Str("id", row.ID).Msg("actualizar ítem")
		g.notifier.Show(MsgUpdateFailed, SeverityError)
		return err
	}
	g.store.ApplyCanonical(row.RowID, item)
	g.log.Debug().Str("row_id", row.RowID).Str("id", row.ID).Msg("ítem actualizado")
	g.notifier.Show(MsgUpdated, SeveritySuccess)
	return nil
}

// Delete elimina la fila. Un borrador se elimina sólo localmente; una fila persistida se
// elimina en el servidor y, si éste confirma, localmente. Si el servidor falla la fila queda intacta.
func (g *Grid) Delete(ctx context.Context, rowID string) error {
	release, err := g.acquire(rowID)
	if err != nil {
		return err
	}
	defer release()

	row, ok := g.store.Get(rowID)
	if !ok {
		return domain.ErrRowNotFound
	}
	if row.ID == "" {
		g.edits.Cancel(rowID)
		g.store.RemoveLocal(rowID)
		g.notifier.Show(MsgRemoved, SeverityWarning)
		return nil
	}
	if err := g.gateway.Delete(ctx, row.ID); err != nil {
		g.log.Error().Err(err).Str("row_id", rowID).Str("id", row.ID).Msg("eliminar ítem")
		g.notifier.Show(MsgDeleteFailed, SeverityError)
		return err
	}
	g.edits.Cancel(rowID)
	g.store.RemoveLocal(rowID)
	g.log.Debug().Str("row_id", rowID).Str("id", row.ID).Msg("ítem eliminado")
	g.notifier.Show(MsgDeleted, SeverityWarning)
	return nil
}

// SetFilter cambia la categoría del filtro ("All" o una categoría del conjunto).
func (g *Grid) SetFilter(value string) error {
	c, err := g.cfg.Categories.ParseFilter(value)
	if err != nil {
		return err
	}
	g.view.SetCategory(c)
	return nil
}

// Filter categoría activa del filtro.
func (g *Grid) Filter() entity.Category { return g.view.Category() }

// Visible filas de la proyección filtrada.
func (g *Grid) Visible() []entity.Row { return g.view.Visible() }

// Rows todas las filas.
func (g *Grid) Rows() []entity.Row { return g.store.Rows() }

// Row devuelve la fila rowID.
func (g *Grid) Row(rowID string) (entity.Row, bool) { return g.store.Get(rowID) }

// Total número de filas visibles.
func (g *Grid) Total() int { return g.view.Len() }

// Categories conjunto cerrado de categorías.
func (g *Grid) Categories() []entity.Category { return g.cfg.Categories.List() }

// Notification estado actual del canal de notificaciones.
func (g *Grid) Notification() Notification { return g.notifier.Current() }

// DismissNotification oculta la notificación actual.
func (g *Grid) DismissNotification() { g.notifier.Dismiss() }

// OnNotify registra fn para cada cambio del canal de notificaciones.
func (g *Grid) OnNotify(fn func(Notification)) { g.notifier.OnChange(fn) }

// Subscribe registra fn para cada cambio de filas.
func (g *Grid) Subscribe(fn Listener) func() { return g.store.Subscribe(fn) }

// InFlight indica si la fila tiene una operación remota en curso.
func (g *Grid) InFlight(rowID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[rowID]
	return ok
}

// Close cancela ediciones y temporizadores pendientes.
func (g *Grid) Close() {
	g.edits.Close()
	g.notifier.Close()
	g.view.Close()
}

// acquire marca la fila como ocupada; la segunda acción concurrente recibe ErrRowBusy.
func (g *Grid) acquire(rowID string) (func(), error) {
	g.mu.Lock()
	if _, busy := g.inflight[rowID]; busy {
		g.mu.Unlock()
		g.notifier.Show(MsgRowBusy, SeverityWarning)
		return nil, domain.ErrRowBusy
	}
	g.inflight[rowID] = struct{}{}
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.inflight, rowID)
		g.mu.Unlock()
	}, nil
}
