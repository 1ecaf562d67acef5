package grid

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/items-grid/internal/domain/entity"
)

// DefaultDebounceWindow ventana de coalescencia de teclas sobre una misma celda.
const DefaultDebounceWindow = 200 * time.Millisecond

// ApplyFunc aplica un valor a una celda (normalmente RowStore.UpdateField).
type ApplyFunc func(rowID string, field entity.Field, value string) error

type cellKey struct {
	rowID string
	field entity.Field
}

type pendingEdit struct {
	value string
	timer *time.Timer
	gen   uint64
}

// Debouncer agrupa ediciones sucesivas de una celda y aplica sólo el último valor
// cuando pasa la ventana sin nuevas teclas. Cada celda tiene su propio temporizador.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	apply   ApplyFunc
	onError func(rowID string, field entity.Field, err error)
	pending map[cellKey]*pendingEdit
	gen     uint64
	closed  bool

	// applying cuenta, por fila, los disparos de temporizador que ya salieron de pending
	// pero cuyo apply aún no terminó. take espera a que lleguen a cero.
	applying map[string]int
	idle     *sync.Cond
}

// NewDebouncer construye el debouncer. window <= 0 usa DefaultDebounceWindow.
func NewDebouncer(window time.Duration, apply ApplyFunc, onError func(string, entity.Field, error)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if onError == nil {
		onError = func(string, entity.Field, error) {}
	}
	d := &Debouncer{
		window:   window,
		apply:    apply,
		onError:  onError,
		pending:  map[cellKey]*pendingEdit{},
		applying: map[string]int{},
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Push registra un nuevo valor para la celda y reinicia su temporizador; el valor anterior se descarta.
func (d *Debouncer) Push(rowID string, field entity.Field, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	key := cellKey{rowID: rowID, field: field}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = &pendingEdit{
		value: value,
		gen:   gen,
		timer: time.AfterFunc(d.window, func() { d.fire(key, gen) }),
	}
}

// Pending indica si la fila tiene ediciones sin aplicar.
func (d *Debouncer) Pending(rowID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.pending {
		if k.rowID == rowID {
			return true
		}
	}
	return false
}

// Flush aplica ya todas las ediciones pendientes de la fila, en orden name, category, price.
// Si un temporizador de la fila está aplicando su valor, espera a que termine.
// Devuelve el primer error de aplicación.
func (d *Debouncer) Flush(rowID string) error {
	edits := d.take(rowID)
	var first error
	for _, e := range edits {
		if err := d.apply(rowID, e.field, e.value); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Cancel descarta las ediciones pendientes de la fila sin aplicarlas.
// Un apply ya en curso no se interrumpe, pero Cancel retorna después de que termina.
func (d *Debouncer) Cancel(rowID string) {
	d.take(rowID)
}

// Close descarta todo lo pendiente; los Push posteriores se ignoran.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, k)
	}
	d.closed = true
}

type flushedEdit struct {
	field entity.Field
	value string
}

func (d *Debouncer) take(rowID string) []flushedEdit {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.applying[rowID] > 0 {
		d.idle.Wait()
	}
	var out []flushedEdit
	for k, p := range d.pending {
		if k.rowID != rowID {
			continue
		}
		p.timer.Stop()
		delete(d.pending, k)
		out = append(out, flushedEdit{field: k.field, value: p.value})
	}
	sort.Slice(out, func(i, j int) bool { return fieldOrder(out[i].field) < fieldOrder(out[j].field) })
	return out
}

// fire corre en la goroutine del temporizador; ignora temporizadores reemplazados o cancelados.
func (d *Debouncer) fire(key cellKey, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.applying[key.rowID]++
	d.mu.Unlock()

	err := d.apply(key.rowID, key.field, p.value)

	d.mu.Lock()
	if d.applying[key.rowID]--; d.applying[key.rowID] == 0 {
		delete(d.applying, key.rowID)
	}
	d.idle.Broadcast()
	d.mu.Unlock()

	if err != nil {
		d.onError(key.rowID, key.field, err)
	}
}

func fieldOrder(f entity.Field) int {
	switch f {
	case entity.FieldName:
		return 0
	case entity.FieldCategory:
		return 1
	case entity.FieldPrice:
		return 2
	default:
		return 3
	}
}
