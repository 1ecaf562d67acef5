package grid

import (
	"sync"

	"github.com/jhoicas/items-grid/internal/domain/entity"
)

// Project devuelve las filas cuya categoría es filter, o todas si filter es "All".
// Conserva el orden relativo de rows y no modifica la entrada.
func Project(rows []entity.Row, filter entity.Category) []entity.Row {
	out := make([]entity.Row, 0, len(rows))
	for _, r := range rows {
		if filter == entity.CategoryAll || r.Category == filter {
			out = append(out, r)
		}
	}
	return out
}

// FilterView mantiene la proyección filtrada de un RowStore y la recalcula
// cuando cambian las filas o la categoría activa.
type FilterView struct {
	mu       sync.RWMutex
	store    *RowStore
	category entity.Category
	visible  []entity.Row
	unsub    func()
}

// NewFilterView se suscribe a store con el filtro inicial "All".
func NewFilterView(store *RowStore) *FilterView {
	v := &FilterView{store: store, category: entity.CategoryAll}
	v.visible = Project(store.Rows(), v.category)
	v.unsub = store.Subscribe(v.recompute)
	return v
}

// SetCategory cambia la categoría activa y recalcula.
func (v *FilterView) SetCategory(c entity.Category) {
	v.mu.Lock()
	v.category = c
	v.mu.Unlock()
	v.recompute(nil)
}

// Category categoría activa.
func (v *FilterView) Category() entity.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.category
}

// Visible copia de las filas visibles.
func (v *FilterView) Visible() []entity.Row {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]entity.Row, len(v.visible))
	copy(out, v.visible)
	return out
}

// Len número de filas visibles.
func (v *FilterView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.visible)
}

// Close cancela la suscripción al store.
func (v *FilterView) Close() {
	if v.unsub != nil {
		v.unsub()
	}
}

// recompute lee siempre el estado actual del store para que una notificación atrasada
// no deje una proyección vieja.
func (v *FilterView) recompute([]entity.Row) {
	v.mu.Lock()
	v.visible = Project(v.store.Rows(), v.category)
	v.mu.Unlock()
}
