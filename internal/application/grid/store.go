package grid

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
)

// Listener recibe una copia de las filas después de cada mutación del store.
type Listener func(rows []entity.Row)

// StoreOption configura un RowStore.
type StoreOption func(*RowStore)

// WithRowIDGenerator reemplaza el generador de RowID (por defecto ULID).
func WithRowIDGenerator(gen func() string) StoreOption {
	return func(s *RowStore) { s.newRowID = gen }
}

// RowStore lista ordenada y autoritativa de filas del grid, única por RowID.
// Las mutaciones son síncronas: al retornar, Rows ya refleja el cambio.
type RowStore struct {
	mu         sync.RWMutex
	rows       []entity.Row
	categories entity.CategorySet
	newRowID   func() string

	lmu       sync.Mutex
	listeners map[int]Listener
	nextL     int
}

// NewRowStore construye un store vacío que valida categorías contra categories.
func NewRowStore(categories entity.CategorySet, opts ...StoreOption) *RowStore {
	s := &RowStore{
		categories: categories,
		newRowID:   func() string { return ulid.Make().String() },
		listeners:  map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registra fn y devuelve la función para cancelar la suscripción.
func (s *RowStore) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	id := s.nextL
	s.nextL++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// AddDraft agrega al final una fila nueva (IsNew) con nombre vacío, precio 0 y la categoría dada.
func (s *RowStore) AddDraft(category entity.Category) entity.Row {
	s.mu.Lock()
	row := entity.Row{
		RowID:    s.uniqueRowID(),
		Category: category,
		Price:    decimal.Zero,
		IsNew:    true,
	}
	s.rows = append(s.rows, row)
	s.mu.Unlock()
	s.emit()
	return row
}

// UpdateField reemplaza un campo de la fila rowID. No dispara persistencia.
func (s *RowStore) UpdateField(rowID string, field entity.Field, value string) error {
	var category entity.Category
	if field == entity.FieldCategory {
		c, err := s.categories.Parse(value)
		if err != nil {
			return err
		}
		category = c
	}

	s.mu.Lock()
	i := s.find(rowID)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrRowNotFound
	}
	switch field {
	case entity.FieldName:
		s.rows[i].Name = value
	case entity.FieldCategory:
		s.rows[i].Category = category
	case entity.FieldPrice:
		s.rows[i].Price = ParsePrice(value)
	default:
		s.mu.Unlock()
		return domain.ErrUnknownField
	}
	s.mu.Unlock()
	s.emit()
	return nil
}

// MarkPersisted fusiona los campos canónicos de un Create exitoso, asigna ID y limpia IsNew.
// Si rowID ya no existe (fila eliminada mientras la llamada estaba en curso) no hace nada y devuelve false.
// Un ID ya asignado nunca se reemplaza.
func (s *RowStore) MarkPersisted(rowID string, item entity.Item) bool {
	s.mu.Lock()
	i := s.find(rowID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	r := &s.rows[i]
	if r.ID == "" {
		r.ID = item.ID
	}
	mergeFields(r, item)
	r.IsNew = false
	s.mu.Unlock()
	s.emit()
	return true
}

// ApplyCanonical fusiona los campos devueltos por un Update exitoso. El ID no cambia.
func (s *RowStore) ApplyCanonical(rowID string, item entity.Item) bool {
	s.mu.Lock()
	i := s.find(rowID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	mergeFields(&s.rows[i], item)
	s.mu.Unlock()
	s.emit()
	return true
}

// RemoveLocal elimina la fila rowID sin condiciones. Devuelve false si no existía.
func (s *RowStore) RemoveLocal(rowID string) bool {
	s.mu.Lock()
	i := s.find(rowID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.rows = append(s.rows[:i:i], s.rows[i+1:]...)
	s.mu.Unlock()
	s.emit()
	return true
}

// ReplaceAll reemplaza todas las filas por la colección remota; cada ítem recibe un RowID nuevo.
// Los ítems sin ID se omiten: una fila persistida siempre tiene ID.
func (s *RowStore) ReplaceAll(items []entity.Item) []entity.Row {
	s.mu.Lock()
	s.rows = make([]entity.Row, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		s.rows = append(s.rows, entity.Row{
			RowID:    s.uniqueRowID(),
			ID:       it.ID,
			Name:     it.Name,
			Category: it.Category,
			Price:    it.Price,
		})
	}
	out := s.snapshot()
	s.mu.Unlock()
	s.emit()
	return out
}

// Get devuelve una copia de la fila rowID.
func (s *RowStore) Get(rowID string) (entity.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(rowID)
	if i < 0 {
		return entity.Row{}, false
	}
	return s.rows[i], true
}

// Rows devuelve una copia de todas las filas en orden.
func (s *RowStore) Rows() []entity.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len número de filas.
func (s *RowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *RowStore) find(rowID string) int {
	for i := range s.rows {
		if s.rows[i].RowID == rowID {
			return i
		}
	}
	return -1
}

// uniqueRowID se llama con mu tomado.
func (s *RowStore) uniqueRowID() string {
	for {
		id := s.newRowID()
		if id != "" && s.find(id) < 0 {
			return id
		}
	}
}

func (s *RowStore) snapshot() []entity.Row {
	out := make([]entity.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *RowStore) emit() {
	s.lmu.Lock()
	if len(s.listeners) == 0 {
		s.lmu.Unlock()
		return
	}
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	rows := s.Rows()
	for _, fn := range fns {
		fn(rows)
	}
}

func mergeFields(r *entity.Row, item entity.Item) {
	r.Name = item.Name
	r.Category = item.Category
	r.Price = item.Price
}
