// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo repositorio de ítems en memoria. Conserva el orden de inserción y devuelve copias.
type ItemRepo struct {
	mu    sync.RWMutex
	order []string
	items map[string]entity.Item
}

// NewItemRepository construye el repositorio vacío.
func NewItemRepository() *ItemRepo {
	return &ItemRepo{items: map[string]entity.Item{}}
}

// Create guarda un ítem nuevo. domain.ErrInvalidInput si el ID ya existe.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

// GetByID obtiene una copia del ítem; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// Update reemplaza el ítem.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *item
	next.CreatedAt = prev.CreatedAt
	r.items[item.ID] = next
	return nil
}

// List devuelve los ítems en orden de inserción.
func (r *ItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Item, 0, len(r.order))
	for _, id := range r.order {
		it := r.items[id]
		out = append(out, &it)
	}
	return out, nil
}

// Delete elimina el ítem.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
