package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/items-grid/internal/application/dto"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del recurso /items.
type ItemUseCase struct {
	repo       repository.ItemRepository
	categories entity.CategorySet
	now        func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, categories entity.CategorySet) *ItemUseCase {
	return &ItemUseCase{repo: repo, categories: categories, now: time.Now}
}

// Create crea un ítem con ID nuevo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.ItemPayload) (*dto.ItemResponse, error) {
	category, price, err := uc.validate(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Category:  category,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem; (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List devuelve la colección completa.
func (uc *ItemUseCase) List(ctx context.Context) ([]dto.ItemResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// Update reemplaza todos los campos editables. domain.ErrNotFound si el ítem no existe.
// Repetir la misma actualización deja el mismo estado.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.ItemPayload) (*dto.ItemResponse, error) {
	category, price, err := uc.validate(in)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.Name = in.Name
	item.Category = category
	item.Price = price
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un ítem. domain.ErrNotFound si no existe.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Categories conjunto de categorías aceptadas.
func (uc *ItemUseCase) Categories() []entity.Category {
	return uc.categories.List()
}

func (uc *ItemUseCase) validate(in dto.ItemPayload) (entity.Category, decimal.Decimal, error) {
	category, err := uc.categories.Parse(in.Category)
	if err != nil {
		return "", decimal.Zero, err
	}
	if in.Price < 0 {
		return "", decimal.Zero, domain.ErrInvalidInput
	}
	return category, decimal.NewFromFloat(in.Price).Round(2), nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:       dto.ItemID(it.ID),
		Name:     it.Name,
		Category: string(it.Category),
		Price:    it.Price.InexactFloat64(),
	}
}
