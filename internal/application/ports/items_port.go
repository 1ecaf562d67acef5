package ports

import (
	"context"

	"github.com/jhoicas/items-grid/internal/domain/entity"
)

// ItemsGateway define el puerto de salida hacia el recurso remoto de ítems.
// Toda llamada termina en éxito o en un error que satisface errors.Is(err, domain.ErrNetworkFailure);
// el adaptador no reintenta.
type ItemsGateway interface {
	// FetchAll carga la colección completa.
	FetchAll(ctx context.Context) ([]entity.Item, error)
	// Create envía los campos editables y devuelve el ítem canónico con el ID asignado por el servidor.
	Create(ctx context.Context, fields entity.Item) (entity.Item, error)
	// Update reemplaza el ítem id con los campos dados y devuelve los valores canónicos.
	Update(ctx context.Context, id string, fields entity.Item) (entity.Item, error)
	// Delete elimina el ítem id.
	Delete(ctx context.Context, id string) error
}
