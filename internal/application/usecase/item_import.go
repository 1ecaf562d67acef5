package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jhoicas/items-grid/internal/application/dto"
)

// ParseSeed lee ítems desde JSON. Acepta un arreglo de ítems o un objeto {"items": [...]}
// (formato db.json de los servidores JSON de prueba). Los ids de entrada se ignoran.
func ParseSeed(r io.Reader) ([]dto.ItemPayload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer semilla: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var list []dto.ItemPayload
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decodificar semilla: %w", err)
		}
		return list, nil
	}
	var doc struct {
		Items []dto.ItemPayload `json:"items"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decodificar semilla: %w", err)
	}
	return doc.Items, nil
}

// Import crea cada ítem en orden. Se detiene en el primer error, indicando la posición.
func (uc *ItemUseCase) Import(ctx context.Context, items []dto.ItemPayload) (int, error) {
	for i, in := range items {
		if _, err := uc.Create(ctx, in); err != nil {
			return i, fmt.Errorf("ítem %d (%q): %w", i, in.Name, err)
		}
	}
	return len(items), nil
}
