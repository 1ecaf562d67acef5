package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ItemPayload cuerpo de POST /items y PUT /items/{id} (campos editables).
type ItemPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ItemResponse representación de un ítem en el recurso remoto.
type ItemResponse struct {
	ID       ItemID  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ItemID identificador opaco asignado por el servidor. Acepta string o número en JSON
// (algunos servidores de prueba generan IDs numéricos) y siempre se serializa como string.
type ItemID string

// UnmarshalJSON acepta "abc", 42 o null.
func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: se esperaba string o número: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}
