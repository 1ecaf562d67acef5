package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un ítem persistido en el recurso remoto /items.
type Item struct {
	ID        string
	Name      string
	Category  Category
	Price     decimal.Decimal // >= 0
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Row es una fila del grid en el cliente.
// RowID lo genera el cliente y nunca cambia; ID lo asigna el servidor en el primer guardado exitoso.
// IsNew es true desde la creación hasta la primera persistencia exitosa.
type Row struct {
	RowID    string
	ID       string // vacío mientras IsNew
	Name     string
	Category Category
	Price    decimal.Decimal
	IsNew    bool
}

// Persisted indica si la fila ya tiene ID asignado por el servidor.
func (r Row) Persisted() bool {
	return !r.IsNew && r.ID != ""
}

// Fields devuelve los campos editables de la fila como Item (sin RowID ni IsNew).
func (r Row) Fields() Item {
	return Item{ID: r.ID, Name: r.Name, Category: r.Category, Price: r.Price}
}

// Field nombres de columna editables.
type Field string

const (
	FieldName     Field = "name"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
)
