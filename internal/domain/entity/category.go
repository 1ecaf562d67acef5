package entity

import (
	"strings"

	"github.com/jhoicas/items-grid/internal/domain"
)

// Category es un valor del conjunto cerrado de categorías configurado.
// La cadena vacía representa "sin categoría" (borradores recién creados).
type Category string

// CategoryAll es el valor del filtro que no restringe filas. No es una categoría asignable.
const CategoryAll Category = "All"

// CategoryUnset es la categoría de una fila que aún no tiene una asignada.
const CategoryUnset Category = ""

// CategorySet conjunto cerrado y ordenado de categorías válidas.
type CategorySet struct {
	ordered []Category
	index   map[Category]struct{}
}

// NewCategorySet construye el conjunto a partir de nombres. Ignora vacíos, "All" y duplicados.
func NewCategorySet(names ...string) CategorySet {
	set := CategorySet{index: make(map[Category]struct{}, len(names))}
	for _, n := range names {
		c := Category(strings.TrimSpace(n))
		if c == CategoryUnset || c == CategoryAll {
			continue
		}
		if _, ok := set.index[c]; ok {
			continue
		}
		set.index[c] = struct{}{}
		set.ordered = append(set.ordered, c)
	}
	return set
}

// Contains indica si c pertenece al conjunto.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

// List devuelve una copia de las categorías en orden de configuración.
func (s CategorySet) List() []Category {
	out := make([]Category, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Parse valida un valor de categoría asignable a una fila (miembro del conjunto o vacío).
func (s CategorySet) Parse(v string) (Category, error) {
	c := Category(strings.TrimSpace(v))
	if c == CategoryUnset || s.Contains(c) {
		return c, nil
	}
	return "", domain.ErrInvalidCategory
}

// ParseFilter valida un valor de filtro: "All" o miembro del conjunto.
func (s CategorySet) ParseFilter(v string) (Category, error) {
	c := Category(strings.TrimSpace(v))
	if c == CategoryAll || s.Contains(c) {
		return c, nil
	}
	return "", domain.ErrInvalidCategory
}
