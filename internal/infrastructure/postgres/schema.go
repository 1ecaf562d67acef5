package postgres

import (
	"context"
	"fmt"
)

const itemsSchema = `
CREATE TABLE IF NOT EXISTS items (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	price      NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS items_created_at_idx ON items (created_at, id);`

// EnsureSchema crea la tabla items si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, itemsSchema); err != nil {
		return fmt.Errorf("crear esquema items: %w", err)
	}
	return nil
}
