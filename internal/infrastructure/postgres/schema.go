package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema DDL idempotente de todas las tablas del servicio.
//
//go:embed schema.sql
var Schema string

// Migrate aplica Schema sobre la conexión dada.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
