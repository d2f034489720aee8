package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// workflowTable operaciones comunes de las tablas con historial de estados.
type workflowTable struct {
	kind          workflow.Kind
	table         string
	hasResolvedAt bool
}

// historyColumn subconsulta que devuelve el historial como JSON ordenado por inserción.
// alias es el alias de la tabla principal en la consulta.
func (w workflowTable) historyColumn(alias string) string {
	return fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object(
			'transitioned_to', h.transitioned_to, 'date', h.date, 'note', h.note, 'actor', h.actor
		) ORDER BY h.id)
		FROM status_history h
		WHERE h.entity_kind = '%s' AND h.entity_id = %s.id
	), '[]'::json)`, w.kind, alias)
}

func (w workflowTable) insertHistory(ctx context.Context, q Querier, id string, entry workflow.HistoryEntry) error {
	_, err := q.Exec(ctx, `
		INSERT INTO status_history (entity_kind, entity_id, transitioned_to, date, note, actor)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.kind, id, entry.TransitionedTo, entry.Date, entry.Note, entry.Actor,
	)
	if err != nil {
		return fmt.Errorf("insert %s history: %w", w.kind, err)
	}
	return nil
}

// insertHistoryAll guarda todo el historial inicial (normalmente una sola entrada de creación).
func (w workflowTable) insertHistoryAll(ctx context.Context, q Querier, id string, history []workflow.HistoryEntry) error {
	for _, entry := range history {
		if err := w.insertHistory(ctx, q, id, entry); err != nil {
			return err
		}
	}
	return nil
}

// updateStatus cambia el estado con concurrencia optimista (WHERE status = from) y agrega el historial.
func (w workflowTable) updateStatus(ctx context.Context, q Querier, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error {
	return pgx.BeginFunc(ctx, q, func(tx pgx.Tx) error {
		var query string
		args := []any{id, next.Status, from}
		if w.hasResolvedAt {
			query = fmt.Sprintf(`UPDATE %s SET status = $2, resolved_at = $4, updated_at = now() WHERE id = $1 AND status = $3`, w.table)
			args = append(args, next.ResolvedAt)
		} else {
			query = fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`, w.table)
		}
		cmd, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update %s status: %w", w.kind, err)
		}
		if cmd.RowsAffected() == 0 {
			return w.missingOrConflict(ctx, tx, id)
		}
		return w.insertHistory(ctx, tx, id, entry)
	})
}

func (w workflowTable) missingOrConflict(ctx context.Context, q Querier, id string) error {
	var exists bool
	err := q.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, w.table), id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", w.kind, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func (w workflowTable) setAttachment(ctx context.Context, q Querier, id string, ref *attachment.Ref) error {
	cmd, err := q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET attachment = $2, updated_at = $3 WHERE id = $1`, w.table), id, ref, time.Now())
	if err != nil {
		return fmt.Errorf("set %s attachment: %w", w.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// delete elimina el registro y su historial en la misma transacción.
func (w workflowTable) delete(ctx context.Context, q Querier, id string) error {
	return pgx.BeginFunc(ctx, q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, w.table), id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", w.kind, err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM status_history WHERE entity_kind = $1 AND entity_id = $2`, w.kind, id); err != nil {
			return fmt.Errorf("delete %s history: %w", w.kind, err)
		}
		return nil
	})
}

// notFound traduce pgx.ErrNoRows al sentinel del dominio.
func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
