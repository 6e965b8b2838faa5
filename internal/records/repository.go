// AngelaMos | 2026
// repository.go

package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/kpi"
)

// Gateway is the storage boundary. By the time a call lands here every
// table and column has already passed the whitelists; the gateway builds
// SQL only from those vetted names plus bound parameters.
type Gateway interface {
	List(
		ctx context.Context,
		table Table,
		filters map[string]any,
	) ([]map[string]any, error)
	Get(ctx context.Context, table Table, id string) (map[string]any, error)
	Create(
		ctx context.Context,
		table Table,
		data map[string]any,
	) (map[string]any, error)
	Update(
		ctx context.Context,
		table Table,
		id string,
		data map[string]any,
	) (map[string]any, error)
	Delete(ctx context.Context, table Table, id string) error
	SaveNotes(ctx context.Context, clientID string, notes []NoteInput) error

	kpi.Source
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Gateway {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	table Table,
	filters map[string]any,
) ([]map[string]any, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table.Name)

	if len(filters) > 0 {
		conditions := make([]string, 0, len(filters))
		for _, col := range table.Columns {
			value, ok := filters[col]
			if !ok {
				continue
			}
			args = append(args, value)
			conditions = append(
				conditions,
				fmt.Sprintf("%s = $%d", col, len(args)),
			)
		}
		if len(conditions) > 0 {
			sb.WriteString(" WHERE ")
			sb.WriteString(strings.Join(conditions, " AND "))
		}
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(table.OrderBy)

	rows, err := r.db.QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table.Name, err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	results := make([]map[string]any, 0)
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table.Name, err)
		}
		results = append(results, normalizeRow(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", table.Name, err)
	}

	return results, nil
}

func (r *repository) Get(
	ctx context.Context,
	table Table,
	id string,
) (map[string]any, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table.Name)

	row := r.db.QueryRowxContext(ctx, query, id)

	result := map[string]any{}
	err := row.MapScan(result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", table.Name, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table.Name, err)
	}

	return normalizeRow(result), nil
}

func (r *repository) Create(
	ctx context.Context,
	table Table,
	data map[string]any,
) (map[string]any, error) {
	id := uuid.NewString()

	cols := []string{"id"}
	placeholders := []string{"$1"}
	args := []any{id}

	// Deterministic column order: iterate the whitelist, not the map.
	for _, col := range table.Columns {
		value, ok := data[col]
		if !ok {
			continue
		}
		args = append(args, value)
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table.Name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	row := r.db.QueryRowxContext(ctx, query, args...)

	result := map[string]any{}
	if err := row.MapScan(result); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf(
				"create %s: %w",
				table.Name,
				core.ErrDuplicateKey,
			)
		}
		return nil, fmt.Errorf("create %s: %w", table.Name, err)
	}

	return normalizeRow(result), nil
}

func (r *repository) Update(
	ctx context.Context,
	table Table,
	id string,
	data map[string]any,
) (map[string]any, error) {
	assignments := []string{"updated_at = NOW()"}
	args := []any{id}

	for _, col := range table.Columns {
		value, ok := data[col]
		if !ok {
			continue
		}
		args = append(args, value)
		assignments = append(
			assignments,
			fmt.Sprintf("%s = $%d", col, len(args)),
		)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $1 RETURNING *",
		table.Name,
		strings.Join(assignments, ", "),
	)

	row := r.db.QueryRowxContext(ctx, query, args...)

	result := map[string]any{}
	err := row.MapScan(result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update %s: %w", table.Name, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table.Name, err)
	}

	return normalizeRow(result), nil
}

func (r *repository) Delete(
	ctx context.Context,
	table Table,
	id string,
) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table.Name)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table.Name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", table.Name, err)
	}

	if rows == 0 {
		return fmt.Errorf("delete %s: %w", table.Name, core.ErrNotFound)
	}

	return nil
}

// SaveNotes replaces a client's note set in one transaction: notes absent
// from the incoming set are deleted first, then the remainder is upserted.
// Deletes before upserts means a retry cannot resurrect a removed note; a
// failure anywhere rolls the whole save back.
func (r *repository) SaveNotes(
	ctx context.Context,
	clientID string,
	notes []NoteInput,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		keep := make([]string, 0, len(notes))
		for _, n := range notes {
			if n.ID != "" {
				keep = append(keep, n.ID)
			}
		}

		if len(keep) > 0 {
			query, args, err := sqlx.In(
				"DELETE FROM pipeline_notes WHERE client_id = ? AND id NOT IN (?)",
				clientID,
				keep,
			)
			if err != nil {
				return fmt.Errorf("build note delete: %w", err)
			}
			query = tx.Rebind(query)
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("delete removed notes: %w", err)
			}
		} else {
			query := "DELETE FROM pipeline_notes WHERE client_id = $1"
			if _, err := tx.ExecContext(ctx, query, clientID); err != nil {
				return fmt.Errorf("delete removed notes: %w", err)
			}
		}

		upsert := `
			INSERT INTO pipeline_notes (id, client_id, content, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET content = EXCLUDED.content,
			    sort_order = EXCLUDED.sort_order,
			    updated_at = NOW()`

		for _, n := range notes {
			id := n.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := tx.ExecContext(
				ctx,
				upsert,
				id,
				clientID,
				n.Content,
				n.SortOrder,
			); err != nil {
				return fmt.Errorf("upsert note: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save notes for client %s: %w", clientID, err)
	}

	return nil
}

// normalizeRow converts driver byte slices to strings so generic rows
// JSON-encode cleanly.
func normalizeRow(row map[string]any) map[string]any {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
	return row
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
