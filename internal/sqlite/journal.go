package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/repository"
)

// WriteRepository implements journal.Repository for SQLite
type WriteRepository struct {
	db *DB
}

// NewWriteRepository creates a new WriteRepository
func NewWriteRepository(db *DB) *WriteRepository {
	return &WriteRepository{db: db}
}

// Insert journals a new write
func (r *WriteRepository) Insert(ctx context.Context, w *journal.Write) error {
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := w.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO write_log (id, trip_id, op, status, error, created_at, updated_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM write_log))
	`, w.ID, w.TripID, w.Op, w.Status, w.Error, formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("write %s already journaled: %w", w.ID, repository.ErrInvalidInput)
		}
		return fmt.Errorf("failed to insert write: %w", err)
	}

	w.CreatedAt = createdAt
	w.UpdatedAt = updatedAt
	return nil
}

// UpdateStatus settles a journaled write
func (r *WriteRepository) UpdateStatus(ctx context.Context, id string, status journal.Status, errMsg string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE write_log SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, errMsg, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to update write: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns journaled writes matching the filters, newest first
func (r *WriteRepository) List(ctx context.Context, opts journal.ListOptions) ([]journal.Write, error) {
	query := `
		SELECT id, trip_id, op, status, error, created_at, updated_at
		FROM write_log
		WHERE 1 = 1
	`
	args := []any{}

	if opts.TripID != "" {
		query += " AND trip_id = ?"
		args = append(args, opts.TripID)
	}
	if opts.Status != nil {
		query += " AND status = ?"
		args = append(args, *opts.Status)
	}

	query += " ORDER BY seq DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list writes: %w", err)
	}
	defer rows.Close()

	writes := []journal.Write{}
	for rows.Next() {
		var w journal.Write
		var createdAt, updatedAt string
		if err := rows.Scan(&w.ID, &w.TripID, &w.Op, &w.Status, &w.Error, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan write: %w", err)
		}
		if w.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		writes = append(writes, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating write rows: %w", err)
	}

	return writes, nil
}
