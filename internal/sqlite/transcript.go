package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/davrin/loopgate/internal/prompt"
)

// TranscriptRepository persists prompt round-trip metadata for auditing.
type TranscriptRepository struct {
	db *DB
}

// NewTranscriptRepository creates a new TranscriptRepository
func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Record inserts a new transcript entry.
func (r *TranscriptRepository) Record(ctx context.Context, entry *prompt.TranscriptEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO transcripts (
			correlation_id, kind, message, title, status, error_code, elapsed_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.CorrelationID,
		string(entry.Kind),
		entry.Message,
		entry.Title,
		entry.Status,
		entry.ErrorCode,
		entry.ElapsedMS,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transcript: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// ListRecent returns the most recent transcript entries, newest first.
func (r *TranscriptRepository) ListRecent(ctx context.Context, limit int) ([]prompt.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, correlation_id, kind, message, title, status, error_code, elapsed_ms, created_at
		FROM transcripts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []prompt.TranscriptEntry
	for rows.Next() {
		var entry prompt.TranscriptEntry
		var kind string
		var title sql.NullString
		var errorCode sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.CorrelationID,
			&kind,
			&entry.Message,
			&title,
			&entry.Status,
			&errorCode,
			&entry.ElapsedMS,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transcript entry: %w", err)
		}
		entry.Kind = prompt.Kind(kind)
		if title.Valid {
			entry.Title = title.String
		}
		if errorCode.Valid {
			entry.ErrorCode = errorCode.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transcript rows: %w", err)
	}

	return entries, nil
}
