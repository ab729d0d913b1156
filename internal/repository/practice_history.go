package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/speakhelper/speakhelper/internal/model"
)

// ErrMissingUserID is returned when a query is not scoped to a user.
var ErrMissingUserID = errors.New("user id is required")

// InsertPracticeEntry inserts a practice entry and returns the stored row.
// The row is always written with the entry's own user id.
func (r *Repository) InsertPracticeEntry(ctx context.Context, entry *model.PracticeEntry) (*model.PracticeEntry, error) {
	if entry.UserID == "" {
		return nil, ErrMissingUserID
	}

	query := `
		INSERT INTO practice_history (user_id, prompt, response)
		VALUES ($1, $2, $3)
		RETURNING id::text, user_id::text, prompt, response, created_at
	`

	var stored *model.PracticeEntry
	err := r.asUser(ctx, entry.UserID, func(q querier) error {
		var err error
		stored, err = scanPracticeEntry(q.QueryRow(ctx, query, entry.UserID, entry.Prompt, entry.Response))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert practice entry: %s", pgMessage(err))
	}

	return stored, nil
}

// ListPracticeEntries returns up to limit entries for userID, newest first.
func (r *Repository) ListPracticeEntries(ctx context.Context, userID string, limit int) ([]*model.PracticeEntry, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	query := `
		SELECT id::text, user_id::text, prompt, response, created_at
		FROM practice_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	entries := make([]*model.PracticeEntry, 0, limit)
	err := r.asUser(ctx, userID, func(q querier) error {
		rows, err := q.Query(ctx, query, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanPracticeEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list practice entries: %s", pgMessage(err))
	}

	return entries, nil
}

func scanPracticeEntry(row pgx.Row) (*model.PracticeEntry, error) {
	var (
		entry     model.PracticeEntry
		createdAt time.Time
	)
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Prompt,
		&entry.Response,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	createdAt = createdAt.UTC()
	entry.CreatedAt = &createdAt
	return &entry, nil
}

// pgMessage returns the server-side message for Postgres errors, which is what
// callers surface to clients, and the plain error text otherwise.
func pgMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Detail != "" {
			return pgErr.Message + ": " + pgErr.Detail
		}
		return pgErr.Message
	}
	return err.Error()
}
