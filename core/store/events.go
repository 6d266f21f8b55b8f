package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adalundhe/mentor/core/domain"
)

//go:embed schema.sql
var schemaSQL string

// EventStore persists interaction events to sqlite so the log survives
// restarts. It is append-only: rows are inserted, never updated or
// deleted.
type EventStore struct {
	db   *sql.DB
	path string
}

// OpenEventStore opens (creating if necessary) the sqlite event log at
// path and applies the schema.
func OpenEventStore(path string) (*EventStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply event store schema: %w", err)
	}

	return &EventStore{db: db, path: path}, nil
}

// Append inserts one event. Re-appending an id already present is a
// no-op, which makes startup replay followed by live appends safe.
func (s *EventStore) Append(ctx context.Context, event *domain.Interaction) error {
	var score, rating any
	if event.Score != nil {
		score = *event.Score
	}
	if event.Rating != nil {
		rating = *event.Rating
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO interactions
			(id, user_id, item_id, type, timestamp, duration_seconds, score, rating, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.ItemID, event.Type.String(),
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		event.DurationSeconds, score, rating, event.Feedback,
	)
	if err != nil {
		return fmt.Errorf("append interaction %s: %w", event.ID, err)
	}
	return nil
}

// LoadAll reads every persisted event in insertion order.
func (s *EventStore) LoadAll(ctx context.Context) ([]*domain.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, item_id, type, timestamp, duration_seconds, score, rating, feedback
		FROM interactions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	defer rows.Close()

	var events []*domain.Interaction
	for rows.Next() {
		var (
			event    domain.Interaction
			typeName string
			stamp    string
			score    sql.NullFloat64
			rating   sql.NullFloat64
		)
		if err := rows.Scan(
			&event.ID, &event.UserID, &event.ItemID, &typeName, &stamp,
			&event.DurationSeconds, &score, &rating, &event.Feedback,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}

		kind, err := domain.ParseInteractionType(typeName)
		if err != nil {
			return nil, fmt.Errorf("interaction %s: %w", event.ID, err)
		}
		event.Type = kind

		ts, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, fmt.Errorf("interaction %s timestamp: %w", event.ID, err)
		}
		event.Timestamp = ts

		if score.Valid {
			v := score.Float64
			event.Score = &v
		}
		if rating.Valid {
			v := rating.Float64
			event.Rating = &v
		}

		events = append(events, &event)
	}
	return events, rows.Err()
}

// Count returns the number of persisted events.
func (s *EventStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n)
	return n, err
}

func (s *EventStore) Close() error {
	return s.db.Close()
}
