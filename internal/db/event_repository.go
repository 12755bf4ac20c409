package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opencode-ai/oficina/internal/models"
)

// Event repository errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

// EventRepository persists the local action history.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventQuery filters List results.
type EventQuery struct {
	Type        *models.EventType   // Filter by event type
	EntityType  *models.EntityType  // Filter by entity type
	EntityTypes []models.EntityType // Filter by any of these entity types
	EntityID    *string             // Filter by action kind or preference key
	Since       *time.Time          // Events at or after this time (inclusive)
	Limit       int                 // Max results to return (default 50)
}

const eventColumns = `id, timestamp, type, entity_type, entity_id, payload_json, metadata_json`

// timestampLayout keeps fixed-width fractions so timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Create appends an event. ID and Timestamp are filled in when empty.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil {
		return ErrInvalidEvent
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}

	var payloadJSON *string
	if len(event.Payload) > 0 {
		s := string(event.Payload)
		payloadJSON = &s
	}

	var metadataJSON *string
	if event.Metadata != nil {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		s := string(data)
		metadataJSON = &s
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Timestamp.Format(timestampLayout),
		string(event.Type),
		string(event.EntityType),
		event.EntityID,
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// List returns events matching q, newest first.
func (r *EventRepository) List(ctx context.Context, q EventQuery) ([]*models.Event, error) {
	where, args := eventFilters(q)
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + where +
		` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, queryLimit(q.Limit))
	return r.query(ctx, query, args...)
}

// EventCursor marks the last event a reader has seen.
type EventCursor struct {
	Timestamp time.Time
	ID        string
}

// CursorOf returns the cursor positioned at event.
func CursorOf(event *models.Event) *EventCursor {
	return &EventCursor{Timestamp: event.Timestamp, ID: event.ID}
}

// ListAfter returns events matching q that come strictly after the cursor,
// oldest first. A nil cursor starts at q.Since.
func (r *EventRepository) ListAfter(ctx context.Context, after *EventCursor, q EventQuery) ([]*models.Event, error) {
	where, args := eventFilters(q)
	if after != nil {
		ts := after.Timestamp.UTC().Format(timestampLayout)
		where += ` AND (timestamp > ? OR (timestamp = ? AND id > ?))`
		args = append(args, ts, ts, after.ID)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + where +
		` ORDER BY timestamp ASC, id ASC LIMIT ?`
	args = append(args, queryLimit(q.Limit))
	return r.query(ctx, query, args...)
}

func eventFilters(q EventQuery) (string, []any) {
	where := `1=1`
	args := []any{}

	if q.Type != nil {
		where += ` AND type = ?`
		args = append(args, string(*q.Type))
	}
	if q.EntityType != nil {
		where += ` AND entity_type = ?`
		args = append(args, string(*q.EntityType))
	}
	if len(q.EntityTypes) > 0 {
		where += ` AND entity_type IN (?` + strings.Repeat(`, ?`, len(q.EntityTypes)-1) + `)`
		for _, t := range q.EntityTypes {
			args = append(args, string(t))
		}
	}
	if q.EntityID != nil {
		where += ` AND entity_id = ?`
		args = append(args, *q.EntityID)
	}
	if q.Since != nil {
		where += ` AND timestamp >= ?`
		args = append(args, q.Since.UTC().Format(timestampLayout))
	}
	return where, args
}

func queryLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *EventRepository) scan(row rowScanner) (*models.Event, error) {
	var event models.Event
	var timestamp, eventType, entityType string
	var payloadJSON, metadataJSON sql.NullString

	if err := row.Scan(
		&event.ID,
		&timestamp,
		&eventType,
		&entityType,
		&event.EntityID,
		&payloadJSON,
		&metadataJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event.Type = models.EventType(eventType)
	event.EntityType = models.EntityType(entityType)

	if t, err := time.Parse(timestampLayout, timestamp); err == nil {
		event.Timestamp = t
	}
	if payloadJSON.Valid {
		event.Payload = json.RawMessage(payloadJSON.String)
	}
	if metadataJSON.Valid {
		if err := json.Unmarshal([]byte(metadataJSON.String), &event.Metadata); err != nil {
			r.db.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to parse event metadata")
		}
	}
	return &event, nil
}
