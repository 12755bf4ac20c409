// Package models defines the records oficina keeps locally.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes events in the action history.
type EventType string

const (
	// Danger-zone events
	EventTypeActionSucceeded EventType = "action.succeeded"
	EventTypeActionFailed    EventType = "action.failed"
	EventTypeActionErrored   EventType = "action.transport_error"
	EventTypeActionCancelled EventType = "action.cancelled"

	// Preference events
	EventTypeThemeSelected EventType = "theme.selected"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeAction     EntityType = "action"
	EntityTypePreference EntityType = "preference"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the action kind or preference key.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// ActionPayload is the payload for action.* events.
type ActionPayload struct {
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
	Server  string `json:"server,omitempty"`
}

// ThemeSelectedPayload is the payload for theme.selected events.
type ThemeSelectedPayload struct {
	Theme string `json:"theme"`
}
