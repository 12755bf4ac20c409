// Package events writes the local action history.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

var outcomeTypes = map[danger.Outcome]models.EventType{
	danger.OutcomeSucceeded:      models.EventTypeActionSucceeded,
	danger.OutcomeFailed:         models.EventTypeActionFailed,
	danger.OutcomeTransportError: models.EventTypeActionErrored,
	danger.OutcomeCancelled:      models.EventTypeActionCancelled,
}

// LogAction records the outcome of a dispatched danger-zone action.
func LogAction(ctx context.Context, repo Repository, server string, req danger.Request, outcome danger.Outcome, detail string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if req.Kind == "" {
		return fmt.Errorf("action kind is required")
	}
	eventType, ok := outcomeTypes[outcome]
	if !ok {
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	payload, err := json.Marshal(models.ActionPayload{
		Kind:    string(req.Kind),
		Outcome: string(outcome),
		Detail:  detail,
		Server:  server,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal action payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeAction,
		EntityID:   string(req.Kind),
		Payload:    payload,
	})
}

// LogThemeSelected records a theme selection.
func LogThemeSelected(ctx context.Context, repo Repository, theme string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if theme == "" {
		return fmt.Errorf("theme is required")
	}

	payload, err := json.Marshal(models.ThemeSelectedPayload{Theme: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeThemeSelected,
		EntityType: models.EntityTypePreference,
		EntityID:   "tema",
		Payload:    payload,
	})
}

// ActionHistory adapts a Repository to danger.History.
type ActionHistory struct {
	Repo   Repository
	Server string
}

// Record implements danger.History.
func (h ActionHistory) Record(ctx context.Context, req danger.Request, outcome danger.Outcome, detail string) error {
	return LogAction(ctx, h.Repo, h.Server, req, outcome, detail)
}
