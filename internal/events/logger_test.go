package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/models"
)

type fakeRepo struct {
	last *models.Event
}

func (r *fakeRepo) Create(ctx context.Context, event *models.Event) error {
	r.last = event
	return nil
}

func TestLogAction(t *testing.T) {
	repo := &fakeRepo{}
	req := danger.Request{Kind: danger.KindFullReset, Confirmation: danger.ResetPhrase}

	if err := LogAction(context.Background(), repo, "http://h", req, danger.OutcomeFailed, "negado"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	if repo.last == nil {
		t.Fatal("expected event to be created")
	}
	if repo.last.Type != models.EventTypeActionFailed {
		t.Fatalf("unexpected event type: %q", repo.last.Type)
	}
	if repo.last.EntityID != "reset_total" {
		t.Fatalf("unexpected entity id: %q", repo.last.EntityID)
	}

	var payload models.ActionPayload
	if err := json.Unmarshal(repo.last.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Detail != "negado" || payload.Server != "http://h" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestLogAction_Validation(t *testing.T) {
	if err := LogAction(context.Background(), nil, "", danger.Request{Kind: danger.KindLogs}, danger.OutcomeSucceeded, ""); err == nil {
		t.Fatal("expected error for nil repository")
	}
	if err := LogAction(context.Background(), &fakeRepo{}, "", danger.Request{}, danger.OutcomeSucceeded, ""); err == nil {
		t.Fatal("expected error for empty kind")
	}
	if err := LogAction(context.Background(), &fakeRepo{}, "", danger.Request{Kind: danger.KindLogs}, danger.Outcome("odd"), ""); err == nil {
		t.Fatal("expected error for unknown outcome")
	}
}

func TestActionHistoryRecord(t *testing.T) {
	repo := &fakeRepo{}
	history := ActionHistory{Repo: repo, Server: "http://h"}

	if err := history.Record(context.Background(), danger.Request{Kind: danger.KindTempFiles}, danger.OutcomeSucceeded, "ok"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if repo.last == nil || repo.last.Type != models.EventTypeActionSucceeded {
		t.Fatalf("unexpected event: %#v", repo.last)
	}
}

func TestLogThemeSelected(t *testing.T) {
	repo := &fakeRepo{}
	if err := LogThemeSelected(context.Background(), repo, "verde"); err != nil {
		t.Fatalf("LogThemeSelected failed: %v", err)
	}
	if repo.last.EntityType != models.EntityTypePreference || repo.last.EntityID != "tema" {
		t.Fatalf("unexpected event: %#v", repo.last)
	}
}
