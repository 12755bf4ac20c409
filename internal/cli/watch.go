package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/models"
)

var watchMode bool

// MustBeJSONLForWatch rejects --watch without --jsonl.
func MustBeJSONLForWatch() error {
	if watchMode && !IsJSONLOutput() {
		return &PreflightError{
			Message:  "--watch streams JSON lines",
			Hint:     "Add --jsonl",
			NextStep: "oficina history --watch --jsonl",
		}
	}
	return nil
}

// ConnectionStatus reports the health of a stream.
type ConnectionStatus string

const (
	ConnectionStatusConnected    ConnectionStatus = "connected"
	ConnectionStatusReconnecting ConnectionStatus = "reconnecting"
	ConnectionStatusDisconnected ConnectionStatus = "disconnected"
)

// ReconnectConfig controls retries after a failed poll.
type ReconnectConfig struct {
	Enabled           bool
	MaxAttempts       int // 0 means unlimited
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64

	OnStatusChange func(status ConnectionStatus, attempt int, nextRetry time.Duration, err error)
}

// DefaultReconnectConfig retries forever with exponential backoff.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		Enabled:           true,
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// StreamConfig configures an EventStreamer.
type StreamConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	IncludeExisting bool
	Since           *time.Time
	EntityTypes     []models.EntityType
	EntityID        *string
	Reconnect       ReconnectConfig
}

// DefaultStreamConfig returns the configuration used by history --watch.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
		Reconnect:    DefaultReconnectConfig(),
	}
}

type eventTail interface {
	ListAfter(ctx context.Context, after *db.EventCursor, q db.EventQuery) ([]*models.Event, error)
}

// EventStreamer polls the event table and writes new events as JSON lines.
type EventStreamer struct {
	repo   eventTail
	out    io.Writer
	config StreamConfig
}

// NewEventStreamer creates an EventStreamer.
func NewEventStreamer(repo eventTail, out io.Writer, config StreamConfig) *EventStreamer {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultStreamConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultStreamConfig().BatchSize
	}
	return &EventStreamer{repo: repo, out: out, config: config}
}

// Stream writes events until ctx is done. Cancellation is a clean stop.
func (s *EventStreamer) Stream(ctx context.Context) error {
	logger := logging.Component("watch")

	since := s.config.Since
	if !s.config.IncludeExisting {
		now := time.Now().UTC()
		since = &now
	}

	s.setStatus(ConnectionStatusConnected, 0, 0, nil)
	defer s.setStatus(ConnectionStatusDisconnected, 0, 0, nil)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	var cursor *db.EventCursor
	attempt := 0
	var backoff time.Duration

	for {
		events, next, err := s.poll(ctx, cursor, since)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !s.config.Reconnect.Enabled {
				return fmt.Errorf("failed to poll events: %w", err)
			}
			attempt++
			if limit := s.config.Reconnect.MaxAttempts; limit > 0 && attempt > limit {
				return fmt.Errorf("max reconnection attempts (%d) exceeded: %w", limit, err)
			}
			backoff = s.calculateBackoff(attempt, backoff)
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", backoff).Msg("event poll failed")
			s.setStatus(ConnectionStatusReconnecting, attempt, backoff, err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}

		if attempt > 0 {
			attempt = 0
			backoff = 0
			s.setStatus(ConnectionStatusConnected, 0, 0, nil)
		}

		for _, event := range events {
			if err := s.writeEvent(event); err != nil {
				return err
			}
		}
		cursor = next

		if len(events) == s.config.BatchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *EventStreamer) poll(ctx context.Context, cursor *db.EventCursor, since *time.Time) ([]*models.Event, *db.EventCursor, error) {
	if s.repo == nil {
		return nil, cursor, errors.New("event repository is required")
	}
	events, err := s.repo.ListAfter(ctx, cursor, db.EventQuery{
		Since:       since,
		EntityTypes: s.config.EntityTypes,
		EntityID:    s.config.EntityID,
		Limit:       s.config.BatchSize,
	})
	if err != nil {
		return nil, cursor, err
	}
	if len(events) > 0 {
		cursor = db.CursorOf(events[len(events)-1])
	}
	return events, cursor, nil
}

func (s *EventStreamer) writeEvent(event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}
	data = append(data, '\n')
	_, err = s.out.Write(data)
	return err
}

func (s *EventStreamer) calculateBackoff(attempt int, current time.Duration) time.Duration {
	cfg := s.config.Reconnect
	if attempt <= 1 || current <= 0 {
		return cfg.InitialBackoff
	}
	next := time.Duration(float64(current) * cfg.BackoffMultiplier)
	if cfg.MaxBackoff > 0 && next > cfg.MaxBackoff {
		return cfg.MaxBackoff
	}
	return next
}

func (s *EventStreamer) setStatus(status ConnectionStatus, attempt int, nextRetry time.Duration, err error) {
	if fn := s.config.Reconnect.OnStatusChange; fn != nil {
		fn(status, attempt, nextRetry, err)
	}
}

// ParseSince accepts a duration ("30m", "7d"), an RFC3339 timestamp or a
// date. Empty input means no lower bound.
func ParseSince(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if d, err := parseDurationWithDays(value); err == nil {
		t := time.Now().Add(-d).UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid --since %q: use a duration (1h, 7d) or a timestamp", value)
}

func parseDurationWithDays(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}
	return time.ParseDuration(value)
}
