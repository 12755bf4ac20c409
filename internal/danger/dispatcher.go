// Package danger gates irreversible server-side actions behind human
// confirmation before dispatching them.
package danger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/notify"
)

// Kind identifies a danger-zone action; its value is sent as the tipo field.
type Kind string

const (
	KindAppointments Kind = "agendamentos"
	KindLogs         Kind = "logs"
	KindTempFiles    Kind = "temp"
	KindFullReset    Kind = "reset_total"
)

// ResetPhrase must be typed exactly to run a full reset.
const ResetPhrase = "CONFIRMAR RESET"

// DefaultReloadDelay separates a successful reset from the reload.
const DefaultReloadDelay = 3000 * time.Millisecond

// Dispatcher errors.
var (
	ErrUnknownAction = errors.New("unknown action")
)

var cleanupPrompts = map[Kind]string{
	KindAppointments: "Confirma a limpeza dos agendamentos antigos? Esta ação não pode ser desfeita.",
	KindLogs:         "Confirma a limpeza dos logs do sistema? Esta ação não pode ser desfeita.",
	KindTempFiles:    "Confirma a limpeza dos arquivos temporários?",
}

// Reset gate texts.
const (
	ResetWarning      = "⚠️ ATENÇÃO! Esta ação irá APAGAR TODOS os dados do sistema!\n\nTem certeza que deseja continuar?"
	ResetFinalWarning = "🚨 ÚLTIMA CONFIRMAÇÃO!\n\nEsta ação é IRREVERSÍVEL e apagará:\n- Todos os clientes\n- Todos os agendamentos\n- Todos os mecânicos\n- Todas as ordens de serviço\n\nClique OK para continuar:"
	ResetPhrasePrompt = `Digite "CONFIRMAR RESET" para prosseguir:`
)

// CleanupKinds lists the light actions in display order.
func CleanupKinds() []Kind {
	return []Kind{KindAppointments, KindLogs, KindTempFiles}
}

// IsCleanup reports whether k is a light action.
func IsCleanup(k Kind) bool {
	_, ok := cleanupPrompts[k]
	return ok
}

// CleanupPrompt returns the confirmation text for a light action.
func CleanupPrompt(k Kind) (string, bool) {
	msg, ok := cleanupPrompts[k]
	return msg, ok
}

// Request is a destructive action ready to send.
type Request struct {
	Kind         Kind
	Confirmation string
}

// Result is the server's structured response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client sends a request to the cleanup endpoint.
type Client interface {
	Cleanup(ctx context.Context, req Request) (Result, error)
}

// Confirmer asks a human to approve a step.
type Confirmer interface {
	Confirm(message string) bool
	PromptText(message string) (string, bool)
}

// Reloader restarts the console after a full reset.
type Reloader interface {
	Reload()
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func()

// Reload implements Reloader.
func (f ReloaderFunc) Reload() { f() }

// History records dispatched actions.
type History interface {
	Record(ctx context.Context, req Request, outcome Outcome, detail string) error
}

// Outcome is the terminal state of a dispatcher run.
type Outcome string

const (
	OutcomeCancelled      Outcome = "cancelled"
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeFailed         Outcome = "failed"
	OutcomeTransportError Outcome = "transport_error"
)

// Dispatcher runs confirmation chains and dispatches confirmed requests.
type Dispatcher struct {
	client    Client
	confirmer Confirmer
	notifier  notify.Notifier
	reloader  Reloader
	history   History
	delay     func(time.Duration)
	reloadIn  time.Duration
	logger    zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReloader sets the collaborator invoked after a successful reset.
func WithReloader(r Reloader) Option {
	return func(d *Dispatcher) { d.reloader = r }
}

// WithHistory records every dispatched request.
func WithHistory(h History) Option {
	return func(d *Dispatcher) { d.history = h }
}

// WithDelay replaces time.Sleep for the reload timer.
func WithDelay(fn func(time.Duration)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.delay = fn
		}
	}
}

// WithReloadDelay overrides DefaultReloadDelay.
func WithReloadDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		if delay >= 0 {
			d.reloadIn = delay
		}
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(client Client, confirmer Confirmer, notifier notify.Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:    client,
		confirmer: confirmer,
		notifier:  notifier,
		delay:     time.Sleep,
		reloadIn:  DefaultReloadDelay,
		logger:    logging.Component("danger"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cleanup confirms and dispatches a light action.
func (d *Dispatcher) Cleanup(ctx context.Context, kind Kind) (Outcome, error) {
	prompt, ok := cleanupPrompts[kind]
	if !ok {
		return OutcomeCancelled, fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}

	if !d.confirm(prompt) {
		d.logger.Debug().Str("kind", string(kind)).Msg("cleanup cancelled")
		return OutcomeCancelled, nil
	}

	d.notify(fmt.Sprintf("Limpeza de %s iniciada!", kind), notify.SeverityInfo)

	req := Request{Kind: kind}
	outcome, _ := d.dispatch(ctx, req, "Erro durante a limpeza")
	return outcome, nil
}

// ResetAll walks the three reset gates and dispatches a full reset.
func (d *Dispatcher) ResetAll(ctx context.Context) (Outcome, error) {
	if !d.confirm(ResetWarning) {
		d.logger.Debug().Msg("reset cancelled at first gate")
		return OutcomeCancelled, nil
	}
	if !d.confirm(ResetFinalWarning) {
		d.logger.Debug().Msg("reset cancelled at second gate")
		return OutcomeCancelled, nil
	}

	phrase, ok := d.prompt(ResetPhrasePrompt)
	if !ok || phrase != ResetPhrase {
		d.logger.Info().Msg("reset cancelled: confirmation phrase mismatch")
		d.notify("❌ Reset cancelado - confirmação incorreta.", notify.SeverityInfo)
		return OutcomeCancelled, nil
	}

	d.notify("💥 Reset do sistema iniciado... Aguarde!", notify.SeverityWarning)

	req := Request{Kind: KindFullReset, Confirmation: phrase}
	outcome, result := d.dispatch(ctx, req, "Erro durante o reset")
	if outcome == OutcomeSucceeded {
		d.logger.Info().Str("message", result.Message).Dur("delay", d.reloadIn).Msg("reset succeeded, reloading")
		d.delay(d.reloadIn)
		if d.reloader != nil {
			d.reloader.Reload()
		}
	}
	return outcome, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request, fallback string) (Outcome, Result) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := d.logger.With().Str("kind", string(req.Kind)).Logger()

	if d.client == nil {
		err := errors.New("admin client not configured")
		d.notify("❌ Erro de conexão: "+err.Error(), notify.SeverityError)
		d.record(ctx, req, OutcomeTransportError, err.Error())
		return OutcomeTransportError, Result{}
	}

	result, err := d.client.Cleanup(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Msg("dispatch failed")
		d.notify("❌ Erro de conexão: "+err.Error(), notify.SeverityError)
		d.record(ctx, req, OutcomeTransportError, err.Error())
		return OutcomeTransportError, result
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fallback
		}
		logger.Warn().Str("error", msg).Msg("server rejected action")
		d.notify("❌ "+msg, notify.SeverityError)
		d.record(ctx, req, OutcomeFailed, msg)
		return OutcomeFailed, result
	}

	logger.Info().Str("message", result.Message).Msg("action completed")
	prefix := "✅ "
	if req.Kind == KindFullReset {
		prefix = "💥 "
	}
	d.notify(prefix+result.Message, notify.SeveritySuccess)
	d.record(ctx, req, OutcomeSucceeded, result.Message)
	return OutcomeSucceeded, result
}

func (d *Dispatcher) confirm(message string) bool {
	if d.confirmer == nil {
		return false
	}
	return d.confirmer.Confirm(message)
}

func (d *Dispatcher) prompt(message string) (string, bool) {
	if d.confirmer == nil {
		return "", false
	}
	return d.confirmer.PromptText(message)
}

func (d *Dispatcher) notify(message string, severity notify.Severity) {
	if d.notifier != nil {
		d.notifier.Notify(message, severity)
	}
}

func (d *Dispatcher) record(ctx context.Context, req Request, outcome Outcome, detail string) {
	if d.history == nil {
		return
	}
	if err := d.history.Record(ctx, req, outcome, detail); err != nil {
		d.logger.Warn().Err(err).Str("kind", string(req.Kind)).Msg("failed to record action history")
	}
}
