package danger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/oficina/internal/notify"
)

// scriptedConfirmer answers confirmations and prompts from fixed scripts.
type scriptedConfirmer struct {
	answers  []bool
	prompts  []*string
	asked    []string
	prompted []string
}

func (c *scriptedConfirmer) Confirm(message string) bool {
	c.asked = append(c.asked, message)
	if len(c.answers) == 0 {
		return false
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}

func (c *scriptedConfirmer) PromptText(message string) (string, bool) {
	c.prompted = append(c.prompted, message)
	if len(c.prompts) == 0 || c.prompts[0] == nil {
		return "", false
	}
	text := *c.prompts[0]
	c.prompts = c.prompts[1:]
	return text, true
}

func text(s string) *string { return &s }

type fakeClient struct {
	mu       sync.Mutex
	requests []Request
	result   Result
	err      error
}

func (c *fakeClient) Cleanup(ctx context.Context, req Request) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return c.result, c.err
}

type fakeHistory struct {
	outcomes []Outcome
	err      error
}

func (h *fakeHistory) Record(ctx context.Context, req Request, outcome Outcome, detail string) error {
	h.outcomes = append(h.outcomes, outcome)
	return h.err
}

func lastNotification(t *testing.T, r *notify.Recorder) notify.Notification {
	t.Helper()
	n, ok := r.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func TestResetAll_Gates(t *testing.T) {
	tests := []struct {
		name        string
		answers     []bool
		phrase      *string
		wantRequest bool
		wantCancel  bool
		wantOutcome Outcome
	}{
		{"first gate declined", []bool{false, true}, text(ResetPhrase), false, false, OutcomeCancelled},
		{"second gate declined", []bool{true, false}, text(ResetPhrase), false, false, OutcomeCancelled},
		{"exact phrase", []bool{true, true}, text("CONFIRMAR RESET"), true, false, OutcomeSucceeded},
		{"wrong case", []bool{true, true}, text("confirmar reset"), false, true, OutcomeCancelled},
		{"trailing space", []bool{true, true}, text("CONFIRMAR RESET "), false, true, OutcomeCancelled},
		{"prompt cancelled", []bool{true, true}, nil, false, true, OutcomeCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{result: Result{Success: true, Message: "sistema resetado"}}
			confirmer := &scriptedConfirmer{answers: tt.answers, prompts: []*string{tt.phrase}}
			recorder := notify.NewRecorder()
			reloads := 0
			d := NewDispatcher(client, confirmer, recorder,
				WithReloader(ReloaderFunc(func() { reloads++ })),
				WithDelay(func(time.Duration) {}),
			)

			outcome, err := d.ResetAll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)

			if tt.wantRequest {
				require.Len(t, client.requests, 1)
				assert.Equal(t, Request{Kind: KindFullReset, Confirmation: "CONFIRMAR RESET"}, client.requests[0])
			} else {
				assert.Empty(t, client.requests)
			}

			if tt.wantCancel {
				n := lastNotification(t, recorder)
				assert.Contains(t, n.Message, "Reset cancelado")
				assert.Equal(t, notify.SeverityInfo, n.Severity)
			}
		})
	}
}

func TestResetAll_FirstGateDeclinedNeverPrompts(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	recorder := notify.NewRecorder()
	d := NewDispatcher(&fakeClient{}, confirmer, recorder)

	_, err := d.ResetAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, confirmer.asked, 1)
	assert.Empty(t, confirmer.prompted)
	assert.Empty(t, recorder.All())
}

func TestResetAll_SuccessReloadsAfterDelay(t *testing.T) {
	client := &fakeClient{result: Result{Success: true, Message: "Sistema resetado"}}
	confirmer := &scriptedConfirmer{answers: []bool{true, true}, prompts: []*string{text(ResetPhrase)}}
	recorder := notify.NewRecorder()

	var events []string
	var waited time.Duration
	d := NewDispatcher(client, confirmer, recorder,
		WithDelay(func(delay time.Duration) {
			waited = delay
			events = append(events, "delay")
		}),
		WithReloader(ReloaderFunc(func() { events = append(events, "reload") })),
	)

	outcome, err := d.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, outcome)
	assert.Equal(t, 3000*time.Millisecond, waited)
	assert.Equal(t, []string{"delay", "reload"}, events)

	all := recorder.All()
	require.Len(t, all, 2)
	assert.Equal(t, notify.SeverityWarning, all[0].Severity)
	assert.Equal(t, notify.SeveritySuccess, all[1].Severity)
	assert.Contains(t, all[1].Message, "Sistema resetado")
}

func TestResetAll_FailureDoesNotReload(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		want    string
		outcome Outcome
	}{
		{"server error", &fakeClient{result: Result{Success: false, Error: "negado"}}, "negado", OutcomeFailed},
		{"server fallback", &fakeClient{result: Result{Success: false}}, "Erro durante o reset", OutcomeFailed},
		{"transport", &fakeClient{err: errors.New("connection refused")}, "Erro de conexão: connection refused", OutcomeTransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmer := &scriptedConfirmer{answers: []bool{true, true}, prompts: []*string{text(ResetPhrase)}}
			recorder := notify.NewRecorder()
			reloaded := false
			delayed := false
			d := NewDispatcher(tt.client, confirmer, recorder,
				WithReloader(ReloaderFunc(func() { reloaded = true })),
				WithDelay(func(time.Duration) { delayed = true }),
			)

			outcome, err := d.ResetAll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)
			assert.False(t, reloaded)
			assert.False(t, delayed)

			n := lastNotification(t, recorder)
			assert.Equal(t, notify.SeverityError, n.Severity)
			assert.Contains(t, n.Message, tt.want)
		})
	}
}

func TestCleanup_Responses(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeClient
		severity notify.Severity
		contains string
		outcome  Outcome
	}{
		{"success", &fakeClient{result: Result{Success: true, Message: "done"}}, notify.SeveritySuccess, "done", OutcomeSucceeded},
		{"server failure", &fakeClient{result: Result{Success: false, Error: "locked"}}, notify.SeverityError, "locked", OutcomeFailed},
		{"server failure without detail", &fakeClient{result: Result{}}, notify.SeverityError, "Erro durante a limpeza", OutcomeFailed},
		{"transport rejection", &fakeClient{err: errors.New("dial tcp: timeout")}, notify.SeverityError, "dial tcp: timeout", OutcomeTransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := notify.NewRecorder()
			history := &fakeHistory{}
			d := NewDispatcher(tt.client, &scriptedConfirmer{answers: []bool{true}}, recorder, WithHistory(history))

			outcome, err := d.Cleanup(context.Background(), KindLogs)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)

			require.Len(t, tt.client.requests, 1)
			assert.Equal(t, Request{Kind: KindLogs}, tt.client.requests[0])

			all := recorder.All()
			require.Len(t, all, 2)
			assert.Equal(t, notify.SeverityInfo, all[0].Severity)
			assert.Contains(t, all[0].Message, "Limpeza de logs iniciada!")
			assert.Equal(t, tt.severity, all[1].Severity)
			assert.Contains(t, all[1].Message, tt.contains)

			assert.Equal(t, []Outcome{tt.outcome}, history.outcomes)
		})
	}
}

func TestCleanup_DeclinedIssuesNothing(t *testing.T) {
	client := &fakeClient{}
	recorder := notify.NewRecorder()
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	d := NewDispatcher(client, confirmer, recorder)

	outcome, err := d.Cleanup(context.Background(), KindAppointments)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Empty(t, client.requests)
	assert.Empty(t, recorder.All())
	require.Len(t, confirmer.asked, 1)
	assert.True(t, strings.HasPrefix(confirmer.asked[0], "Confirma a limpeza dos agendamentos antigos?"))
}

func TestCleanup_UnknownKind(t *testing.T) {
	client := &fakeClient{}
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	d := NewDispatcher(client, confirmer, notify.NewRecorder())

	_, err := d.Cleanup(context.Background(), Kind("everything"))
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Empty(t, confirmer.asked)
	assert.Empty(t, client.requests)

	_, err = d.Cleanup(context.Background(), KindFullReset)
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestCleanup_HistoryFailureDoesNotBlock(t *testing.T) {
	client := &fakeClient{result: Result{Success: true, Message: "ok"}}
	recorder := notify.NewRecorder()
	d := NewDispatcher(client, &scriptedConfirmer{answers: []bool{true}}, recorder,
		WithHistory(&fakeHistory{err: errors.New("db closed")}))

	outcome, err := d.Cleanup(context.Background(), KindTempFiles)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, outcome)
}

func TestNilConfirmerCancels(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, nil, notify.NewRecorder())

	outcome, err := d.Cleanup(context.Background(), KindLogs)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Empty(t, client.requests)
}

func TestCleanupKinds(t *testing.T) {
	for _, kind := range CleanupKinds() {
		assert.True(t, IsCleanup(kind))
		_, ok := CleanupPrompt(kind)
		assert.True(t, ok)
	}
	assert.False(t, IsCleanup(KindFullReset))
}
