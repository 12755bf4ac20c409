package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opencode-ai/oficina/internal/config"
	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/forms"
	"github.com/opencode-ai/oficina/internal/models"
)

func TestLinePrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "s\n", want: true},
		{input: "SIM\n", want: true},
		{input: "y\r\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := newLinePrompter(strings.NewReader(tt.input), &out)
		if got := p.Confirm("Continuar?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continuar? [s/N]") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}

func TestLinePrompterPromptTextIsVerbatim(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(strings.NewReader(" CONFIRMAR RESET\nconfirmar reset"), &out)

	got, ok := p.PromptText(danger.ResetPhrasePrompt)
	if !ok || got != " CONFIRMAR RESET" {
		t.Fatalf("first answer = %q, %v", got, ok)
	}
	got, ok = p.PromptText(danger.ResetPhrasePrompt)
	if !ok || got != "confirmar reset" {
		t.Fatalf("answer without newline = %q, %v", got, ok)
	}
	if _, ok := p.PromptText(danger.ResetPhrasePrompt); ok {
		t.Fatalf("expected dismissal at EOF")
	}
}

type scriptedConfirmer struct {
	confirms []bool
	texts    []string
	asked    []string
}

func (s *scriptedConfirmer) Confirm(message string) bool {
	s.asked = append(s.asked, message)
	if len(s.confirms) == 0 {
		return false
	}
	answer := s.confirms[0]
	s.confirms = s.confirms[1:]
	return answer
}

func (s *scriptedConfirmer) PromptText(message string) (string, bool) {
	s.asked = append(s.asked, message)
	if len(s.texts) == 0 {
		return "", false
	}
	answer := s.texts[0]
	s.texts = s.texts[1:]
	return answer, true
}

func TestAnswerConfirmer(t *testing.T) {
	declined := answerConfirmer{}
	if declined.Confirm("x") {
		t.Error("expected decline without answers")
	}
	if _, ok := declined.PromptText("x"); ok {
		t.Error("expected dismissal without answers")
	}

	next := &scriptedConfirmer{confirms: []bool{true}, texts: []string{"typed"}}
	answers := answerConfirmer{yes: false, phrase: "", next: next}
	if !answers.Confirm("first") {
		t.Error("expected fallback answer")
	}
	if text, _ := answers.PromptText("phrase"); text != "typed" {
		t.Errorf("expected fallback text, got %q", text)
	}

	flags := answerConfirmer{yes: true, phrase: danger.ResetPhrase, next: next}
	if !flags.Confirm("again") {
		t.Error("--yes should confirm")
	}
	if text, ok := flags.PromptText("phrase"); !ok || text != danger.ResetPhrase {
		t.Errorf("--phrase not used: %q", text)
	}
	if len(next.asked) != 2 {
		t.Errorf("flags should not reach the terminal, asked %v", next.asked)
	}
}

func TestOutcomeError(t *testing.T) {
	if err := outcomeError(danger.KindLogs, danger.OutcomeSucceeded); err != nil {
		t.Fatalf("success should not error: %v", err)
	}
	if err := outcomeError(danger.KindLogs, danger.OutcomeCancelled); !errors.Is(err, errAborted) {
		t.Fatalf("cancel should abort, got %v", err)
	}
	err := outcomeError(danger.KindFullReset, danger.OutcomeTransportError)
	if err == nil || !strings.Contains(err.Error(), "reset_total") || !strings.Contains(err.Error(), "transport error") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusLabelForOutcome(t *testing.T) {
	tests := []struct {
		outcome danger.Outcome
		label   string
		color   string
	}{
		{danger.OutcomeSucceeded, "OK", colorGreen},
		{danger.OutcomeFailed, "ERR", colorRed},
		{danger.OutcomeTransportError, "ERR", colorMagenta},
		{danger.OutcomeCancelled, "SKIP", colorYellow},
	}
	for _, tt := range tests {
		label, color := statusLabelForOutcome(tt.outcome)
		if label != tt.label || color != tt.color {
			t.Errorf("%s: got %s/%q", tt.outcome, label, color)
		}
	}
	if got := formatStatusLabel("ERR", "transport_error"); got != "ERR transport error" {
		t.Errorf("formatStatusLabel = %q", got)
	}
}

func TestHistoryQuery(t *testing.T) {
	q := historyQuery(10, "", nil, false)
	if q.Limit != 10 || q.EntityType == nil || *q.EntityType != models.EntityTypeAction || q.Since != nil {
		t.Fatalf("default query: %+v", q)
	}

	q = historyQuery(5, "", nil, true)
	if q.EntityType != nil {
		t.Fatalf("--themes should include every entity type")
	}

	since := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	q = historyQuery(5, "logs", &since, true)
	if q.EntityID == nil || *q.EntityID != "logs" || q.EntityType == nil {
		t.Fatalf("kind filter: %+v", q)
	}
	if q.Since == nil || !q.Since.Equal(since) {
		t.Fatalf("since filter: %v", q.Since)
	}
}

type fakeSubmitter struct {
	err   error
	calls int
}

func (f *fakeSubmitter) ChangePassword(context.Context, forms.PasswordChange) error {
	f.calls++
	return f.err
}

func TestSubmitPassword(t *testing.T) {
	submitter := &fakeSubmitter{}
	err := submitPassword(context.Background(), submitter, forms.PasswordChange{New: "abc", Confirmation: "abd"})
	if !errors.Is(err, forms.ErrPasswordMismatch) || submitter.calls != 0 {
		t.Fatalf("mismatch: err=%v calls=%d", err, submitter.calls)
	}

	err = submitPassword(context.Background(), submitter, forms.PasswordChange{New: "curta", Confirmation: "curta"})
	if !errors.Is(err, forms.ErrPasswordTooShort) || submitter.calls != 0 {
		t.Fatalf("too short: err=%v calls=%d", err, submitter.calls)
	}

	submitter.err = errors.New("403")
	err = submitPassword(context.Background(), submitter, forms.PasswordChange{Current: "a", New: "segredo123", Confirmation: "segredo123"})
	if err == nil || submitter.calls != 1 {
		t.Fatalf("server failure: err=%v calls=%d", err, submitter.calls)
	}

	submitter.err = nil
	if err := submitPassword(context.Background(), submitter, forms.PasswordChange{New: "segredo123", Confirmation: "segredo123"}); err != nil {
		t.Fatalf("success: %v", err)
	}
}

func TestReadPasswordChange(t *testing.T) {
	answers := map[string]string{"Senha atual: ": "old", "Nova senha: ": "novo12345", "Confirmar nova senha: ": "novo12345"}
	change, err := readPasswordChange(func(prompt string) (string, error) { return answers[prompt], nil })
	if err != nil {
		t.Fatal(err)
	}
	if change.Current != "old" || change.New != "novo12345" || change.Confirmation != "novo12345" {
		t.Fatalf("unexpected change: %+v", change)
	}

	_, err = readPasswordChange(func(string) (string, error) { return "", errors.New("eof") })
	if err == nil {
		t.Fatal("expected read error")
	}
}

func TestWriteOutputJSONLines(t *testing.T) {
	original := jsonlOutput
	jsonlOutput = true
	t.Cleanup(func() { jsonlOutput = original })

	var buf bytes.Buffer
	if err := WriteOutput(&buf, []actionResult{{Kind: danger.KindLogs, Outcome: danger.OutcomeSucceeded}, {Kind: danger.KindTempFiles, Outcome: danger.OutcomeCancelled}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"kind":"temp"`) {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	if err := WriteOutput(&buf, map[string]string{"url": "x"}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != `{"url":"x"}` {
		t.Fatalf("object output: %q", buf.String())
	}
}

func TestPreflightErrorMessage(t *testing.T) {
	err := &PreflightError{Message: "boom", Hint: "try this", NextStep: "oficina init"}
	want := "boom\nHint: try this\nNext: oficina init"
	if err.Error() != want {
		t.Fatalf("got %q", err.Error())
	}
}

type cleanupServer struct {
	mu    sync.Mutex
	kinds []string
}

func (s *cleanupServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/configuracoes/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<form><input type="hidden" name="csrfmiddlewaretoken" value="tok"></form>`)
	})
	mux.HandleFunc("/limpar-dados/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.mu.Lock()
		s.kinds = append(s.kinds, r.PostForm.Get("tipo"))
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true, "message": "ok"}`)
	})
	return mux
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = baseURL
	cfg.Storage.Path = filepath.Join(t.TempDir(), "oficina.db")
	withAppConfig(t, cfg)
	return cfg
}

func TestRunActionRecordsHistory(t *testing.T) {
	server := &cleanupServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	cfg := testConfig(t, srv.URL)

	ctx := context.Background()
	err := runAction(ctx, danger.KindLogs, answerConfirmer{yes: true}, func(d *danger.Dispatcher) (danger.Outcome, error) {
		return d.Cleanup(ctx, danger.KindLogs)
	})
	if err != nil {
		t.Fatalf("runAction: %v", err)
	}

	err = runAction(ctx, danger.KindFullReset, answerConfirmer{yes: true, phrase: "confirmar reset"}, func(d *danger.Dispatcher) (danger.Outcome, error) {
		return d.ResetAll(ctx)
	})
	if !errors.Is(err, errAborted) {
		t.Fatalf("wrong phrase should abort, got %v", err)
	}

	if len(server.kinds) != 1 || server.kinds[0] != "logs" {
		t.Fatalf("server saw %v", server.kinds)
	}

	database, err := db.Open(db.Config{Path: cfg.Storage.Path})
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	history, err := db.NewEventRepository(database).List(ctx, db.EventQuery{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].EntityID != "logs" || history[0].Type != models.EventTypeActionSucceeded {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestNewAdminClientSignsIn(t *testing.T) {
	var logins []string
	mux := http.NewServeMux()
	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			logins = append(logins, r.PostForm.Get("username"))
			if r.PostForm.Get("password") == "segredo123" {
				http.Redirect(w, r, "/configuracoes/", http.StatusFound)
				return
			}
		}
		fmt.Fprint(w, `<form><input type="hidden" name="csrfmiddlewaretoken" value="login-tok"></form>`)
	})
	mux.HandleFunc("/configuracoes/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<form><input type="hidden" name="csrfmiddlewaretoken" value="tok"></form>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Server.Username = "admin"
	cfg.Server.Password = "segredo123"
	if _, err := newAdminClient(context.Background(), cfg); err != nil {
		t.Fatalf("newAdminClient: %v", err)
	}

	cfg.Server.Password = "errada"
	_, err := newAdminClient(context.Background(), cfg)
	var preflight *PreflightError
	if !errors.As(err, &preflight) || !strings.Contains(preflight.Message, "login failed") {
		t.Fatalf("expected login preflight error, got %v", err)
	}
	if len(logins) != 2 || logins[0] != "admin" {
		t.Fatalf("server saw logins %v", logins)
	}
}

func TestExportDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usuarios.csv")
	out, abs, closeOut, err := exportDestination(path)
	if err != nil {
		t.Fatal(err)
	}
	if abs != path {
		t.Errorf("expected %s, got %s", path, abs)
	}
	fmt.Fprint(out, "id\n")
	if err := closeOut(); err != nil {
		t.Fatal(err)
	}

	original := jsonOutput
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = original })
	var preflight *PreflightError
	if _, _, _, err := exportDestination("-"); !errors.As(err, &preflight) {
		t.Fatalf("expected preflight error for stdout with --json, got %v", err)
	}
}
