package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/notify"
)

var errAborted = errors.New("operação cancelada")

// linePrompter asks questions on a line-oriented terminal.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements danger.Confirmer and forms.Confirmer.
func (p *linePrompter) Confirm(message string) bool {
	fmt.Fprintf(p.out, "%s [s/N]: ", message)
	line, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

// PromptText implements danger.Confirmer. The answer is returned verbatim
// apart from the line terminator.
func (p *linePrompter) PromptText(message string) (string, bool) {
	fmt.Fprintf(p.out, "%s\n> ", message)
	line, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
	}
	return line, ok
}

func (p *linePrompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", false
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// answerConfirmer answers from command flags. Questions it cannot answer go
// to next, or are declined when next is nil.
type answerConfirmer struct {
	yes    bool
	phrase string
	next   danger.Confirmer
}

func (a answerConfirmer) Confirm(message string) bool {
	if a.yes {
		return true
	}
	if a.next == nil {
		return false
	}
	return a.next.Confirm(message)
}

func (a answerConfirmer) PromptText(message string) (string, bool) {
	if a.phrase != "" {
		return a.phrase, true
	}
	if a.next == nil {
		return "", false
	}
	return a.next.PromptText(message)
}

var (
	stdinOnce     sync.Once
	stdinPrompter *linePrompter
)

func terminalPrompter() *linePrompter {
	stdinOnce.Do(func() {
		stdinPrompter = newLinePrompter(os.Stdin, os.Stderr)
	})
	return stdinPrompter
}

// newConfirmer answers from flags first and asks on the terminal only when
// the session is interactive.
func newConfirmer(yes bool, phrase string) danger.Confirmer {
	answers := answerConfirmer{yes: yes, phrase: phrase}
	if IsInteractive() {
		answers.next = terminalPrompter()
	}
	return answers
}

func confirm(message string) bool {
	if IsNonInteractive() {
		return false
	}
	return terminalPrompter().Confirm(message)
}

// lineNotifier prints notifications as colored lines.
type lineNotifier struct {
	out io.Writer
}

func (n lineNotifier) Notify(message string, severity notify.Severity) {
	fmt.Fprintln(n.out, colorize(message, severityColor(severity)))
}

func newNotifier() notify.Notifier {
	return lineNotifier{out: os.Stderr}
}

// requireAnswers fails fast when a non-interactive run could not answer the
// confirmations it will face.
func requireAnswers(yes bool, command string) error {
	if yes || IsInteractive() {
		return nil
	}
	return &PreflightError{
		Message:  "confirmation required",
		Hint:     "Run interactively or pass --yes",
		NextStep: command + " --yes",
	}
}
