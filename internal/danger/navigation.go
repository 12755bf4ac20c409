package danger

import (
	"github.com/opencode-ai/oficina/internal/notify"
)

// ExportPrompt confirms the user export.
const ExportPrompt = "Deseja exportar a lista de usuários para CSV?"

// Navigator leaves the console for a server page.
type Navigator interface {
	// Navigate replaces the current context with url.
	Navigate(url string) error
	// Open shows url in a new browsing context.
	Open(url string) error
}

// Links are the outbound navigations of the settings screen.
type Links struct {
	ExportURL       string
	SecurityLogsURL string

	navigator Navigator
	confirmer Confirmer
	notifier  notify.Notifier
}

// NewLinks creates Links.
func NewLinks(exportURL, securityLogsURL string, navigator Navigator, confirmer Confirmer, notifier notify.Notifier) *Links {
	return &Links{
		ExportURL:       exportURL,
		SecurityLogsURL: securityLogsURL,
		navigator:       navigator,
		confirmer:       confirmer,
		notifier:        notifier,
	}
}

// ExportUsers confirms and navigates to the export endpoint. It reports
// whether navigation happened.
func (l *Links) ExportUsers() bool {
	if l.confirmer == nil || !l.confirmer.Confirm(ExportPrompt) {
		return false
	}
	if err := l.navigator.Navigate(l.ExportURL); err != nil {
		l.fail(err)
		return false
	}
	return true
}

// ViewSecurityLogs opens the security log viewer.
func (l *Links) ViewSecurityLogs() bool {
	if err := l.navigator.Open(l.SecurityLogsURL); err != nil {
		l.fail(err)
		return false
	}
	return true
}

func (l *Links) fail(err error) {
	if l.notifier != nil {
		l.notifier.Notify("❌ "+err.Error(), notify.SeverityError)
	}
}
