package danger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencode-ai/oficina/internal/notify"
)

type fakeNavigator struct {
	navigated []string
	opened    []string
	err       error
}

func (n *fakeNavigator) Navigate(url string) error {
	n.navigated = append(n.navigated, url)
	return n.err
}

func (n *fakeNavigator) Open(url string) error {
	n.opened = append(n.opened, url)
	return n.err
}

func TestExportUsers(t *testing.T) {
	nav := &fakeNavigator{}
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	links := NewLinks("http://h/exportar-usuarios/", "http://h/admin/security-logs/", nav, confirmer, notify.NewRecorder())

	assert.True(t, links.ExportUsers())
	assert.Equal(t, []string{"http://h/exportar-usuarios/"}, nav.navigated)
	assert.Equal(t, []string{ExportPrompt}, confirmer.asked)
}

func TestExportUsers_Declined(t *testing.T) {
	nav := &fakeNavigator{}
	links := NewLinks("e", "s", nav, &scriptedConfirmer{answers: []bool{false}}, nil)

	assert.False(t, links.ExportUsers())
	assert.Empty(t, nav.navigated)
}

func TestViewSecurityLogs(t *testing.T) {
	nav := &fakeNavigator{}
	links := NewLinks("e", "http://h/admin/security-logs/", nav, nil, nil)

	assert.True(t, links.ViewSecurityLogs())
	assert.Equal(t, []string{"http://h/admin/security-logs/"}, nav.opened)
}

func TestViewSecurityLogs_ErrorNotifies(t *testing.T) {
	nav := &fakeNavigator{err: errors.New("no browser")}
	recorder := notify.NewRecorder()
	links := NewLinks("e", "s", nav, nil, recorder)

	assert.False(t, links.ViewSecurityLogs())
	n, ok := recorder.Last()
	assert.True(t, ok)
	assert.Contains(t, n.Message, "no browser")
	assert.Equal(t, notify.SeverityError, n.Severity)
}
