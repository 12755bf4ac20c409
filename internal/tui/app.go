// Package tui implements the oficina terminal admin console.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/forms"
	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/models"
	"github.com/opencode-ai/oficina/internal/notify"
	"github.com/opencode-ai/oficina/internal/tabs"
	"github.com/opencode-ai/oficina/internal/theme"
	"github.com/opencode-ai/oficina/internal/tui/components"
	"github.com/opencode-ai/oficina/internal/tui/styles"
)

// Options wires the console to its collaborators. Remote collaborators may be
// nil when no server is configured.
type Options struct {
	Store        theme.Store
	DefaultTheme theme.ID

	Cleanup   danger.Client
	Passwords forms.PasswordSubmitter
	History   danger.History
	Navigator danger.Navigator

	ServerURL       string
	ExportURL       string
	SecurityLogsURL string

	ToastDuration time.Duration
	ReloadDelay   time.Duration

	// Recent loads the latest action history for the overview tab.
	Recent func(ctx context.Context, limit int) ([]*models.Event, error)
	// ThemeSelected is called after a theme is chosen and persisted.
	ThemeSelected func(id theme.ID)
}

// Run launches the console and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := newBridge()
	defer b.close()

	program := tea.NewProgram(newModel(ctx, opts, b), tea.WithAltScreen(), tea.WithContext(ctx))
	b.start(program.Send)

	_, err := program.Run()
	return err
}

const (
	minWidth      = 60
	minHeight     = 15
	frameInterval = 100 * time.Millisecond
	historyLimit  = 8
)

// Tab IDs.
const (
	tabGeneral    = "geral"
	tabAppearance = "aparencia"
	tabSecurity   = "seguranca"
	tabUsers      = "usuarios"
	tabServices   = "servicos"
	tabSystem     = "sistema"
)

var consoleTabs = []tabs.Tab{
	{ID: tabGeneral, Label: "Geral"},
	{ID: tabAppearance, Label: "Aparência"},
	{ID: tabSecurity, Label: "Segurança"},
	{ID: tabUsers, Label: "Usuários"},
	{ID: tabServices, Label: "Serviços"},
	{ID: tabSystem, Label: "Sistema"},
}

type service struct {
	ID   string
	Name string
}

var sampleServices = []service{
	{ID: "1", Name: "Troca de óleo"},
	{ID: "2", Name: "Alinhamento e balanceamento"},
	{ID: "3", Name: "Revisão de freios"},
}

type formKind int

const (
	formNone formKind = iota
	formPassword
	formColors
)

// Password form field names.
const (
	fieldCurrent = "senha_atual"
	fieldNew     = "nova_senha"
	fieldConfirm = "confirmar_senha"
)

type model struct {
	ctx    context.Context
	opts   Options
	logger zerolog.Logger

	width  int
	height int
	now    time.Time
	styles styles.Styles

	bridge     *bridge
	surface    *surface
	notifier   notify.Notifier
	themes     *theme.Controller
	dispatcher *danger.Dispatcher
	links      *danger.Links
	password   *forms.PasswordForm
	services   *forms.ServiceButtons
	tabs       *tabs.Controller

	picker        components.ThemeList
	toasts        components.Toasts
	modal         *components.Modal
	modalReply    chan<- components.Answer
	form          *components.Form
	formKind      formKind
	serviceCursor int

	busy        bool
	busyLabel   string
	busyDanger  bool
	lastAction  string
	lastOutcome danger.Outcome

	history    []*models.Event
	historyErr error
}

func newModel(ctx context.Context, opts Options, b *bridge) model {
	surface := newSurface()
	emitter := notify.NewEmitter(b, notify.WithScheduler(b), notify.WithDuration(opts.ToastDuration))

	m := model{
		ctx:      ctx,
		opts:     opts,
		logger:   logging.Component("tui"),
		now:      time.Now(),
		bridge:   b,
		surface:  surface,
		notifier: emitter,
		themes:   theme.NewController(opts.Store, surface, emitter, opts.DefaultTheme),
		password: forms.NewPasswordForm(opts.Passwords, emitter),
		services: forms.NewServiceButtons(b, emitter),
		picker:   components.ThemeList{IDs: theme.PickerList()},
	}

	dispatcherOpts := []danger.Option{danger.WithReloader(b)}
	if opts.History != nil {
		dispatcherOpts = append(dispatcherOpts, danger.WithHistory(opts.History))
	}
	if opts.ReloadDelay > 0 {
		dispatcherOpts = append(dispatcherOpts, danger.WithReloadDelay(opts.ReloadDelay))
	}
	if opts.Cleanup != nil {
		m.dispatcher = danger.NewDispatcher(opts.Cleanup, b, emitter, dispatcherOpts...)
	}
	if opts.Navigator != nil {
		m.links = danger.NewLinks(opts.ExportURL, opts.SecurityLogsURL, opts.Navigator, b, emitter)
	}

	m.initialize()
	return m
}

// initialize mirrors a page load: fresh tabs, restored theme, no open forms.
func (m *model) initialize() {
	m.tabs = tabs.New(consoleTabs, tabGeneral)
	restored := m.themes.RestoreTheme()
	m.picker.Cursor = indexOf(m.picker.IDs, restored)
	m.form = nil
	m.formKind = formNone
	m.serviceCursor = 0
	m.restyle()
}

func (m *model) restyle() {
	vars := m.surface.variables()
	m.styles = styles.BuildStyles(styles.FromVariables(vars[theme.VarTheme], vars))
	m.picker.Selected, m.picker.Checked = m.surface.selection()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.loadHistory())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		m.toasts.Prune(m.now)
		return m, tickCmd()
	case toastShowMsg:
		return m, m.toasts.Show(msg.Notification)
	case components.ToastExpiredMsg:
		m.toasts.Remove(msg.ID)
		return m, nil
	case questionMsg:
		return m.openQuestion(msg)
	case reloadMsg:
		m.logger.Info().Msg("reloading console")
		m.initialize()
		return m, m.loadHistory()
	case actionDoneMsg:
		m.busy = false
		m.busyLabel = ""
		m.busyDanger = false
		if msg.Outcome != "" {
			m.lastAction = msg.Label
			m.lastOutcome = msg.Outcome
		}
		if msg.Err != nil {
			m.logger.Warn().Err(msg.Err).Str("action", msg.Label).Msg("action ended with error")
		}
		return m, m.loadHistory()
	case historyLoadedMsg:
		m.history = msg.Events
		m.historyErr = msg.Err
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) openQuestion(msg questionMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		msg.Reply <- components.Answer{}
		return m, nil
	}
	if msg.Kind == components.ModalPrompt {
		m.modal = components.NewPrompt(msg.Message, m.busyDanger)
	} else {
		m.modal = components.NewConfirm(msg.Message, m.busyDanger)
	}
	m.modalReply = msg.Reply
	return m, m.modal.Init()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		done, answer, cmd := m.modal.Update(msg)
		if done {
			m.modalReply <- answer
			m.modal = nil
			m.modalReply = nil
		}
		return m, cmd
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "right":
		m.tabs.Next()
		return m, nil
	case "shift+tab", "left":
		m.tabs.Prev()
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		m.tabs.ActivateIndex(int(msg.String()[0] - '1'))
		return m, nil
	}

	switch m.tabs.Active() {
	case tabGeneral:
		if msg.String() == "h" {
			return m, m.loadHistory()
		}
	case tabAppearance:
		return m.handleAppearanceKey(msg)
	case tabSecurity:
		return m.handleSecurityKey(msg)
	case tabUsers:
		if msg.String() == "e" {
			return m.exportUsers()
		}
	case tabServices:
		return m.handleServicesKey(msg)
	case tabSystem:
		return m.handleSystemKey(msg)
	}
	return m, nil
}

func (m model) handleAppearanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker.Move(-1)
		m.previewHighlighted()
	case "down", "j":
		m.picker.Move(1)
		m.previewHighlighted()
	case "enter", " ":
		id, ok := m.picker.Highlighted()
		if !ok {
			return m, nil
		}
		if theme.PreviewOnly(id) {
			m.notifier.Notify(fmt.Sprintf("Tema %s disponível apenas para pré-visualização.", id), notify.SeverityInfo)
			return m, nil
		}
		if err := m.themes.SelectTheme(id); err != nil {
			m.notifier.Notify("❌ "+err.Error(), notify.SeverityError)
			return m, nil
		}
		if m.opts.ThemeSelected != nil {
			m.opts.ThemeSelected(id)
		}
		m.restyle()
	case "r":
		m.themes.RestoreTheme()
		m.restyle()
	case "c":
		vars := m.surface.variables()
		accent := vars[theme.VarAccent]
		if accent == "" {
			accent = theme.PreviewPalette[m.themes.Current()].Accent
		}
		m.form = components.NewForm("Cores personalizadas", []components.Field{
			{Name: theme.InputPrimary, Label: "Cor primária"},
			{Name: theme.InputSecondary, Label: "Cor secundária"},
			{Name: theme.InputAccent, Label: "Cor de destaque"},
		}, map[string]string{
			theme.InputPrimary:   vars[theme.VarPrimary],
			theme.InputSecondary: vars[theme.VarSecondary],
			theme.InputAccent:    accent,
		})
		m.formKind = formColors
	}
	return m, nil
}

func (m *model) previewHighlighted() {
	if id, ok := m.picker.Highlighted(); ok && m.themes.PreviewTheme(id) {
		m.restyle()
	}
}

func (m model) handleSecurityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m.form = components.NewForm("Alterar senha", []components.Field{
			{Name: fieldCurrent, Label: "Senha atual", Secret: true},
			{Name: fieldNew, Label: "Nova senha", Secret: true},
			{Name: fieldConfirm, Label: "Confirmar nova senha", Secret: true},
		}, nil)
		m.formKind = formPassword
	case "v":
		if m.links == nil {
			m.notifyNoServer()
			return m, nil
		}
		m.links.ViewSecurityLogs()
	}
	return m, nil
}

func (m model) handleServicesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.serviceCursor > 0 {
			m.serviceCursor--
		}
	case "down", "j":
		if m.serviceCursor < len(sampleServices)-1 {
			m.serviceCursor++
		}
	case "e":
		m.services.Edit(sampleServices[m.serviceCursor].ID)
	case "n":
		m.services.ShowModal("novo serviço")
	case "t":
		if m.busy {
			return m, nil
		}
		id := sampleServices[m.serviceCursor].ID
		services := m.services
		return m, m.start("status do serviço", false, func() actionDoneMsg {
			services.Toggle(id)
			return actionDoneMsg{Label: "status do serviço"}
		})
	}
	return m, nil
}

func (m model) handleSystemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var kind danger.Kind
	switch msg.String() {
	case "a":
		kind = danger.KindAppointments
	case "l":
		kind = danger.KindLogs
	case "t":
		kind = danger.KindTempFiles
	case "R":
		kind = danger.KindFullReset
	default:
		return m, nil
	}
	if m.busy {
		return m, nil
	}
	if m.dispatcher == nil {
		m.notifyNoServer()
		return m, nil
	}

	ctx, dispatcher := m.ctx, m.dispatcher
	label := string(kind)
	return m, m.start(label, true, func() actionDoneMsg {
		var outcome danger.Outcome
		var err error
		if kind == danger.KindFullReset {
			outcome, err = dispatcher.ResetAll(ctx)
		} else {
			outcome, err = dispatcher.Cleanup(ctx, kind)
		}
		return actionDoneMsg{Label: label, Outcome: outcome, Err: err}
	})
}

func (m model) exportUsers() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.links == nil {
		m.notifyNoServer()
		return m, nil
	}
	links := m.links
	return m, m.start("exportar usuários", false, func() actionDoneMsg {
		links.ExportUsers()
		return actionDoneMsg{Label: "exportar usuários"}
	})
}

func (m model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state, cmd := m.form.Update(msg)
	switch state {
	case components.FormCancelled:
		m.form = nil
		m.formKind = formNone
		return m, nil
	case components.FormSubmitted:
		return m.submitForm()
	}

	if m.formKind == formColors {
		field := m.form.Focused()
		if err := m.themes.PreviewSwatch(field, m.form.Value(field)); err == nil {
			m.restyle()
		}
	}
	return m, cmd
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	switch m.formKind {
	case formColors:
		err := m.themes.PreviewCustomColors(
			m.form.Value(theme.InputPrimary),
			m.form.Value(theme.InputSecondary),
			m.form.Value(theme.InputAccent),
		)
		if err != nil {
			m.notifier.Notify("❌ "+err.Error(), notify.SeverityError)
			return m, nil
		}
		m.restyle()
	case formPassword:
		if m.busy {
			return m, nil
		}
		change := forms.PasswordChange{
			Current:      m.form.Value(fieldCurrent),
			New:          m.form.Value(fieldNew),
			Confirmation: m.form.Value(fieldConfirm),
		}
		ctx, password := m.ctx, m.password
		m.form = nil
		m.formKind = formNone
		return m, m.start("alterar senha", false, func() actionDoneMsg {
			password.Submit(ctx, change)
			return actionDoneMsg{Label: "alterar senha"}
		})
	}
	m.form = nil
	m.formKind = formNone
	return m, nil
}

// start marks the console busy and runs fn off the update loop.
func (m *model) start(label string, dangerous bool, fn func() actionDoneMsg) tea.Cmd {
	m.busy = true
	m.busyLabel = label
	m.busyDanger = dangerous
	return func() tea.Msg {
		return fn()
	}
}

func (m model) notifyNoServer() {
	m.notifier.Notify("Servidor não configurado.", notify.SeverityWarning)
}

func (m model) loadHistory() tea.Cmd {
	recent := m.opts.Recent
	if recent == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		events, err := recent(ctx, historyLimit)
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func indexOf(ids []theme.ID, id theme.ID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return 0
}

func (m model) statusLine() string {
	if m.busy {
		return fmt.Sprintf("Executando: %s...", m.busyLabel)
	}
	return ""
}
