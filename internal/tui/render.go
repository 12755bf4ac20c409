package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/models"
	"github.com/opencode-ai/oficina/internal/theme"
	"github.com/opencode-ai/oficina/internal/tui/components"
)

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", strings.Join(m.smallViewLines(), "\n"))
		}
	}

	lines := []string{
		m.styles.Title.Render("Oficina · Configurações do administrador"),
		m.tabBar(),
		"",
	}

	switch {
	case m.modal != nil:
		lines = append(lines, m.modal.View(m.styles, m.width))
	case m.form != nil:
		lines = append(lines, m.styles.Panel.Render(m.form.View(m.styles, m.formDecoration)))
	default:
		lines = append(lines, m.panelView())
	}

	if status := m.statusLine(); status != "" {
		lines = append(lines, "", m.styles.Warning.Render(status))
	}
	if toasts := m.toasts.View(m.now); toasts != "" {
		lines = append(lines, "", toasts)
	}

	lines = append(lines, "", m.styles.Muted.Render("Atalhos: tab/←/→ abas | 1-6 ir para aba | q sair"))
	return fmt.Sprintf("%s\n", strings.Join(lines, "\n"))
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal muito pequeno (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Redimensione para pelo menos %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Pressione q para sair."),
	}
}

func (m model) tabBar() string {
	parts := make([]string, 0, len(consoleTabs))
	for i, tab := range m.tabs.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Label)
		if m.tabs.ButtonActive(tab.ID) {
			parts = append(parts, m.styles.TabActive.Render(label))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) panelView() string {
	var body string
	var actions []components.QuickAction

	switch {
	case m.tabs.PanelActive(tabGeneral):
		body = m.generalPanel()
		actions = []components.QuickAction{{Key: "h", Label: "Atualizar histórico", Enabled: m.opts.Recent != nil}}
	case m.tabs.PanelActive(tabAppearance):
		body = m.appearancePanel()
		actions = []components.QuickAction{
			{Key: "↑/↓", Label: "Pré-visualizar", Enabled: true},
			{Key: "enter", Label: "Aplicar tema", Enabled: true},
			{Key: "r", Label: "Restaurar", Enabled: true},
			{Key: "c", Label: "Cores personalizadas", Enabled: true},
		}
	case m.tabs.PanelActive(tabSecurity):
		body = m.remoteHint("Altere a senha do administrador ou consulte os logs de segurança.")
		actions = []components.QuickAction{
			{Key: "p", Label: "Alterar senha", Enabled: true},
			{Key: "v", Label: "Logs de segurança", Enabled: m.links != nil},
		}
	case m.tabs.PanelActive(tabUsers):
		body = m.remoteHint("Exporte a lista de usuários em CSV.")
		actions = []components.QuickAction{{Key: "e", Label: "Exportar CSV", Enabled: m.links != nil && !m.busy}}
	case m.tabs.PanelActive(tabServices):
		body = m.servicesPanel()
		actions = []components.QuickAction{
			{Key: "e", Label: "Editar", Enabled: true},
			{Key: "t", Label: "Alterar status", Enabled: !m.busy},
			{Key: "n", Label: "Novo serviço", Enabled: true},
		}
	case m.tabs.PanelActive(tabSystem):
		body = m.systemPanel()
		enabled := m.dispatcher != nil && !m.busy
		actions = []components.QuickAction{
			{Key: "a", Label: "Agendamentos antigos", Enabled: enabled},
			{Key: "l", Label: "Logs do sistema", Enabled: enabled},
			{Key: "t", Label: "Arquivos temporários", Enabled: enabled},
			{Key: "R", Label: "Reset total", Enabled: enabled},
		}
	default:
		body = m.styles.Muted.Render("Selecione uma aba.")
	}

	content := body
	if bar := components.RenderQuickActionBar(m.styles, actions); bar != "" {
		content += "\n\n" + bar
	}
	return m.styles.Panel.Render(content)
}

func (m model) remoteHint(text string) string {
	if m.dispatcher == nil && m.links == nil {
		return components.NoServer().Render(m.styles)
	}
	return m.styles.Text.Render(text)
}

func (m model) generalPanel() string {
	selected, _ := m.surface.selection()
	server := m.opts.ServerURL
	if server == "" {
		server = "(não configurado)"
	}

	lines := []string{
		fmt.Sprintf("%s %s", m.styles.Muted.Render("Servidor:"), m.styles.Text.Render(server)),
		fmt.Sprintf("%s %s", m.styles.Muted.Render("Tema:"), m.styles.Accent.Render(string(selected))),
	}
	if m.lastAction != "" {
		lines = append(lines, fmt.Sprintf("%s %s %s", m.styles.Muted.Render("Última ação:"), m.lastAction, components.RenderOutcomeBadge(m.styles, m.lastOutcome)))
	}

	lines = append(lines, "", m.styles.Title.Render("Histórico recente"))
	switch {
	case m.historyErr != nil:
		lines = append(lines, m.styles.Error.Render("Falha ao carregar histórico: "+m.historyErr.Error()))
	case len(m.history) == 0:
		lines = append(lines, components.EmptyHistory().Render(m.styles))
	default:
		for _, event := range m.history {
			lines = append(lines, m.historyLine(event))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) historyLine(event *models.Event) string {
	outcome := danger.Outcome(strings.TrimPrefix(string(event.Type), "action."))
	badge := components.RenderOutcomeBadge(m.styles, outcome)
	if event.EntityType != models.EntityTypeAction {
		badge = m.styles.Info.Render(string(event.Type))
	}
	return fmt.Sprintf("%s  %-14s %s", m.styles.Muted.Render(event.Timestamp.Local().Format("02/01 15:04:05")), event.EntityID, badge)
}

func (m model) appearancePanel() string {
	vars := m.surface.variables()
	lines := []string{
		m.picker.View(m.styles),
		"",
		m.styles.Muted.Render("Pré-visualização:"),
		fmt.Sprintf("%s primária  %s secundária  %s destaque",
			components.Swatch(vars[theme.VarPrimary]),
			components.Swatch(vars[theme.VarSecondary]),
			components.Swatch(vars[theme.VarAccent])),
	}
	return strings.Join(lines, "\n")
}

func (m model) formDecoration(name string) string {
	if m.formKind != formColors {
		return ""
	}
	return components.Swatch(m.surface.swatch(theme.SwatchName(name)))
}

func (m model) servicesPanel() string {
	lines := make([]string, 0, len(sampleServices))
	for i, svc := range sampleServices {
		line := fmt.Sprintf("  #%s %s", svc.ID, svc.Name)
		if i == m.serviceCursor {
			line = m.styles.Focus.Render(fmt.Sprintf("› #%s %s", svc.ID, svc.Name))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) systemPanel() string {
	if m.dispatcher == nil {
		return components.NoServer().Render(m.styles)
	}
	lines := []string{
		m.styles.Error.Bold(true).Render("Zona de perigo"),
		m.styles.Muted.Render("Limpezas pedem confirmação. O reset total pede duas confirmações e a frase " + danger.ResetPhrase + "."),
	}
	return strings.Join(lines, "\n")
}
