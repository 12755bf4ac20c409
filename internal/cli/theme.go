package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/events"
	"github.com/opencode-ai/oficina/internal/theme"
)

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themePreviewCmd)
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage the console theme",
}

type themeInfo struct {
	ID        theme.ID `json:"id"`
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Current   bool     `json:"current"`
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, closeDB, err := openThemeController(nil)
		if err != nil {
			return err
		}
		defer closeDB()

		current := controller.RestoreTheme()
		ids := theme.List()
		infos := make([]themeInfo, 0, len(ids))
		for _, id := range ids {
			colors, _ := theme.Lookup(id)
			infos = append(infos, themeInfo{ID: id, Primary: colors.Primary, Secondary: colors.Secondary, Current: id == current})
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				string(info.ID),
				swatch(info.Primary) + " " + info.Primary,
				swatch(info.Secondary) + " " + info.Secondary,
				formatYesNo(info.Current),
			})
		}
		return writeTable(os.Stdout, []string{"TEMA", "PRIMÁRIA", "SECUNDÁRIA", "ATUAL"}, rows)
	},
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, closeDB, err := openThemeController(nil)
		if err != nil {
			return err
		}
		defer closeDB()

		id := controller.RestoreTheme()
		colors, _ := theme.Lookup(id)
		info := themeInfo{ID: id, Primary: colors.Primary, Secondary: colors.Secondary, Current: true}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, info)
		}
		fmt.Printf("Tema: %s\n", colorize(string(id), colorCyan))
		fmt.Printf("Primária:   %s %s\n", swatch(colors.Primary), colors.Primary)
		fmt.Printf("Secundária: %s %s\n", swatch(colors.Secondary), colors.Secondary)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set <theme>",
	Short: "Select and persist a theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := theme.ID(strings.ToLower(strings.TrimSpace(args[0])))
		if !theme.IsKnown(id) {
			return &PreflightError{
				Message:  fmt.Sprintf("unknown theme %q", args[0]),
				Hint:     "Available themes: " + joinIDs(theme.List()),
				NextStep: "oficina theme list",
			}
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		controller := theme.NewController(db.NewPreferenceRepository(database), nil, newNotifier(), theme.ID(GetConfig().UI.DefaultTheme))
		if err := controller.SelectTheme(id); err != nil {
			return err
		}
		if err := events.LogThemeSelected(contextOf(cmd), db.NewEventRepository(database), string(id)); err != nil {
			return fmt.Errorf("failed to record theme selection: %w", err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			colors, _ := theme.Lookup(id)
			return WriteOutput(os.Stdout, themeInfo{ID: id, Primary: colors.Primary, Secondary: colors.Secondary, Current: true})
		}
		return nil
	},
}

var themePreviewCmd = &cobra.Command{
	Use:   "preview <primary> <secondary> <accent>",
	Short: "Preview custom colors without saving them",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		view := newVariableView()
		controller := theme.NewController(nil, view, nil, theme.DefaultID)
		if err := controller.PreviewCustomColors(args[0], args[1], args[2]); err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, view.vars)
		}
		for _, name := range []string{theme.VarPrimary, theme.VarSecondary, theme.VarAccent} {
			fmt.Printf("%-18s %s %s\n", name, swatch(view.vars[name]), view.vars[name])
		}
		return nil
	},
}

func openThemeController(view theme.View) (*theme.Controller, func(), error) {
	database, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	controller := theme.NewController(db.NewPreferenceRepository(database), view, nil, theme.ID(GetConfig().UI.DefaultTheme))
	return controller, func() { database.Close() }, nil
}

// variableView collects style variables for printing.
type variableView struct {
	vars map[string]string
}

func newVariableView() *variableView {
	return &variableView{vars: make(map[string]string)}
}

func (v *variableView) SetStyleVariable(name, value string) { v.vars[name] = value }
func (v *variableView) SetSelectedOption(theme.ID)          {}
func (v *variableView) SetChecked(theme.ID)                 {}
func (v *variableView) SetSwatch(string, string)            {}

func swatch(color string) string {
	if color == "" || !colorEnabled() {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func joinIDs(ids []theme.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
