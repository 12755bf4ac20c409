package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/browser"
	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/events"
	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/models"
	"github.com/opencode-ai/oficina/internal/theme"
	"github.com/opencode-ai/oficina/internal/tui"
)

var uiOffline bool

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().BoolVar(&uiOffline, "offline", false, "start without contacting the server")
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the admin console",
	Long:  "Launch the interactive terminal console for the administrator settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func runTUI(ctx context.Context) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the console requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use the subcommands",
			NextStep: "oficina --help",
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Component("ui")

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	cfg := GetConfig()
	prefs := db.NewPreferenceRepository(database)
	eventRepo := db.NewEventRepository(database)

	opts := tui.Options{
		Store:         prefs,
		DefaultTheme:  theme.ID(cfg.UI.DefaultTheme),
		ToastDuration: cfg.UI.ToastDuration,
		ReloadDelay:   cfg.UI.ReloadDelay,
		Recent: func(ctx context.Context, limit int) ([]*models.Event, error) {
			return eventRepo.List(ctx, db.EventQuery{Limit: limit})
		},
		ThemeSelected: func(id theme.ID) {
			if err := events.LogThemeSelected(ctx, eventRepo, string(id)); err != nil {
				logger.Warn().Err(err).Str("theme", string(id)).Msg("failed to record theme selection")
			}
		},
	}

	if !uiOffline {
		client, err := newAdminClient(ctx, cfg)
		if err != nil {
			return err
		}
		opts.Cleanup = client
		opts.Passwords = client
		opts.History = events.ActionHistory{Repo: eventRepo, Server: cfg.Server.BaseURL}
		opts.Navigator = browser.Opener{}
		opts.ServerURL = cfg.Server.BaseURL
		opts.ExportURL = client.URL(cfg.Server.Paths.ExportUsers)
		opts.SecurityLogsURL = client.URL(cfg.Server.Paths.SecurityLogs)
	}

	logger.Info().Bool("offline", uiOffline).Str("server", opts.ServerURL).Msg("starting console")
	return tui.Run(ctx, opts)
}
