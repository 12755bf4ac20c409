// Package cli implements the oficina command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opencode-ai/oficina/internal/config"
	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/logging"
)

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	serverURL      string
	nonInteractive bool
	jsonOutput     bool
	jsonlOutput    bool
	noProgress     bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "oficina",
	Short: "Admin console for the vehicle-service management system",
	Long: `oficina manages the administrator settings of the vehicle-service
management system: themes, data cleanup, full reset, user export,
password change and security logs.

Run "oficina ui" for the interactive console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/oficina/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: json or console")
	flags.StringVar(&serverURL, "server", "", "base URL of the administration server")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail when input is required")
	flags.BoolVar(&jsonOutput, "json", false, "write JSON output")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "write JSON lines output")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func initConfig(cmd *cobra.Command) error {
	if jsonOutput && jsonlOutput {
		return errors.New("--json and --jsonl are mutually exclusive")
	}

	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	bindings := map[string]string{
		"logging.level":   "log-level",
		"logging.format":  "log-format",
		"server.base_url": "server",
	}
	for key, name := range bindings {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Check the config file and OFICINA_* environment variables",
			NextStep: "oficina init --force",
		}
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	appConfig = cfg
	logger := logging.Component("cli")
	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("server", cfg.Server.BaseURL).
		Msg("configuration loaded")
	return nil
}

// GetConfig returns the loaded configuration, or defaults before loading.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

func openDatabase() (*db.DB, error) {
	cfg := GetConfig()
	database, err := db.Open(db.Config{Path: cfg.Storage.Path})
	if err != nil {
		return nil, &PreflightError{
			Message:  err.Error(),
			Hint:     "Check storage.path in the config file",
			NextStep: "oficina init",
		}
	}
	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was given.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput encodes v as indented JSON, or as one compact line per element
// in JSON lines mode.
func WriteOutput(w io.Writer, v any) error {
	if IsJSONLOutput() {
		return writeJSONLines(w, v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONLines(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return enc.Encode(json.RawMessage(raw))
	}
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// PreflightError is a user-facing error with a remedy.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
	}
	if e.NextStep != "" {
		b.WriteString("\nNext: ")
		b.WriteString(e.NextStep)
	}
	return b.String()
}

func printError(w io.Writer, err error) {
	if IsJSONOutput() || IsJSONLOutput() {
		payload := map[string]string{"error": err.Error()}
		var preflight *PreflightError
		if errors.As(err, &preflight) {
			payload["error"] = preflight.Message
			payload["hint"] = preflight.Hint
			payload["next_step"] = preflight.NextStep
		}
		_ = json.NewEncoder(w).Encode(payload)
		return
	}
	fmt.Fprintln(w, colorize("Error: "+err.Error(), colorRed))
}

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
)

func colorize(text, color string) string {
	if color == "" || !colorEnabled() {
		return text
	}
	return color + text + colorReset
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}
