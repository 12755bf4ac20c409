package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/opencode-ai/oficina/internal/adminapi"
	"github.com/opencode-ai/oficina/internal/config"
	"github.com/opencode-ai/oficina/internal/logging"
)

// newAdminClient builds the server client and signs in when a username is
// configured. The password comes from config, OFICINA_SERVER_PASSWORD or a
// hidden prompt, in that order.
func newAdminClient(ctx context.Context, cfg *config.Config) (*adminapi.Client, error) {
	paths := cfg.Server.Paths
	client := adminapi.New(cfg.Server.BaseURL, adminapi.WithPaths(adminapi.Paths{
		Login:        paths.Login,
		Settings:     paths.Settings,
		Cleanup:      paths.Cleanup,
		ExportUsers:  paths.ExportUsers,
		SecurityLogs: paths.SecurityLogs,
	}))

	username := strings.TrimSpace(cfg.Server.Username)
	if username == "" {
		return client, nil
	}

	password, err := serverPassword(cfg)
	if err != nil {
		return nil, err
	}

	step := startProgress(fmt.Sprintf("Entrando como %s", username))
	if err := client.Login(ctx, username, password); err != nil {
		step.Fail(err)
		return nil, &PreflightError{
			Message:  fmt.Sprintf("login failed: %v", err),
			Hint:     "Check server.username and the password",
			NextStep: "oficina --server " + cfg.Server.BaseURL + " history",
		}
	}
	step.Done()
	logger := logging.Component("cli")
	logger.Info().Str("user", username).Msg("signed in")
	return client, nil
}

func serverPassword(cfg *config.Config) (string, error) {
	if cfg.Server.Password != "" {
		return cfg.Server.Password, nil
	}
	if IsNonInteractive() {
		return "", &PreflightError{
			Message:  "server password required",
			Hint:     "Set OFICINA_SERVER_PASSWORD or server.password",
			NextStep: "export OFICINA_SERVER_PASSWORD=...",
		}
	}
	return readSecret(fmt.Sprintf("Senha de %s: ", cfg.Server.Username))
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
