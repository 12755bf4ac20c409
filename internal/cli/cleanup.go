package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/events"
)

var (
	cleanupYes  bool
	resetYes    bool
	resetPhrase string
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(resetCmd)

	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "answer yes to the confirmation")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "answer yes to both warnings")
	resetCmd.Flags().StringVar(&resetPhrase, "phrase", "", "confirmation phrase ("+danger.ResetPhrase+")")
}

type actionResult struct {
	Kind    danger.Kind    `json:"kind"`
	Outcome danger.Outcome `json:"outcome"`
}

var cleanupCmd = &cobra.Command{
	Use:       "cleanup <agendamentos|logs|temp>",
	Short:     "Run a light cleanup on the server",
	Long:      "Ask for confirmation and ask the server to remove old appointments, system logs or temporary files.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: cleanupArgs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := danger.Kind(strings.TrimSpace(args[0]))
		if !danger.IsCleanup(kind) {
			return &PreflightError{
				Message:  fmt.Sprintf("unknown cleanup %q", args[0]),
				Hint:     "Valid kinds: " + strings.Join(cleanupArgs(), ", "),
				NextStep: "oficina cleanup logs",
			}
		}
		if err := requireAnswers(cleanupYes, "oficina cleanup "+string(kind)); err != nil {
			return err
		}

		ctx := contextOf(cmd)
		return runAction(ctx, kind, newConfirmer(cleanupYes, ""), func(d *danger.Dispatcher) (danger.Outcome, error) {
			return d.Cleanup(ctx, kind)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all server data",
	Long: `Erase every record on the server except administrator accounts.

Two warnings must be accepted and the phrase "` + danger.ResetPhrase + `" typed exactly.
Non-interactive runs must pass --yes and --phrase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnswers(resetYes && resetPhrase != "", "oficina reset --phrase '"+danger.ResetPhrase+"'"); err != nil {
			return err
		}

		ctx := contextOf(cmd)
		return runAction(ctx, danger.KindFullReset, newConfirmer(resetYes, resetPhrase), func(d *danger.Dispatcher) (danger.Outcome, error) {
			return d.ResetAll(ctx)
		})
	},
}

func runAction(ctx context.Context, kind danger.Kind, confirmer danger.Confirmer, run func(*danger.Dispatcher) (danger.Outcome, error)) error {
	cfg := GetConfig()

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	client, err := newAdminClient(ctx, cfg)
	if err != nil {
		return err
	}

	dispatcher := danger.NewDispatcher(client, confirmer, newNotifier(),
		danger.WithHistory(events.ActionHistory{Repo: db.NewEventRepository(database), Server: cfg.Server.BaseURL}),
		danger.WithReloadDelay(0),
		danger.WithReloader(danger.ReloaderFunc(func() {
			fmt.Fprintln(os.Stderr, colorize("Sistema reiniciado. Reabra o console para carregar os dados.", colorYellow))
		})),
	)

	outcome, err := run(dispatcher)
	if err != nil {
		return err
	}

	if IsJSONOutput() || IsJSONLOutput() {
		if err := WriteOutput(os.Stdout, actionResult{Kind: kind, Outcome: outcome}); err != nil {
			return err
		}
	}
	return outcomeError(kind, outcome)
}

func outcomeError(kind danger.Kind, outcome danger.Outcome) error {
	switch outcome {
	case danger.OutcomeSucceeded:
		return nil
	case danger.OutcomeCancelled:
		return errAborted
	default:
		return fmt.Errorf("%s: %s", kind, formatStatusLabel("falhou", string(outcome)))
	}
}

func cleanupArgs() []string {
	kinds := danger.CleanupKinds()
	out := make([]string, len(kinds))
	for i, kind := range kinds {
		out[i] = string(kind)
	}
	return out
}
