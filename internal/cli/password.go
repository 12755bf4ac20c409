package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/forms"
)

func init() {
	rootCmd.AddCommand(passwordCmd)
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the administrator password",
	Long:  "Read the current and new password from the terminal without echo and submit the change.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IsNonInteractive() {
			return &PreflightError{
				Message:  "password change requires an interactive terminal",
				Hint:     "Run without --non-interactive and with a TTY",
				NextStep: "oficina password",
			}
		}

		change, err := readPasswordChange(readSecret)
		if err != nil {
			return err
		}

		ctx := contextOf(cmd)
		client, err := newAdminClient(ctx, GetConfig())
		if err != nil {
			return err
		}
		return submitPassword(ctx, client, change)
	},
}

func readPasswordChange(read func(prompt string) (string, error)) (forms.PasswordChange, error) {
	var change forms.PasswordChange
	var err error
	if change.Current, err = read("Senha atual: "); err != nil {
		return change, err
	}
	if change.New, err = read("Nova senha: "); err != nil {
		return change, err
	}
	if change.Confirmation, err = read("Confirmar nova senha: "); err != nil {
		return change, err
	}
	return change, nil
}

// submitPassword runs the form and turns its notifications into an exit status.
func submitPassword(ctx context.Context, submitter forms.PasswordSubmitter, change forms.PasswordChange) error {
	capture := &capturingSubmitter{next: submitter}
	form := forms.NewPasswordForm(capture, newNotifier())
	if !form.Submit(ctx, change) {
		return forms.ValidatePassword(change.New, change.Confirmation)
	}
	return capture.err
}

type capturingSubmitter struct {
	next forms.PasswordSubmitter
	err  error
}

func (c *capturingSubmitter) ChangePassword(ctx context.Context, change forms.PasswordChange) error {
	c.err = c.next.ChangePassword(ctx, change)
	return c.err
}
