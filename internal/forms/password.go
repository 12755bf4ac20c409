// Package forms implements client-side form checks for the settings screen.
package forms

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/notify"
)

// MinPasswordLength is the shortest accepted new password, in bytes.
const MinPasswordLength = 8

// Validation errors.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is shorter than 8 characters")
)

// Message returns the text shown to the user for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return "As senhas não coincidem!"
	case errors.Is(err, ErrPasswordTooShort):
		return "A senha deve ter pelo menos 8 caracteres!"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// ValidatePassword checks that both entries match and are long enough.
func ValidatePassword(newPassword, confirmation string) error {
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordChange is the submitted form.
type PasswordChange struct {
	Current      string
	New          string
	Confirmation string
}

// PasswordSubmitter sends a validated change to the server.
type PasswordSubmitter interface {
	ChangePassword(ctx context.Context, change PasswordChange) error
}

// PasswordForm validates before submitting.
type PasswordForm struct {
	submitter PasswordSubmitter
	notifier  notify.Notifier
	logger    zerolog.Logger
}

// NewPasswordForm creates a PasswordForm. A nil submitter only validates.
func NewPasswordForm(submitter PasswordSubmitter, notifier notify.Notifier) *PasswordForm {
	return &PasswordForm{
		submitter: submitter,
		notifier:  notifier,
		logger:    logging.Component("forms"),
	}
}

// Submit reports whether the submission proceeded past local validation.
// Blocked submissions never contact the server.
func (f *PasswordForm) Submit(ctx context.Context, change PasswordChange) bool {
	if err := ValidatePassword(change.New, change.Confirmation); err != nil {
		f.logger.Debug().Err(err).Msg("password change blocked")
		f.notify("❌ "+Message(err), notify.SeverityError)
		return false
	}

	f.notify("🔐 Alterando senha...", notify.SeverityInfo)

	if f.submitter == nil {
		return true
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := f.submitter.ChangePassword(ctx, change); err != nil {
		f.logger.Warn().Err(err).Msg("password change failed")
		f.notify("❌ "+err.Error(), notify.SeverityError)
		return true
	}
	f.notify("✅ Senha alterada com sucesso!", notify.SeveritySuccess)
	return true
}

func (f *PasswordForm) notify(message string, severity notify.Severity) {
	if f.notifier != nil {
		f.notifier.Notify(message, severity)
	}
}
