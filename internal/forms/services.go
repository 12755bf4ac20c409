package forms

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/logging"
	"github.com/opencode-ai/oficina/internal/notify"
)

// ToggleServicePrompt confirms a service status change.
const ToggleServicePrompt = "Confirma a alteração do status deste serviço?"

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ServiceButtons backs the placeholder service and modal buttons.
type ServiceButtons struct {
	confirmer Confirmer
	notifier  notify.Notifier
	logger    zerolog.Logger
}

// NewServiceButtons creates ServiceButtons.
func NewServiceButtons(confirmer Confirmer, notifier notify.Notifier) *ServiceButtons {
	return &ServiceButtons{
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logging.Component("services"),
	}
}

// Edit reports that service editing is not available yet.
func (s *ServiceButtons) Edit(serviceID string) {
	s.logger.Debug().Str("service", serviceID).Msg("edit requested")
	s.notify(fmt.Sprintf("Edição de serviço ID: %s em desenvolvimento.", serviceID), notify.SeverityInfo)
}

// Toggle confirms and reports a status change. It reports whether the user
// confirmed.
func (s *ServiceButtons) Toggle(serviceID string) bool {
	if s.confirmer == nil || !s.confirmer.Confirm(ToggleServicePrompt) {
		s.logger.Debug().Str("service", serviceID).Msg("status change declined")
		return false
	}
	s.logger.Info().Str("service", serviceID).Msg("status change confirmed")
	s.notify("Status alterado com sucesso!", notify.SeveritySuccess)
	return true
}

// ShowModal reports that the named modal is not available yet.
func (s *ServiceButtons) ShowModal(kind string) {
	s.notify(fmt.Sprintf("Modal para %s em desenvolvimento. Esta funcionalidade será implementada em breve.", kind), notify.SeverityInfo)
}

func (s *ServiceButtons) notify(message string, severity notify.Severity) {
	if s.notifier != nil {
		s.notifier.Notify(message, severity)
	}
}
