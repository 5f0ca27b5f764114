package daemon

import (
	"log/slog"

	"github.com/1broseidon/termdesk/internal/widgets"
)

// session ends the desktop on logout and shutdown. Locking is left to the
// host system and only logged.
type session struct {
	logger *slog.Logger
	quit   func()
}

func (s *session) Power(a widgets.PowerAction) error {
	switch a {
	case widgets.PowerLogout, widgets.PowerShutdown:
		s.logger.Info("session ending", "action", a.String())
		s.quit()
	default:
		s.logger.Info("power action ignored", "action", a.String())
	}
	return nil
}
