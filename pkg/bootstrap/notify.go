package bootstrap

import (
	"github.com/hashicorp/go-hclog"
)

// NewNotifier returns the platform dialog notifier, or a LogNotifier when
// dialogs are disabled (unattended installs).
func NewNotifier(cfg Config, logger hclog.Logger) Notifier {
	if !cfg.Dialogs {
		return &LogNotifier{Logger: logger}
	}
	return newDialogNotifier()
}

// LogNotifier records failures in the log only.
type LogNotifier struct {
	Logger hclog.Logger
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(title, text string) error {
	if n.Logger != nil {
		n.Logger.Error("Setup error", "title", title, "message", text)
	}
	return nil
}
