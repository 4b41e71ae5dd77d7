package notifier

import (
	"log/slog"

	"github.com/calebmills/redlead/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new leads to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each new lead via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each lead with username, status, and creation time.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(leads []model.Lead) error {
	for _, l := range leads {
		n.logger.Info("new lead",
			"username", l.RedditUsername,
			"status", l.Status,
			"created_at", l.CreatedAt,
		)
	}
	return nil
}
