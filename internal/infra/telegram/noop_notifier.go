package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain/ports/adapter"
	"mixpool-commerce/internal/infra/logging"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier implements adapter.Notifier for local/dev runs. It logs
// messages instead of sending real Telegram messages.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(logger *zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: logger}
}

func (n *NoopNotifier) NotifySale(ctx context.Context, text string) error {
	logging.With(ctx, n.log).Info().Str("text", text).Msg("[noop-telegram] sale notification")
	return nil
}
