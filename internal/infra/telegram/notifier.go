package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"mixpool-commerce/internal/config"
	"mixpool-commerce/internal/domain/ports/adapter"
	"mixpool-commerce/internal/infra/logging"
)

var _ adapter.Notifier = (*SaleNotifier)(nil)

// SaleNotifier pushes sale and booking notifications to the operator's
// Telegram chat. It is fire-and-forget for its callers: failures are logged
// here and never abort payment processing.
type SaleNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

func NewSaleNotifier(cfg *config.TelegramConfig, logger *zerolog.Logger) (*SaleNotifier, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.New("telegram config is missing a token")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram config is missing a chat id")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &SaleNotifier{bot: bot, chatID: cfg.ChatID, log: logger}, nil
}

func (n *SaleNotifier) NotifySale(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logging.With(ctx, n.log).Warn().Err(err).Msg("telegram notify failed")
		return err
	}
	return nil
}
