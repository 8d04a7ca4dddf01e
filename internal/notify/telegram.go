package notify

import (
	"context"
	"fmt"

	"cardioguard/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier delivers escalation alerts to the care team's Telegram
// chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) EscalationRaised(ctx context.Context, esc *models.Escalation, note string) error {
	msg := tgbotapi.NewMessage(n.chatID, note)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("failed to send escalation alert",
			zap.Error(err),
			zap.String("patient_id", esc.PatientID),
			zap.Int64("chat_id", n.chatID))
		return fmt.Errorf("failed to send escalation alert: %w", err)
	}
	return nil
}
