package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"memepool/internal/model"
)

// Notifier posts vault operation outcomes to an operator Telegram chat. It
// consumes only typed results; a missing token disables it entirely.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates a Notifier. An empty token or zero chat id returns a disabled
// notifier that ignores every call.
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return &Notifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}

	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Enabled reports whether outcomes are being delivered anywhere.
func (n *Notifier) Enabled() bool {
	return n.bot != nil
}

// OperationOutcome reports a finished (or timed-out) write. Delivery is
// best effort; a send failure is logged and never surfaces to the caller.
func (n *Notifier) OperationOutcome(op model.OperationType, amount float64, signature, status string) {
	if n.bot == nil {
		return
	}

	text := fmt.Sprintf("%s of %.9f: %s", op, amount, status)
	if signature != "" {
		text += fmt.Sprintf("\nsignature: %s", signature)
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		log.Printf("Failed to send telegram notification: %v", err)
	}
}
