package execution

import (
	"context"
	"log"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Notifier delivers trade and hold confirmations.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// LogNotifier writes confirmations to the process log. It is the
// default when no Telegram chat is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, message string) error {
	log.Println(message)
	return nil
}

type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramNotifier sends confirmations to a Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier returns nil when the token or chat is missing,
// which callers treat as "use the log notifier".
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.Printf("failed to create Telegram bot, notifications disabled: %v", err)
		return nil
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	_, err := n.bot.Send(&tele.Chat{ID: n.chatID}, message)
	return err
}
