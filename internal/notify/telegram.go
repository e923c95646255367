package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertBot pushes short operational messages (approvals, KYC decisions) to a
// Telegram chat watched by the ops team.
type AlertBot struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertBot(token string, chatID int64) (*AlertBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Telegram alerts enabled. Authorized on account %s", bot.Self.UserName)
	return &AlertBot{bot: bot, chatID: chatID}, nil
}

// Send delivers a message to the alert chat. Failures are logged only.
func (b *AlertBot) Send(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.bot.Send(msg); err != nil {
		log.Printf("Telegram alert failed: %v", err)
	}
}
