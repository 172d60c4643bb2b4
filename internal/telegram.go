package internal

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Telegram sends operator alerts to a chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatId int64
}

func NewTelegram(token string, chatId int64) (*Telegram, error) {
	if token == "" || chatId == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatId: chatId}, nil
}

func (t *Telegram) Notify(text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(t.chatId, text))
	return err
}
