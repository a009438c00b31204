package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		api:    bot,
		config: c,
	}, nil
}

// SendMessage pushes a Markdown message to the configured chat.
func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.config.ChatID, text)
	msg.DisableWebPagePreview = true
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	return errors.Wrap(err, "could not send message")
}

// SendPhoto pushes a PNG with a Markdown caption to the configured chat.
func (b *Bot) SendPhoto(png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(b.config.ChatID, tgbotapi.FileBytes{
		Name:  "chart.png",
		Bytes: png,
	})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(photo)
	return errors.Wrap(err, "could not send photo")
}
