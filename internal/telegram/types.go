package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotConfig configuration of the bot
type BotConfig struct {
	Token  string
	ChatID int64
	Debug  bool
}

// Bot outbound-only telegram client
type Bot struct {
	api    *tgbotapi.BotAPI
	config BotConfig
}
