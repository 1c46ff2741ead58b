// pkg/telegram/bot.go
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/telegram/handler"
)

// Bot runs the long-poll update loop.
type Bot struct {
	api       *tgbotapi.BotAPI
	messages  *handler.MessageHandler
	callbacks *handler.CallbackHandler
}

func NewBot(api *tgbotapi.BotAPI, messages *handler.MessageHandler, callbacks *handler.CallbackHandler) *Bot {
	return &Bot{api: api, messages: messages, callbacks: callbacks}
}

// Start blocks receiving updates. Each update runs on its own goroutine so a
// slow chat cannot stall the loop; the heavy pipeline work is queued further
// down anyway.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		if update.Message != nil {
			go b.messages.HandleMessage(update.Message)
		}
		if update.CallbackQuery != nil {
			go b.callbacks.HandleCallback(update.CallbackQuery)
		}
	}
}
