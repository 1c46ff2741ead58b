package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/telegram/middleware"
	"github.com/tunehound/tunehound/pkg/telegram/service"
)

// MessageHandler routes incoming messages to the message service.
type MessageHandler struct {
	messageService service.MessageService
	limiter        *middleware.RateLimiter
}

// NewMessageHandler builds the handler; limiter may be nil when Redis is not
// configured.
func NewMessageHandler(ms service.MessageService, limiter *middleware.RateLimiter) *MessageHandler {
	return &MessageHandler{messageService: ms, limiter: limiter}
}

func (h *MessageHandler) HandleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if h.limiter != nil && !h.limiter.Allow(context.Background(), msg.From.ID) {
		h.messageService.SendErrorMessage(msg.Chat.ID, "Please wait before sending another request")
		return
	}

	if msg.IsCommand() {
		h.handleCommand(msg)
		return
	}

	switch msg.Text {
	case service.ButtonRecognize:
		h.messageService.SendMessage(msg.Chat.ID, service.RecognizePrompt)
	case service.ButtonHistory:
		h.messageService.HandleHistory(msg)
	case "":
		// No text means a media message (or something we cannot use; the
		// service replies with the prompt in that case).
		h.messageService.HandleMedia(msg)
	default:
		h.messageService.SendMessage(msg.Chat.ID, service.RecognizePrompt)
	}
}

func (h *MessageHandler) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.messageService.HandleStart(msg)
	case "help":
		h.messageService.HandleHelp(msg)
	case "history":
		h.messageService.HandleHistory(msg)
	case "find":
		h.messageService.HandleFind(msg)
	default:
		h.messageService.SendUnknownCommand(msg.Chat.ID)
	}
}
