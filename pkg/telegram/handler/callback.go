package handler

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/telegram/service"
)

const historyCallbackPrefix = "history:"

// CallbackHandler serves inline keyboard callbacks; currently that is only
// history pagination.
type CallbackHandler struct {
	bot     *tgbotapi.BotAPI
	history *service.HistoryService
	logger  *logging.Logger
}

func NewCallbackHandler(bot *tgbotapi.BotAPI, history *service.HistoryService, logger *logging.Logger) *CallbackHandler {
	return &CallbackHandler{bot: bot, history: history, logger: logger}
}

func (h *CallbackHandler) HandleCallback(cb *tgbotapi.CallbackQuery) {
	// Answer first so the client stops showing the spinner.
	defer h.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	if cb.Message == nil || !strings.HasPrefix(cb.Data, historyCallbackPrefix) {
		return
	}
	page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, historyCallbackPrefix))
	if err != nil {
		return
	}

	text, markup, err := h.history.Page(context.Background(), cb.From.ID, page)
	if err != nil {
		h.logger.Errorf("history page %d failed for %d: %v", page, cb.From.ID, err)
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	if markup != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
		edit.ParseMode = tgbotapi.ModeMarkdown
		h.bot.Send(edit)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	h.bot.Send(edit)
}
