package service

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/queue"
)

// Reply keyboard labels; the media handler also matches on these.
const (
	ButtonRecognize = "🎵 Recognize Song"
	ButtonHistory   = "📜 History"
)

// RecognizePrompt is sent for the recognize button and for unsupported media.
const RecognizePrompt = "Please send an audio, voice, video, or video note file to recognize the song."

const welcomeText = "Welcome to the Music Recognition Bot! 🎶\n" +
	"Send an audio, voice, video, or video note file and I will name the track."

const helpText = "Send me a clip of at least 10 seconds and I will identify the song.\n\n" +
	"Commands:\n" +
	"/start — show the menu\n" +
	"/find <text> — search your recognition history\n" +
	"/help — this message"

type messageServiceImpl struct {
	bot        Sender
	users      UserStore
	dispatcher queue.Dispatcher
	history    *HistoryService
	search     *SearchService
	logger     *logging.Logger
}

func NewMessageService(bot Sender, users UserStore, dispatcher queue.Dispatcher, history *HistoryService, search *SearchService, logger *logging.Logger) MessageService {
	return &messageServiceImpl{
		bot:        bot,
		users:      users,
		dispatcher: dispatcher,
		history:    history,
		search:     search,
		logger:     logger,
	}
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonRecognize),
			tgbotapi.NewKeyboardButton(ButtonHistory),
		),
	)
}

func (s *messageServiceImpl) HandleStart(msg *tgbotapi.Message) {
	if err := s.users.CreateUser(context.Background(), msg.From.ID, msg.From.UserName); err != nil {
		s.logger.Errorf("user upsert failed for %d: %v", msg.From.ID, err)
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	reply.ReplyMarkup = menuKeyboard()
	s.bot.Send(reply)
}

func (s *messageServiceImpl) HandleHelp(msg *tgbotapi.Message) {
	s.SendMessage(msg.Chat.ID, helpText)
}

func (s *messageServiceImpl) HandleHistory(msg *tgbotapi.Message) {
	text, markup, err := s.history.Page(context.Background(), msg.From.ID, 0)
	if err != nil {
		s.logger.Errorf("history render failed for %d: %v", msg.From.ID, err)
		s.SendErrorMessage(msg.Chat.ID, "Could not load your history. Please try again later.")
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		reply.ReplyMarkup = markup
	}
	s.bot.Send(reply)
}

func (s *messageServiceImpl) HandleFind(msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		s.SendMessage(msg.Chat.ID, "Usage: /find <title or artist>")
		return
	}
	text, err := s.search.Find(context.Background(), msg.From.ID, query)
	if err != nil {
		s.logger.Errorf("history search failed for %d: %v", msg.From.ID, err)
		s.SendErrorMessage(msg.Chat.ID, "Search failed. Please try again later.")
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	s.bot.Send(reply)
}

// HandleMedia queues the recognition task and acknowledges immediately; the
// worker side sends the actual result.
func (s *messageServiceImpl) HandleMedia(msg *tgbotapi.Message) {
	task, ok := mediaTask(msg)
	if !ok {
		s.SendMessage(msg.Chat.ID, RecognizePrompt)
		return
	}
	if err := s.dispatcher.Dispatch(context.Background(), task); err != nil {
		s.logger.Errorf("task dispatch failed for user %d: %v", task.UserID, err)
		s.SendErrorMessage(msg.Chat.ID, "The bot is overloaded right now. Please try again in a minute.")
		return
	}
	s.SendMessage(msg.Chat.ID, "🎧 Got it! Identifying your clip...")
}

// mediaTask extracts the file reference from whichever media kind the message
// carries. The reported duration stays 0 when the transport does not know it.
func mediaTask(msg *tgbotapi.Message) (queue.Task, bool) {
	task := queue.Task{
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
	}
	switch {
	case msg.Audio != nil:
		task.FileID = msg.Audio.FileID
		task.FileUniqueID = msg.Audio.FileUniqueID
		task.ContentType = "audio"
		task.ReportedDuration = msg.Audio.Duration
	case msg.Voice != nil:
		task.FileID = msg.Voice.FileID
		task.FileUniqueID = msg.Voice.FileUniqueID
		task.ContentType = "voice"
		task.ReportedDuration = msg.Voice.Duration
	case msg.Video != nil:
		task.FileID = msg.Video.FileID
		task.FileUniqueID = msg.Video.FileUniqueID
		task.ContentType = "video"
		task.ReportedDuration = msg.Video.Duration
	case msg.VideoNote != nil:
		task.FileID = msg.VideoNote.FileID
		task.FileUniqueID = msg.VideoNote.FileUniqueID
		task.ContentType = "video_note"
		task.ReportedDuration = msg.VideoNote.Duration
	default:
		return queue.Task{}, false
	}
	return task, true
}

func (s *messageServiceImpl) SendMessage(chatID int64, text string) {
	s.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (s *messageServiceImpl) SendErrorMessage(chatID int64, text string) {
	s.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (s *messageServiceImpl) SendUnknownCommand(chatID int64) {
	s.SendErrorMessage(chatID, "Unknown command. Use /help to see what I can do.")
}
