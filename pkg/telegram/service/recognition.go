package service

import (
	"context"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/audio"
	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/queue"
	"github.com/tunehound/tunehound/pkg/song"
)

// MinDuration is the shortest clip the pipeline accepts, in seconds. The
// boundary is inclusive: exactly 10.0 s passes.
const MinDuration = 10.0

const replyCacheTTL = 6 * time.Hour

// Fixed user-facing replies; every pipeline failure maps onto exactly one of
// these, never onto internal detail.
const (
	msgTooShort        = "❌ The clip is only %.1f seconds long. Please send at least 10 seconds of audio."
	msgProcessingError = "❌ An error occurred while processing the audio. Please try again later."
	msgRecognizeError  = "❌ Error while recognizing audio."
	msgNotRecognized   = "❌ Song could not be recognized. Please try again."
	msgNoMatch         = "❌ No matching song found."
)

// RecognitionService runs the whole pipeline for one media message: download,
// convert, gate on duration, recognize, normalize, persist, format.
type RecognitionService struct {
	converter  MediaConverter
	prober     DurationProber
	recognizer Recognizer
	songs      SongStore
	history    HistoryStore
	transport  audio.Downloader
	cache      ReplyCache
	sender     Sender
	logger     *logging.Logger
}

// RecognitionDeps lists the collaborators; Cache may be nil.
type RecognitionDeps struct {
	Converter  MediaConverter
	Prober     DurationProber
	Recognizer Recognizer
	Songs      SongStore
	History    HistoryStore
	Transport  audio.Downloader
	Cache      ReplyCache
	Sender     Sender
	Logger     *logging.Logger
}

func NewRecognitionService(d RecognitionDeps) *RecognitionService {
	return &RecognitionService{
		converter:  d.Converter,
		prober:     d.Prober,
		recognizer: d.Recognizer,
		songs:      d.Songs,
		history:    d.History,
		transport:  d.Transport,
		cache:      d.Cache,
		sender:     d.Sender,
		logger:     d.Logger,
	}
}

// HandleTask is the queue handler: it runs the pipeline and replies to the
// originating chat.
func (s *RecognitionService) HandleTask(ctx context.Context, task queue.Task) {
	reply := s.Recognize(ctx, task)
	msg := tgbotapi.NewMessage(task.ChatID, reply)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.sender.Send(msg); err != nil {
		s.logger.Errorf("reply send failed for chat %d: %v", task.ChatID, err)
	}
}

// Recognize executes the pipeline and always returns a user-facing reply.
// Stage errors are logged and mapped onto the fixed strings above; no stage
// is retried.
func (s *RecognitionService) Recognize(ctx context.Context, task queue.Task) string {
	if cached, ok := s.cachedReply(ctx, task.FileUniqueID); ok {
		return cached
	}

	// The transport-reported duration is a fast pre-check only. It can be
	// zero or wrong, so the converted artifact is re-probed below.
	if task.ReportedDuration > 0 && float64(task.ReportedDuration) < MinDuration {
		return fmt.Sprintf(msgTooShort, float64(task.ReportedDuration))
	}

	localName := audio.TempName(task.UserID, task.FileUniqueID, task.ContentType)
	mp3Path, err := s.converter.SaveAndConvert(ctx, s.transport, task.FileID, localName)
	if err != nil {
		s.logger.Errorf("conversion failed for user %d: %v", task.UserID, err)
		return msgProcessingError
	}
	defer os.Remove(mp3Path)

	seconds, err := s.prober.Length(ctx, mp3Path)
	if err != nil {
		s.logger.Errorf("duration probe failed for %s: %v", mp3Path, err)
		return msgProcessingError
	}
	if seconds < MinDuration {
		return fmt.Sprintf(msgTooShort, seconds)
	}

	resp, err := s.recognizer.Recognize(ctx, mp3Path)
	if err != nil {
		s.logger.Errorf("recognition failed for user %d: %v", task.UserID, err)
		return msgRecognizeError
	}
	if resp.Status.Code != 0 {
		// The service's own message is for operators, not users.
		s.logger.Warningf("recognition service status %d: %s", resp.Status.Code, resp.Status.Msg)
		return msgNotRecognized
	}
	candidate, ok := resp.BestMatch()
	if !ok {
		return msgNoMatch
	}

	canonical := song.Normalize(candidate)
	s.persist(ctx, task.UserID, canonical)

	reply := song.FormatTelegram(canonical)
	s.cacheReply(ctx, task.FileUniqueID, reply)
	return reply
}

// persist is best effort: a storage failure never costs the user their reply.
func (s *RecognitionService) persist(ctx context.Context, userID int64, canonical song.CanonicalSong) {
	if canonical.ExternalID == "" {
		s.logger.Warningf("candidate without acrid for user %d, not persisting", userID)
		return
	}
	if _, err := s.songs.CreateSong(ctx, song.ToModel(canonical)); err != nil {
		s.logger.Errorf("song save failed: %v", err)
		return
	}
	if _, err := s.history.CreateHistory(ctx, userID, canonical.ExternalID); err != nil {
		s.logger.Errorf("history save failed: %v", err)
	}
}

func (s *RecognitionService) cachedReply(ctx context.Context, fileUniqueID string) (string, bool) {
	if s.cache == nil || fileUniqueID == "" {
		return "", false
	}
	reply, err := s.cache.GetValue(ctx, replyCacheKey(fileUniqueID))
	if err != nil || reply == "" {
		return "", false
	}
	return reply, true
}

func (s *RecognitionService) cacheReply(ctx context.Context, fileUniqueID, reply string) {
	if s.cache == nil || fileUniqueID == "" {
		return
	}
	if err := s.cache.SetValue(ctx, replyCacheKey(fileUniqueID), reply, replyCacheTTL); err != nil {
		s.logger.Warningf("reply cache write failed: %v", err)
	}
}

func replyCacheKey(fileUniqueID string) string {
	return "recognized:" + fileUniqueID
}
