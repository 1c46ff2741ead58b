package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehound/tunehound/pkg/acrcloud"
	"github.com/tunehound/tunehound/pkg/audio"
	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/models"
	"github.com/tunehound/tunehound/pkg/queue"
)

type fakeConverter struct {
	dir    string
	err    error
	calls  int
	output string
}

func (f *fakeConverter) SaveAndConvert(ctx context.Context, transport audio.Downloader, fileID, localName string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.output = filepath.Join(f.dir, localName+".mp3")
	if err := os.WriteFile(f.output, []byte("mp3"), 0o644); err != nil {
		return "", err
	}
	return f.output, nil
}

type fakeProber struct {
	seconds float64
	err     error
}

func (f *fakeProber) Length(ctx context.Context, path string) (float64, error) {
	return f.seconds, f.err
}

type fakeRecognizer struct {
	resp  *acrcloud.Response
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, filePath string) (*acrcloud.Response, error) {
	f.calls++
	return f.resp, f.err
}

type fakeSongStore struct {
	created []*models.Song
	err     error
}

func (f *fakeSongStore) FindByExternalID(ctx context.Context, externalID string) (*models.Song, error) {
	return nil, nil
}

func (f *fakeSongStore) CreateSong(ctx context.Context, s *models.Song) (*models.Song, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, s)
	return s, nil
}

type historyEntry struct {
	userID int64
	songID string
}

type fakeHistoryStore struct {
	entries []historyEntry
}

func (f *fakeHistoryStore) CreateHistory(ctx context.Context, userID int64, songExternalID string) (*models.History, error) {
	f.entries = append(f.entries, historyEntry{userID, songExternalID})
	return &models.History{UserID: userID, SongExternalID: songExternalID}, nil
}

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) GetValue(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCache) SetValue(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

type nopDownloader struct{}

func (nopDownloader) Download(ctx context.Context, fileID, destPath string) error { return nil }

func responseFromJSON(t *testing.T, raw string) *acrcloud.Response {
	t.Helper()
	var resp acrcloud.Response
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func matchedResponse(t *testing.T) *acrcloud.Response {
	return responseFromJSON(t, `{
		"status": {"code": 0, "msg": "Success"},
		"metadata": {"music": [{
			"title": "Test Song",
			"artists": [{"name": "Test Artist"}],
			"album": {"name": "Test Album"},
			"release_date": "2024-01-01",
			"genres": [{"name": "Pop"}],
			"acrid": "test_acrid_123",
			"external_metadata": {"spotify": {"track": {"id": "spotify_id_123"}}}
		}]}
	}`)
}

type pipeline struct {
	svc        *RecognitionService
	converter  *fakeConverter
	prober     *fakeProber
	recognizer *fakeRecognizer
	songs      *fakeSongStore
	history    *fakeHistoryStore
	cache      *fakeCache
	sender     *fakeSender
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	logger, err := logging.New(context.Background(), "", "test")
	require.NoError(t, err)

	p := &pipeline{
		converter:  &fakeConverter{dir: t.TempDir()},
		prober:     &fakeProber{seconds: 15},
		recognizer: &fakeRecognizer{resp: matchedResponse(t)},
		songs:      &fakeSongStore{},
		history:    &fakeHistoryStore{},
		cache:      &fakeCache{values: map[string]string{}},
		sender:     &fakeSender{},
	}
	p.svc = NewRecognitionService(RecognitionDeps{
		Converter:  p.converter,
		Prober:     p.prober,
		Recognizer: p.recognizer,
		Songs:      p.songs,
		History:    p.history,
		Transport:  nopDownloader{},
		Cache:      p.cache,
		Sender:     p.sender,
		Logger:     logger,
	})
	return p
}

func sampleTask() queue.Task {
	return queue.Task{
		UserID:       42,
		ChatID:       100,
		FileID:       "file-1",
		FileUniqueID: "uid-1",
		ContentType:  "voice",
	}
}

func TestRecognizeHappyPath(t *testing.T) {
	p := newPipeline(t)

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.True(t, strings.HasPrefix(reply, "🎵 *Title*: Test Song\n"))
	assert.Contains(t, reply, "🎤 *Artists*: Test Artist\n")
	assert.Contains(t, reply, "💿 *Album*: Test Album\n")
	assert.Contains(t, reply, "[Spotify](https://open.spotify.com/track/spotify_id_123)")

	require.Len(t, p.songs.created, 1)
	assert.Equal(t, "test_acrid_123", p.songs.created[0].ExternalID)
	require.Len(t, p.history.entries, 1)
	assert.Equal(t, historyEntry{42, "test_acrid_123"}, p.history.entries[0])

	// The reply is cached for identical re-sends.
	assert.Equal(t, reply, p.cache.values["recognized:uid-1"])

	// The converted artifact is removed once the pipeline is done with it.
	_, statErr := os.Stat(p.converter.output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRecognizeCachedReplySkipsPipeline(t *testing.T) {
	p := newPipeline(t)
	p.cache.values["recognized:uid-1"] = "cached reply"

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "cached reply", reply)
	assert.Zero(t, p.converter.calls)
	assert.Zero(t, p.recognizer.calls)
}

func TestRecognizeReportedDurationPreCheck(t *testing.T) {
	p := newPipeline(t)
	task := sampleTask()
	task.ReportedDuration = 5

	reply := p.svc.Recognize(context.Background(), task)

	assert.Equal(t, "❌ The clip is only 5.0 seconds long. Please send at least 10 seconds of audio.", reply)
	assert.Zero(t, p.converter.calls, "too-short clips must be rejected before download")
}

func TestRecognizeProbedDurationBoundary(t *testing.T) {
	// The probe is authoritative; exactly ten seconds passes, just under fails.
	p := newPipeline(t)
	p.prober.seconds = 9.9

	reply := p.svc.Recognize(context.Background(), sampleTask())
	assert.Equal(t, "❌ The clip is only 9.9 seconds long. Please send at least 10 seconds of audio.", reply)
	assert.Zero(t, p.recognizer.calls)

	p = newPipeline(t)
	p.prober.seconds = 10.0

	reply = p.svc.Recognize(context.Background(), sampleTask())
	assert.True(t, strings.HasPrefix(reply, "🎵 *Title*: Test Song"))
}

func TestRecognizeConversionFailure(t *testing.T) {
	p := newPipeline(t)
	p.converter.err = &audio.ConversionError{Stderr: "bad input", Err: errors.New("exit status 1")}

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "❌ An error occurred while processing the audio. Please try again later.", reply)
	assert.Zero(t, p.recognizer.calls)
}

func TestRecognizeProbeFailure(t *testing.T) {
	p := newPipeline(t)
	p.prober.err = audio.ErrUnreadableAudio

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "❌ An error occurred while processing the audio. Please try again later.", reply)
}

func TestRecognizeServiceError(t *testing.T) {
	p := newPipeline(t)
	p.recognizer.resp = nil
	p.recognizer.err = acrcloud.ErrService

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "❌ Error while recognizing audio.", reply)
	assert.Empty(t, p.songs.created)
}

func TestRecognizeNonZeroStatus(t *testing.T) {
	p := newPipeline(t)
	p.recognizer.resp = responseFromJSON(t, `{"status": {"code": 1001, "msg": "No result"}}`)

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "❌ Song could not be recognized. Please try again.", reply)
	assert.Empty(t, p.songs.created)
	assert.Empty(t, p.history.entries)
}

func TestRecognizeNoCandidates(t *testing.T) {
	p := newPipeline(t)
	p.recognizer.resp = responseFromJSON(t, `{"status": {"code": 0}, "metadata": {"music": []}}`)

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Equal(t, "❌ No matching song found.", reply)
	assert.Empty(t, p.history.entries)
}

func TestRecognizeHummingFallback(t *testing.T) {
	p := newPipeline(t)
	p.recognizer.resp = responseFromJSON(t, `{
		"status": {"code": 0},
		"metadata": {"music": [], "humming": [{"title": "Hummed Song", "acrid": "humming_1"}]}
	}`)

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Contains(t, reply, "🎵 *Title*: Hummed Song\n")
	require.Len(t, p.history.entries, 1)
	assert.Equal(t, "humming_1", p.history.entries[0].songID)
}

func TestRecognizeSongSaveFailureStillReplies(t *testing.T) {
	p := newPipeline(t)
	p.songs.err = errors.New("db down")

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.True(t, strings.HasPrefix(reply, "🎵 *Title*: Test Song"))
	assert.Empty(t, p.history.entries, "no history row may reference an unsaved song")
}

func TestRecognizeCandidateWithoutIDNotPersisted(t *testing.T) {
	p := newPipeline(t)
	p.recognizer.resp = responseFromJSON(t, `{
		"status": {"code": 0},
		"metadata": {"music": [{"title": "Anonymous Song"}]}
	}`)

	reply := p.svc.Recognize(context.Background(), sampleTask())

	assert.Contains(t, reply, "🎵 *Title*: Anonymous Song\n")
	assert.Empty(t, p.songs.created)
	assert.Empty(t, p.history.entries)
}

func TestHandleTaskRepliesToChat(t *testing.T) {
	p := newPipeline(t)

	p.svc.HandleTask(context.Background(), sampleTask())

	require.Len(t, p.sender.sent, 1)
	msg, ok := p.sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.True(t, strings.HasPrefix(msg.Text, "🎵 *Title*: Test Song"))
}
