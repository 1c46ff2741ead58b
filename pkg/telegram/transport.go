package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FileTransport downloads Telegram files into local paths; it is the
// audio.Downloader the converter uses.
type FileTransport struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

func NewFileTransport(api *tgbotapi.BotAPI) *FileTransport {
	return &FileTransport{
		api:    api,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Download resolves the file ID through the Bot API and streams the file to
// destPath.
func (t *FileTransport) Download(ctx context.Context, fileID, destPath string) error {
	url, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("file download failed: http %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}
