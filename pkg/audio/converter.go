// pkg/audio/converter.go
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/tunehound/tunehound/pkg/logging"
)

// Output parameters the recognition service expects: a short, low-bitrate
// mono sample is enough for fingerprinting.
const (
	maxClipSeconds = 15
	sampleRate     = 8000
	channels       = 1
	bitrate        = "64k"
)

// ConversionError carries ffmpeg's diagnostic output.
type ConversionError struct {
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("audio conversion failed: %v: %s", e.Err, e.Stderr)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Downloader fetches a remote file reference into a local path.
type Downloader interface {
	Download(ctx context.Context, fileID, destPath string) error
}

// Converter produces the canonical mp3 artifact out of arbitrary input media
// by shelling out to ffmpeg. It owns the raw input's lifecycle; the converted
// output belongs to the caller.
type Converter struct {
	downloadsDir string
	logger       *logging.Logger
	run          func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewConverter(downloadsDir string, logger *logging.Logger) *Converter {
	return &Converter{
		downloadsDir: downloadsDir,
		logger:       logger,
		run:          runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Convert transcodes inputPath into a 15s / 8 kHz / mono / 64 kbps mp3 at
// outputPath. A non-zero exit or launch failure yields a ConversionError;
// partial output must not be treated as valid by the caller.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	stderr, err := c.run(ctx, "ffmpeg", ffmpegArgs(inputPath, outputPath)...)
	if err != nil {
		return "", &ConversionError{Stderr: string(stderr), Err: err}
	}
	return outputPath, nil
}

func ffmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-t", strconv.Itoa(maxClipSeconds),
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-b:a", bitrate,
		outputPath,
	}
}

// SaveAndConvert downloads the remote file into the downloads directory and
// converts it to mp3. The raw input is removed on every path, success or
// failure; the returned mp3 is the caller's to delete after use.
func (c *Converter) SaveAndConvert(ctx context.Context, transport Downloader, fileID, localName string) (string, error) {
	rawPath := filepath.Join(c.downloadsDir, localName)
	defer func() {
		if err := os.Remove(rawPath); err == nil {
			c.logger.Infof("temporary file removed: %s", rawPath)
		}
	}()

	if err := transport.Download(ctx, fileID, rawPath); err != nil {
		return "", fmt.Errorf("download %s: %w", fileID, err)
	}
	return c.Convert(ctx, rawPath, rawPath+".mp3")
}

// TempName builds a collision-free file name for one request: a random
// component plus the user and remote-file identifiers, so concurrent requests
// never share temp artifacts.
func TempName(userID int64, fileUniqueID, contentType string) string {
	return fmt.Sprintf("%s%d%s.%s", uuid.NewString(), userID, fileUniqueID, contentType)
}
