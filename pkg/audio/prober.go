// pkg/audio/prober.go
package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrUnreadableAudio marks files ffprobe could not open as audio.
var ErrUnreadableAudio = errors.New("audio: file cannot be read as audio")

// Prober measures media durations with ffprobe. The post-conversion probe is
// the authoritative duration check; transport-reported metadata is only a
// fast pre-check because it can be absent or zero.
type Prober struct {
	run func(ctx context.Context, path string) ([]byte, error)
}

func NewProber() *Prober {
	return &Prober{run: probeCommand}
}

func probeCommand(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	return cmd.Output()
}

// Length returns the duration of the file in seconds.
func (p *Prober) Length(ctx context.Context, path string) (float64, error) {
	out, err := p.run(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableAudio, err)
	}
	return parseDuration(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseDuration(out []byte) (float64, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableAudio, err)
	}
	if probed.Format.Duration == "" {
		return 0, fmt.Errorf("%w: no duration in probe output", ErrUnreadableAudio)
	}
	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad duration %q", ErrUnreadableAudio, probed.Format.Duration)
	}
	return seconds, nil
}
