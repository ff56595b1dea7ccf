// Package media reads technical metadata from uploaded files.
package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoDuration is returned when ffprobe reports no usable duration.
var ErrNoDuration = errors.New("media: duration unavailable")

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Prober reads video durations with the ffprobe CLI.
type Prober struct {
	Binary  string
	Run     CommandRunner
	Timeout time.Duration
}

// NewProber constructs a Prober that shells out to ffprobe.
func NewProber(binary string, timeout time.Duration) *Prober {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{Binary: binary, Run: defaultCommandRunner, Timeout: timeout}
}

// Duration returns the length of the media file at path in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	run := p.Run
	if run == nil {
		run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := run(execCtx, p.Binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseDuration(out)
}

func parseDuration(out []byte) (float64, error) {
	raw := strings.TrimSpace(string(out))
	if raw == "" || raw == "N/A" {
		return 0, ErrNoDuration
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", raw, err)
	}
	if d < 0 {
		return 0, ErrNoDuration
	}
	return d, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}
