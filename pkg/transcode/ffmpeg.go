// Package transcode converts generated audio with an external ffmpeg binary.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
)

// ErrNotFound is returned when the ffmpeg binary cannot be located.
var ErrNotFound = errors.New("transcode: ffmpeg not found")

// DefaultTimeout bounds one conversion when ctx has no deadline.
const DefaultTimeout = 60 * time.Second

// FFmpeg transcodes through stdin and stdout of an ffmpeg process.
type FFmpeg struct {
	// Binary defaults to "ffmpeg" looked up in PATH.
	Binary string
	// Codecs maps an output format to its ffmpeg encoder. OGG defaults to
	// libvorbis.
	Codecs  map[pipeline.Format]string
	Timeout time.Duration
}

var defaultCodecs = map[pipeline.Format]string{
	pipeline.OGG: "libvorbis",
	pipeline.WAV: "pcm_s16le",
}

// containers maps a format to ffmpeg's muxer name.
var containers = map[pipeline.Format]string{
	pipeline.OGG: "ogg",
	pipeline.WAV: "wav",
}

func (f *FFmpeg) binary() string {
	if f.Binary == "" {
		return "ffmpeg"
	}
	return f.Binary
}

func (f *FFmpeg) codec(to pipeline.Format) string {
	if c, ok := f.Codecs[to]; ok {
		return c
	}
	return defaultCodecs[to]
}

// Args returns the ffmpeg arguments of one conversion.
func (f *FFmpeg) Args(from, to pipeline.Format) ([]string, error) {
	in, ok := containers[from]
	if !ok {
		return nil, fmt.Errorf("transcode: unsupported input format %q", from)
	}
	out, ok := containers[to]
	if !ok {
		return nil, fmt.Errorf("transcode: unsupported output format %q", to)
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", in,
		"-i", "pipe:0",
		"-c:a", f.codec(to),
		"-f", out,
		"-y",
		"pipe:1",
	}, nil
}

// Transcode implements pipeline.Transcoder.
func (f *FFmpeg) Transcode(ctx context.Context, in []byte, from, to pipeline.Format) ([]byte, error) {
	args, err := f.Args(from, to)
	if err != nil {
		return nil, err
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		timeout := f.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.binary(), args...)
	cmd.Stdin = bytes.NewReader(in)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transcode: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("transcode: ffmpeg: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("transcode: ffmpeg: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, errors.New("transcode: ffmpeg produced no output")
	}
	return stdout.Bytes(), nil
}

// Check verifies that the binary runs and returns the first line of
// "ffmpeg -version".
func (f *FFmpeg) Check(ctx context.Context) (string, error) {
	path, err := exec.LookPath(f.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("transcode: %s -version: %w", path, err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(first), nil
}

var _ pipeline.Transcoder = (*FFmpeg)(nil)
