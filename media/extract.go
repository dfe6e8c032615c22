// Package media demuxes the audio track of local video files using ffmpeg.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultFfmpegPath    = "ffmpeg"
	defaultFfmpegTimeout = 10 * time.Minute
)

// ErrNoAudioStream indicates the input video carries no audio track.
var ErrNoAudioStream = errors.New("no audio stream in video")

// ErrFfmpegNotInstalled indicates the ffmpeg binary was not found.
var ErrFfmpegNotInstalled = errors.New("ffmpeg not installed")

// Extractor converts video files to WAV audio via ffmpeg.
type Extractor struct {
	// FfmpegPath is the path to the ffmpeg executable. Defaults to "ffmpeg".
	FfmpegPath string
	// Timeout is the maximum time to wait for a conversion. Defaults to 10 minutes.
	Timeout time.Duration
}

// NewExtractor creates an extractor with default settings.
func NewExtractor() *Extractor {
	return &Extractor{
		FfmpegPath: defaultFfmpegPath,
		Timeout:    defaultFfmpegTimeout,
	}
}

// ExtractWAV demuxes the audio track of videoPath into audioPath as
// 16-bit PCM WAV. The output file is overwritten if present so re-runs
// are safe.
func (e *Extractor) ExtractWAV(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if err := os.MkdirAll(filepath.Dir(audioPath), 0755); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}

	timeout := e.Timeout
	if timeout == 0 {
		timeout = defaultFfmpegTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, e.path(), buildArgs(videoPath, audioPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrFfmpegNotInstalled
		}
		if cmdCtx.Err() != nil {
			return fmt.Errorf("extract audio from %s: %w", videoPath, cmdCtx.Err())
		}
		msg := stderr.String()
		if strings.Contains(msg, "does not contain any stream") ||
			strings.Contains(msg, "Output file does not contain any stream") ||
			strings.Contains(msg, "Stream map 'a' matches no streams") {
			return ErrNoAudioStream
		}
		return fmt.Errorf("extract audio from %s: %w: %s", videoPath, err, strings.TrimSpace(msg))
	}

	// ffmpeg can exit zero while producing nothing useful
	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("extract audio from %s: output missing or empty", videoPath)
	}

	return nil
}

// CheckInstalled verifies that ffmpeg is available.
func (e *Extractor) CheckInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, e.path(), "-version")
	if err := cmd.Run(); err != nil {
		return ErrFfmpegNotInstalled
	}
	return nil
}

func (e *Extractor) path() string {
	if e.FfmpegPath != "" {
		return e.FfmpegPath
	}
	return defaultFfmpegPath
}

// buildArgs builds the ffmpeg CLI args for PCM WAV demuxing.
func buildArgs(videoPath, audioPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-vn",
		"-map", "a",
		"-acodec", "pcm_s16le",
		audioPath,
	}
}

// WAVPath maps a video path into audioDir with a .wav extension.
func WAVPath(videoPath, audioDir string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(audioDir, stem+".wav")
}
