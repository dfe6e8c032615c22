// Package youtube downloads videos using yt-dlp as a subprocess.
package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ytscribe/internal/retry"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
)

// Downloader handles video downloads using yt-dlp.
type Downloader struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration

	// ExtraArgs are additional arguments to pass to yt-dlp.
	ExtraArgs []string

	// RetryConfig holds retry behavior configuration.
	RetryConfig *retry.Config
}

// NewDownloader creates a new yt-dlp based downloader with default settings.
func NewDownloader() *Downloader {
	cfg := retry.DefaultConfig()
	return &Downloader{
		Path:        defaultYtdlpPath,
		Timeout:     defaultYtdlpTimeout,
		RetryConfig: &cfg,
	}
}

// DownloadResult contains information about a completed download.
type DownloadResult struct {
	// VideoPath is the path to the downloaded video file.
	VideoPath string
	// VideoID is the YouTube video ID.
	VideoID string
}

// Download fetches the video at videoURL into outputDir as a merged mp4.
// Existing files are not overwritten. Transient failures are retried with
// exponential backoff; permanent failures (unavailable video) are not.
func (d *Downloader) Download(ctx context.Context, videoURL, outputDir string) (*DownloadResult, error) {
	if err := d.CheckInstalled(ctx); err != nil {
		return nil, err
	}

	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, &DownloadError{URL: videoURL, Err: err}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	cfg := d.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	result := &DownloadResult{VideoID: videoID}

	err = retry.Do(ctx, *cfg, downloadErrorClassifier, func(ctx context.Context) error {
		args := []string{
			"-o", filepath.Join(outputDir, "%(title)s.%(ext)s"),
			"-f", "bestvideo+bestaudio/best",
			"--merge-output-format", "mp4",
			"--no-overwrites",
			"--no-warnings",
			"--print", "after_move:filepath",
			"--no-simulate",
		}
		args = append(args, d.ExtraArgs...)
		args = append(args, videoURL)

		timeout := d.Timeout
		if timeout == 0 {
			timeout = defaultYtdlpTimeout
		}
		cmdCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, d.path(), args...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if cmdCtx.Err() == context.DeadlineExceeded {
				return &DownloadError{URL: videoURL, Err: ErrNetworkTimeout}
			}
			if cmdCtx.Err() == context.Canceled {
				return &DownloadError{URL: videoURL, Err: context.Canceled}
			}
			return &DownloadError{URL: videoURL, Err: classifyStderr(stderr.String(), err)}
		}

		path := finalPath(stdout.String())
		if path == "" {
			return &DownloadError{URL: videoURL,
				Err: fmt.Errorf("yt-dlp produced no output path")}
		}
		result.VideoPath = path
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckInstalled verifies that yt-dlp is available.
func (d *Downloader) CheckInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, d.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (d *Downloader) path() string {
	if d.Path != "" {
		return d.Path
	}
	return defaultYtdlpPath
}

// ExtractVideoID pulls the video ID from a YouTube watch URL.
func ExtractVideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", ErrInvalidURL
	}
	id := u.Query().Get("v")
	if id == "" {
		return "", ErrInvalidURL
	}
	return id, nil
}

// classifyStderr maps common yt-dlp error output to sentinel errors.
func classifyStderr(stderr string, runErr error) error {
	msg := strings.ToLower(stderr)
	switch {
	case strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "does not exist"):
		return ErrVideoNotFound
	case strings.Contains(msg, "rate"), strings.Contains(msg, "429"):
		return ErrRateLimited
	default:
		return fmt.Errorf("yt-dlp failed: %w: %s", runErr, strings.TrimSpace(stderr))
	}
}

// finalPath extracts the downloaded file path from yt-dlp's --print output.
// The path is the last non-empty line that looks like a filesystem path.
func finalPath(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && (strings.HasPrefix(line, "/") || strings.Contains(line, string(os.PathSeparator))) {
			return line
		}
	}
	return ""
}

// downloadErrorClassifier determines if a download error is retryable.
func downloadErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrInvalidURL) {
		return false
	}

	var dlErr *DownloadError
	if errors.As(err, &dlErr) {
		// Retryable: rate limit, timeout, network errors
		return !errors.Is(dlErr.Err, context.Canceled)
	}

	return retry.IsRetryable(err)
}
