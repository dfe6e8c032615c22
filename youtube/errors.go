package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for download operations.
var (
	// ErrVideoNotFound indicates the video does not exist or is unavailable.
	ErrVideoNotFound = errors.New("video not found")
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = errors.New("rate limited")
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = errors.New("network timeout")
	// ErrInvalidURL indicates the provided URL is not a YouTube watch URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrYtdlpNotInstalled indicates yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("yt-dlp not installed")
)

// DownloadError wraps errors during video download.
type DownloadError struct {
	// URL is the video URL that failed.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
