package ytscribe

import (
	"errors"

	"ytscribe/internal/retry"
	"ytscribe/media"
	"ytscribe/storage"
	"ytscribe/transcribe"
	"ytscribe/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytscribe.ErrVideoNotFound) {
//		fmt.Println("video not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var jobErr *ytscribe.JobError
//	if errors.As(err, &jobErr) {
//		fmt.Printf("job %s failed: %s\n", jobErr.Name, jobErr.Reason)
//	}

// Type aliases for convenient error handling.
type (
	// DownloadError wraps errors during video download.
	DownloadError = youtube.DownloadError
	// StorageError wraps errors during object storage operations and
	// carries a failure Kind.
	StorageError = storage.Error
	// JobError reports a transcription job the provider marked failed.
	JobError = transcribe.JobError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrVideoNotFound indicates the YouTube video does not exist.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrInvalidURL indicates the provided URL is invalid.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled

	// Media errors
	// ErrNoAudioStream indicates the video has no audio track.
	ErrNoAudioStream = media.ErrNoAudioStream
	// ErrFfmpegNotInstalled indicates the ffmpeg binary was not found.
	ErrFfmpegNotInstalled = media.ErrFfmpegNotInstalled

	// Transcription errors
	// ErrPollTimeout indicates a job did not finish within the poll bound.
	ErrPollTimeout = transcribe.ErrPollTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like ErrVideoNotFound.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrInvalidURL) {
		return false
	}
	return retry.IsRetryable(err)
}
