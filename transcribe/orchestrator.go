package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrPollTimeout indicates polling gave up before the job reached a
// terminal state. It is distinct from a job failure: the job may still
// complete on the provider's side.
var ErrPollTimeout = errors.New("transcription job polling timed out")

// JobError is a transcription job that reached FAILED, carrying the
// provider's failure reason.
type JobError struct {
	// Name is the failed job's name.
	Name string
	// Reason is the provider's failure explanation.
	Reason string
}

func (e *JobError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unknown error"
	}
	return fmt.Sprintf("transcription job %s failed: %s", e.Name, reason)
}

// Result holds the outcome of a completed transcription job.
type Result struct {
	// Text is the transcript.
	Text string
	// ResultURI is where the provider stored the transcript document.
	ResultURI string
	// Checks is how many status checks were made before completion.
	Checks int
}

const (
	defaultPollInterval = 10 * time.Second
	defaultMaxAttempts  = 60
)

// Orchestrator drives a transcription job from submission to transcript.
// Polling uses a fixed interval and a bounded attempt count; there is no
// backoff and no automatic retry of failed or timed-out jobs. Once a job
// is submitted the only way to stop waiting is the attempt bound or
// context cancellation between checks.
type Orchestrator struct {
	// API submits and inspects jobs.
	API API
	// Fetcher retrieves the transcript document on completion.
	Fetcher ResultFetcher
	// PollInterval is the fixed delay between status checks. Defaults to 10s.
	PollInterval time.Duration
	// MaxAttempts bounds the number of status checks. Defaults to 60.
	MaxAttempts int
	// Sleep waits between status checks. Injectable for tests; defaults
	// to a context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger receives progress events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Run submits a job for the media at mediaURI and blocks until the job
// reaches a terminal state or the attempt bound elapses.
func (o *Orchestrator) Run(ctx context.Context, jobName, mediaURI, languageCode string) (*Result, error) {
	log := o.logger().With(slog.String("job", jobName))

	if err := o.API.StartJob(ctx, jobName, mediaURI, languageCode); err != nil {
		return nil, err
	}
	log.Info("transcription job started", slog.String("media", mediaURI))

	interval := o.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := o.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	sleep := o.Sleep
	if sleep == nil {
		sleep = waitFor
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		job, err := o.API.GetJob(ctx, jobName)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case StatusCompleted:
			log.Info("transcription job completed", slog.Int("checks", attempt))
			text, err := o.Fetcher.Fetch(ctx, job.TranscriptURI)
			if err != nil {
				return nil, err
			}
			return &Result{Text: text, ResultURI: job.TranscriptURI, Checks: attempt}, nil

		case StatusFailed:
			return nil, &JobError{Name: jobName, Reason: job.FailureReason}
		}

		log.Debug("waiting for transcription job",
			slog.String("status", string(job.Status)),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts))

		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("job %s after %d attempts: %w", jobName, maxAttempts, ErrPollTimeout)
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// waitFor blocks for d or until ctx is canceled.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
