// Package transcribe orchestrates asynchronous speech-to-text jobs:
// submit, poll until terminal, fetch and parse the transcript.
package transcribe

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a transcription job.
type JobStatus string

const (
	// StatusSubmitted means the job has been accepted but not started.
	StatusSubmitted JobStatus = "SUBMITTED"
	// StatusRunning means the provider is processing the job.
	StatusRunning JobStatus = "RUNNING"
	// StatusCompleted means a transcript is available.
	StatusCompleted JobStatus = "COMPLETED"
	// StatusFailed means the provider rejected or aborted the job.
	StatusFailed JobStatus = "FAILED"
	// StatusTimedOut means polling gave up before a terminal state.
	StatusTimedOut JobStatus = "TIMED_OUT"
)

// IsTerminal reports whether no further transitions can occur.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// maxJobNameLen is the provider's limit on job names.
const maxJobNameLen = 64

// jobTimestampFormat is the layout for the timestamp segment of job names.
const jobTimestampFormat = "20060102_150405"

// JobName builds a unique job name from a timestamp, a 1-based sequence
// index and the audio file's name, truncated to the provider's limit.
func JobName(ts time.Time, seq int, filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := fmt.Sprintf("transcribe_job_%s_%d_%s", ts.Format(jobTimestampFormat), seq, stem)
	if len(name) > maxJobNameLen {
		name = name[:maxJobNameLen]
	}
	return name
}
