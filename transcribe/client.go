package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/aws/aws-sdk-go/service/transcribeservice/transcribeserviceiface"
)

// Job is a snapshot of a transcription job's provider state.
type Job struct {
	// Name is the job name it was submitted under.
	Name string
	// Status is the current lifecycle state.
	Status JobStatus
	// TranscriptURI locates the result document once Status is COMPLETED.
	TranscriptURI string
	// FailureReason is the provider's explanation once Status is FAILED.
	FailureReason string
}

// API is the subset of the transcription service the orchestrator needs.
// Tests substitute fakes for it.
type API interface {
	// StartJob submits a new transcription job for the media at mediaURI.
	StartJob(ctx context.Context, jobName, mediaURI, languageCode string) error
	// GetJob returns the current state of a submitted job.
	GetJob(ctx context.Context, jobName string) (*Job, error)
}

// Client implements API against AWS Transcribe. Construct it with
// NewClient and pass it in; there is no package-level client state.
type Client struct {
	api transcribeserviceiface.TranscribeServiceAPI
}

// NewClient creates a transcription client using the given AWS session.
func NewClient(sess *session.Session) *Client {
	return &Client{api: transcribeservice.New(sess)}
}

// NewClientWithAPI creates a client around an explicit service API,
// used by tests to inject fakes.
func NewClientWithAPI(api transcribeserviceiface.TranscribeServiceAPI) *Client {
	return &Client{api: api}
}

// StartJob submits a transcription job. The media format is derived from
// the URI's extension.
func (c *Client) StartJob(ctx context.Context, jobName, mediaURI, languageCode string) error {
	_, err := c.api.StartTranscriptionJobWithContext(ctx, &transcribeservice.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		LanguageCode:         aws.String(languageCode),
		MediaFormat:          aws.String(MediaFormat(mediaURI)),
		Media: &transcribeservice.Media{
			MediaFileUri: aws.String(mediaURI),
		},
	})
	if err != nil {
		return fmt.Errorf("start transcription job %s: %w", jobName, err)
	}
	return nil
}

// GetJob returns the provider's view of a job.
func (c *Client) GetJob(ctx context.Context, jobName string) (*Job, error) {
	out, err := c.api.GetTranscriptionJobWithContext(ctx, &transcribeservice.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return nil, fmt.Errorf("get transcription job %s: %w", jobName, err)
	}

	tj := out.TranscriptionJob
	job := &Job{
		Name:          jobName,
		Status:        mapStatus(aws.StringValue(tj.TranscriptionJobStatus)),
		FailureReason: aws.StringValue(tj.FailureReason),
	}
	if tj.Transcript != nil {
		job.TranscriptURI = aws.StringValue(tj.Transcript.TranscriptFileUri)
	}
	return job, nil
}

// MediaFormat derives the provider media format from a URI: the
// lowercased text after the last dot.
func MediaFormat(mediaURI string) string {
	idx := strings.LastIndex(mediaURI, ".")
	if idx < 0 || idx == len(mediaURI)-1 {
		return ""
	}
	return strings.ToLower(mediaURI[idx+1:])
}

// mapStatus converts provider status strings into JobStatus values.
func mapStatus(s string) JobStatus {
	switch s {
	case transcribeservice.TranscriptionJobStatusQueued:
		return StatusSubmitted
	case transcribeservice.TranscriptionJobStatusInProgress:
		return StatusRunning
	case transcribeservice.TranscriptionJobStatusCompleted:
		return StatusCompleted
	case transcribeservice.TranscriptionJobStatusFailed:
		return StatusFailed
	default:
		return StatusRunning
	}
}
