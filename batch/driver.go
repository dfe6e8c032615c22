package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ytscribe/report"
	"ytscribe/storage"
	"ytscribe/transcribe"
)

// ErrNoAudioFiles is returned when the source directory holds no
// processable audio files.
var ErrNoAudioFiles = errors.New("no audio files found")

// audioExtensions are the file extensions picked up for processing,
// matched case-insensitively.
var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
}

// runIDFormat names the per-run key segment audio files are staged under.
const runIDFormat = "20060102_150405"

// Uploader stages audio files in remote storage and removes them again.
type Uploader interface {
	Upload(ctx context.Context, localPath, key string) (*storage.Object, error)
	Delete(ctx context.Context, publicURL string) error
}

// Transcriber runs one transcription job to completion.
type Transcriber interface {
	Run(ctx context.Context, jobName, mediaURI, languageCode string) (*transcribe.Result, error)
}

// Driver processes every audio file in a directory. Files are handled
// strictly in sequence; one file's failure never stops the batch.
type Driver struct {
	// Store uploads and deletes staged audio objects.
	Store Uploader
	// Transcriber drives jobs to completion.
	Transcriber Transcriber

	// UserID and Feature scope the remote object keys.
	UserID  string
	Feature string
	// LanguageCode is the transcription language for every job.
	LanguageCode string
	// CleanupRemote deletes each staged object after its job finishes,
	// whether or not the job succeeded.
	CleanupRemote bool

	// Clock returns the current time. Injectable for tests; defaults to
	// time.Now.
	Clock func() time.Time
	// Logger receives progress events. Defaults to slog.Default().
	Logger *slog.Logger
}

// ProcessDirectory transcribes every audio file in dir and returns one
// report row per file, in processing order. Files are renamed in place
// to their sanitized names before upload. The returned error is non-nil
// only when the batch itself could not run or was canceled between
// files; per-file failures are recorded in their rows. On cancellation
// the rows processed so far are returned alongside the error.
func (d *Driver) ProcessDirectory(ctx context.Context, dir string) ([]report.Row, error) {
	files, err := d.collectAudioFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAudioFiles, dir)
	}

	started := d.now()
	runID := started.Format(runIDFormat)
	log := d.logger().With("dir", dir, "run_id", runID)
	log.Info("processing batch", "files", len(files))

	rows := make([]report.Row, 0, len(files))
	for i, name := range files {
		// Cancellation stops the batch between files; it is not a
		// per-file failure.
		if err := ctx.Err(); err != nil {
			log.Info("batch canceled", "processed", len(rows), "remaining", len(files)-len(rows))
			return rows, err
		}
		rows = append(rows, d.processFile(ctx, log, dir, name, started, runID, i+1))
	}

	completed, failed := report.Summary(rows)
	log.Info("batch finished", "completed", completed, "failed", failed)
	return rows, nil
}

// processFile uploads one audio file, runs its transcription job and
// builds the report row. Every failure path produces a Failed row.
func (d *Driver) processFile(ctx context.Context, log *slog.Logger, dir, name string, started time.Time, runID string, seq int) report.Row {
	localPath := filepath.Join(dir, name)
	row := report.Row{
		Filename:     name,
		FilePath:     localPath,
		Status:       report.StatusFailed,
		LanguageCode: d.LanguageCode,
	}
	fail := func(err error) report.Row {
		log.Error("file failed", "file", name, "error", err)
		row.Transcription = "Error: " + err.Error()
		row.CompletionTime = d.now().Format(report.TimeFormat)
		return row
	}

	key := storage.ObjectKey{
		UserID:    d.UserID,
		Feature:   d.Feature,
		ProjectID: runID,
		Name:      name,
	}
	obj, err := d.Store.Upload(ctx, localPath, key.String())
	if err != nil {
		return fail(fmt.Errorf("upload: %w", err))
	}
	log.Info("uploaded", "file", name, "key", obj.Key)
	if d.CleanupRemote {
		defer func() {
			if err := d.Store.Delete(ctx, obj.PublicURL); err != nil {
				log.Warn("cleanup failed", "key", obj.Key, "error", err)
			}
		}()
	}

	jobName := transcribe.JobName(started, seq, name)
	result, err := d.Transcriber.Run(ctx, jobName, obj.URI, d.LanguageCode)
	if err != nil {
		return fail(err)
	}

	row.Status = report.StatusCompleted
	row.Transcription = result.Text
	row.CompletionTime = d.now().Format(report.TimeFormat)
	log.Info("transcribed", "file", name, "job", jobName, "checks", result.Checks)
	return row
}

// collectAudioFiles lists the audio files in dir, renaming each to its
// sanitized name. Returned names are sorted by the directory listing
// order of os.ReadDir.
func (d *Driver) collectAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read audio directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !audioExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if clean := SanitizeFilename(name); clean != name {
			if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, clean)); err != nil {
				d.logger().Warn("rename failed, keeping original name", "file", name, "error", err)
			} else {
				name = clean
			}
		}
		files = append(files, name)
	}
	return files, nil
}

func (d *Driver) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
