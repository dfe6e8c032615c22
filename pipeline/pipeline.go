// Package pipeline runs the end-to-end flow from a spreadsheet of
// YouTube links to a transcription report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"ytscribe/config"
	"ytscribe/links"
	"ytscribe/media"
	"ytscribe/report"
	"ytscribe/youtube"
)

// ErrNoLinks is returned when the input spreadsheet yields no YouTube links.
var ErrNoLinks = errors.New("no youtube links found")

// defaultLinksPath is where extracted links are saved for inspection.
const defaultLinksPath = "youtube_links.json"

// VideoDownloader fetches one video into a directory.
type VideoDownloader interface {
	Download(ctx context.Context, videoURL, outputDir string) (*youtube.DownloadResult, error)
}

// AudioExtractor converts a video file to WAV audio.
type AudioExtractor interface {
	ExtractWAV(ctx context.Context, videoPath, audioPath string) error
}

// Batcher transcribes every audio file in a directory.
type Batcher interface {
	ProcessDirectory(ctx context.Context, dir string) ([]report.Row, error)
}

// Runner drives the full pipeline. Each stage consumes the previous
// stage's output on disk; one link's failure never stops the run.
type Runner struct {
	Config     *config.Config
	Downloader VideoDownloader
	Extractor  AudioExtractor
	Batch      Batcher
	// LinksPath is where the extracted link list is saved as JSON.
	// Defaults to youtube_links.json in the working directory.
	LinksPath string
	// Logger receives progress events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes one pipeline run.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string
	// Links are the YouTube URLs extracted from the spreadsheet.
	Links []string
	// Downloaded counts links that produced an audio file.
	Downloaded int
	// DownloadFailures counts links that failed to download or convert.
	DownloadFailures int
	// Rows are the per-file transcription outcomes.
	Rows []report.Row
	// ReportPath is where the report workbook was written.
	ReportPath string
}

// NewRunner builds a runner using cfg's tool paths and the given batch
// processor.
func NewRunner(cfg *config.Config, batch Batcher) *Runner {
	return &Runner{
		Config: cfg,
		Downloader: &youtube.Downloader{
			Path:        cfg.YtdlpPath,
			Timeout:     cfg.YtdlpTimeout,
			RetryConfig: cfg.RetryConfig(),
		},
		Extractor: &media.Extractor{
			FfmpegPath: cfg.FfmpegPath,
			Timeout:    cfg.FfmpegTimeout,
		},
		Batch: batch,
	}
}

// Run extracts links from the spreadsheet at inputPath, downloads and
// converts each video, transcribes the resulting audio files and writes
// the report workbook to reportPath.
func (r *Runner) Run(ctx context.Context, inputPath, reportPath string) (*Result, error) {
	result := &Result{
		RunID:      uuid.NewString(),
		ReportPath: reportPath,
	}
	log := r.logger().With("run_id", result.RunID)

	urls, err := links.Extract(inputPath)
	if err != nil {
		return nil, fmt.Errorf("extract links: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLinks, inputPath)
	}
	result.Links = urls
	log.Info("extracted links", "input", inputPath, "count", len(urls))

	linksPath := r.LinksPath
	if linksPath == "" {
		linksPath = defaultLinksPath
	}
	if err := links.SaveJSON(linksPath, urls); err != nil {
		return nil, fmt.Errorf("save links: %w", err)
	}

	if err := os.MkdirAll(r.Config.VideoDir, 0755); err != nil {
		return nil, fmt.Errorf("create video directory: %w", err)
	}
	if err := os.MkdirAll(r.Config.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio directory: %w", err)
	}

	for _, u := range urls {
		if err := r.fetchAudio(ctx, log, u); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Error("link failed", "url", u, "error", err)
			result.DownloadFailures++
			continue
		}
		result.Downloaded++
	}
	if result.Downloaded == 0 {
		return nil, fmt.Errorf("all %d downloads failed", len(urls))
	}

	rows, err := r.Batch.ProcessDirectory(ctx, r.Config.AudioDir)
	if err != nil {
		return nil, fmt.Errorf("transcribe batch: %w", err)
	}
	result.Rows = rows

	if err := report.WriteWorkbook(reportPath, rows); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	completed, failed := report.Summary(rows)
	log.Info("run finished", "report", reportPath, "completed", completed, "failed", failed)
	return result, nil
}

// fetchAudio downloads one video and extracts its audio track.
func (r *Runner) fetchAudio(ctx context.Context, log *slog.Logger, videoURL string) error {
	dl, err := r.Downloader.Download(ctx, videoURL, r.Config.VideoDir)
	if err != nil {
		return err
	}
	log.Info("downloaded", "url", videoURL, "video", dl.VideoPath)

	audioPath := media.WAVPath(dl.VideoPath, r.Config.AudioDir)
	if err := r.Extractor.ExtractWAV(ctx, dl.VideoPath, audioPath); err != nil {
		return err
	}
	log.Info("extracted audio", "audio", audioPath)

	if r.Config.DeleteVideos {
		if err := os.Remove(dl.VideoPath); err != nil {
			log.Warn("video cleanup failed", "video", dl.VideoPath, "error", err)
		}
	}
	return nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
