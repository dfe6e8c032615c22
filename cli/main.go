package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"

	"ytscribe/batch"
	"ytscribe/config"
	"ytscribe/links"
	"ytscribe/media"
	"ytscribe/pipeline"
	"ytscribe/report"
	"ytscribe/storage"
	"ytscribe/transcribe"
	"ytscribe/youtube"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		cmdRun(args)
	case "extract":
		cmdExtract(args)
	case "download":
		cmdDownload(args)
	case "transcribe":
		cmdTranscribe(args)
	case "version":
		fmt.Printf("ytscribe %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscribe - YouTube batch transcription pipeline

Usage:
  ytscribe run [flags] <spreadsheet>         Run the full pipeline: extract links,
                                             download, convert, transcribe, report
  ytscribe extract [flags] <spreadsheet>     Extract YouTube links to JSON
  ytscribe download [flags] <links.json>     Download videos and extract audio
  ytscribe transcribe [flags] <audio-dir>    Transcribe an existing audio directory
  ytscribe version                           Print version
  ytscribe help                              Show this help message

Examples:
  ytscribe run videos.xlsx                               # Full pipeline, report.xlsx output
  ytscribe run -o out/report.xlsx -v videos.csv          # Custom report path, verbose
  ytscribe extract videos.xlsx -o links.json             # Just the links
  ytscribe download links.json                           # Fetch audio for saved links
  ytscribe transcribe extracted_audio -o report.xlsx     # Audio files already on disk

For help on specific command: ytscribe <command> -h
`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	output := fs.String("o", "report.xlsx", "Report workbook output path")
	linksPath := fs.String("links", "youtube_links.json", "Where to save the extracted link list")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe run [flags] <spreadsheet>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing spreadsheet path\n")
		fs.Usage()
		os.Exit(1)
	}
	input := argv[0]

	setupLogging(*verbose)
	cfg := loadConfig()
	ctx, cancel := signalContext()
	defer cancel()

	driver, err := newBatchDriver(cfg)
	if err != nil {
		fatal("Error creating AWS clients: %v", err)
	}
	runner := pipeline.NewRunner(cfg, driver)
	runner.LinksPath = *linksPath

	fmt.Fprintf(os.Stderr, "Processing %s...\n", input)
	result, err := runner.Run(ctx, input, *output)
	if err != nil {
		fatal("Error: %v", err)
	}

	completed, failed := report.Summary(result.Rows)
	fmt.Fprintf(os.Stderr, "\nRun %s finished: %d links, %d downloaded, %d transcribed, %d failed\n",
		result.RunID, len(result.Links), result.Downloaded, completed, failed)
	fmt.Fprintf(os.Stderr, "Report written to %s\n", result.ReportPath)
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	output := fs.String("o", "youtube_links.json", "JSON output path")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe extract [flags] <spreadsheet>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing spreadsheet path\n")
		fs.Usage()
		os.Exit(1)
	}
	input := argv[0]

	urls, err := links.Extract(input)
	if err != nil {
		fatal("Error extracting links: %v", err)
	}
	if len(urls) == 0 {
		fmt.Println("No YouTube links found.")
		return
	}
	if err := links.SaveJSON(*output, urls); err != nil {
		fatal("Error saving links: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tURL")
	for i, u := range urls {
		fmt.Fprintf(w, "%d\t%s\n", i+1, u)
	}
	w.Flush()
	fmt.Fprintf(os.Stderr, "\n%d links saved to %s\n", len(urls), *output)
}

func cmdDownload(args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe download [flags] <links.json|spreadsheet>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing input path\n")
		fs.Usage()
		os.Exit(1)
	}
	input := argv[0]

	setupLogging(*verbose)
	cfg := loadConfig()

	var urls []string
	var err error
	if strings.EqualFold(filepath.Ext(input), ".json") {
		urls, err = links.LoadJSON(input)
	} else {
		urls, err = links.Extract(input)
	}
	if err != nil {
		fatal("Error reading links: %v", err)
	}
	if len(urls) == 0 {
		fmt.Println("No YouTube links found.")
		return
	}

	if err := os.MkdirAll(cfg.VideoDir, 0755); err != nil {
		fatal("Error: %v", err)
	}
	if err := os.MkdirAll(cfg.AudioDir, 0755); err != nil {
		fatal("Error: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	downloader := &youtube.Downloader{
		Path:        cfg.YtdlpPath,
		Timeout:     cfg.YtdlpTimeout,
		RetryConfig: cfg.RetryConfig(),
	}
	extractor := &media.Extractor{
		FfmpegPath: cfg.FfmpegPath,
		Timeout:    cfg.FfmpegTimeout,
	}

	var failed int
	for _, u := range urls {
		fmt.Fprintf(os.Stderr, "Downloading %s...\n", u)
		dl, err := downloader.Download(ctx, u, cfg.VideoDir)
		if err != nil {
			if ctx.Err() != nil {
				fatal("Error: %v", ctx.Err())
			}
			fmt.Fprintf(os.Stderr, "Error downloading %s: %v\n", u, err)
			failed++
			continue
		}
		audioPath := media.WAVPath(dl.VideoPath, cfg.AudioDir)
		if err := extractor.ExtractWAV(ctx, dl.VideoPath, audioPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting audio from %s: %v\n", dl.VideoPath, err)
			failed++
			continue
		}
		if cfg.DeleteVideos {
			if err := os.Remove(dl.VideoPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", dl.VideoPath, err)
			}
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", audioPath)
	}

	fmt.Fprintf(os.Stderr, "\n%d of %d links converted to audio in %s\n", len(urls)-failed, len(urls), cfg.AudioDir)
	if failed == len(urls) {
		os.Exit(1)
	}
}

func cmdTranscribe(args []string) {
	fs := flag.NewFlagSet("transcribe", flag.ExitOnError)
	output := fs.String("o", "report.xlsx", "Report workbook output path")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe transcribe [flags] <audio-dir>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	setupLogging(*verbose)
	cfg := loadConfig()

	dir := cfg.AudioDir
	if argv := fs.Args(); len(argv) > 0 {
		dir = argv[0]
	}

	ctx, cancel := signalContext()
	defer cancel()

	driver, err := newBatchDriver(cfg)
	if err != nil {
		fatal("Error creating AWS clients: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Transcribing audio files in %s...\n", dir)
	rows, err := driver.ProcessDirectory(ctx, dir)
	if err != nil {
		fatal("Error: %v", err)
	}
	if err := report.WriteWorkbook(*output, rows); err != nil {
		fatal("Error writing report: %v", err)
	}

	completed, failed := report.Summary(rows)
	fmt.Fprintf(os.Stderr, "%d transcribed, %d failed. Report written to %s\n", completed, failed, *output)
}

// newBatchDriver wires the AWS-backed batch processor from config.
func newBatchDriver(cfg *config.Config) (*batch.Driver, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}

	orchestrator := &transcribe.Orchestrator{
		API:          transcribe.NewClient(sess),
		Fetcher:      &transcribe.HTTPFetcher{},
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.MaxPollAttempts,
	}

	return &batch.Driver{
		Store:         storage.NewStore(sess, cfg.Bucket),
		Transcriber:   orchestrator,
		UserID:        cfg.UserID,
		Feature:       cfg.FeatureName,
		LanguageCode:  cfg.LanguageCode,
		CleanupRemote: cfg.CleanupRemote,
	}, nil
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal("Error loading config: %v", err)
	}
	return cfg
}

// signalContext returns a context canceled on SIGINT or SIGTERM so a
// batch can stop cleanly between files.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
