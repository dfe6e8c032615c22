// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ytscribe/internal/retry"
)

// Config holds all application configuration for the transcription pipeline.
type Config struct {
	// Region is the AWS region used for S3 and Transcribe (default: "eu-north-1")
	Region string `json:"region"`
	// Bucket is the S3 bucket audio files are staged in (default: "voxbee")
	Bucket string `json:"bucket"`
	// UserID scopes object keys to an operator (default: "local")
	UserID string `json:"user_id"`
	// FeatureName is the feature segment of object keys (default: "transcribe_temp")
	FeatureName string `json:"feature_name"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp")
	YtdlpPath string `json:"ytdlp_path"`
	// YtdlpTimeout is the maximum time to wait for yt-dlp operations
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`
	// FfmpegPath is the path to the ffmpeg executable (default: "ffmpeg")
	FfmpegPath string `json:"ffmpeg_path"`
	// FfmpegTimeout is the maximum time to wait for audio extraction
	FfmpegTimeout time.Duration `json:"ffmpeg_timeout"`

	// VideoDir is the directory downloaded videos are written to
	VideoDir string `json:"video_dir"`
	// AudioDir is the directory extracted WAV files are written to
	AudioDir string `json:"audio_dir"`
	// DeleteVideos removes each video file once its audio is extracted
	DeleteVideos bool `json:"delete_videos"`

	// LanguageCode is the transcription language (default: "en-US")
	LanguageCode string `json:"language_code"`
	// PollInterval is the fixed delay between transcription status checks
	PollInterval time.Duration `json:"poll_interval"`
	// MaxPollAttempts bounds the number of status checks per job
	MaxPollAttempts int `json:"max_poll_attempts"`
	// CleanupRemote deletes the staged S3 object after each job, success or not
	CleanupRemote bool `json:"cleanup_remote"`

	// MaxRetries is the maximum number of retries for failed downloads
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for download retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for download retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Region:            "eu-north-1",
		Bucket:            "voxbee",
		UserID:            "local",
		FeatureName:       "transcribe_temp",
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      10 * time.Minute,
		FfmpegPath:        "ffmpeg",
		FfmpegTimeout:     10 * time.Minute,
		VideoDir:          "downloaded_videos",
		AudioDir:          "extracted_audio",
		DeleteVideos:      true,
		LanguageCode:      "en-US",
		PollInterval:      10 * time.Second,
		MaxPollAttempts:   60,
		CleanupRemote:     true,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. A .env file in the working
// directory is read into the environment first when present.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytscribe.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscribe.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscribe", "ytscribe.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("YTSCRIBE_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("S3_BUCKET_NAME"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("YTSCRIBE_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("YTSCRIBE_USER_ID"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("YTSCRIBE_FEATURE_NAME"); v != "" {
		c.FeatureName = v
	}
	if v := os.Getenv("YTSCRIBE_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTSCRIBE_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTSCRIBE_FFMPEG_PATH"); v != "" {
		c.FfmpegPath = v
	}
	if v := os.Getenv("YTSCRIBE_FFMPEG_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FfmpegTimeout = d
		}
	}
	if v := os.Getenv("YTSCRIBE_VIDEO_DIR"); v != "" {
		c.VideoDir = v
	}
	if v := os.Getenv("YTSCRIBE_AUDIO_DIR"); v != "" {
		c.AudioDir = v
	}
	if v := os.Getenv("YTSCRIBE_DELETE_VIDEOS"); v != "" {
		c.DeleteVideos = v == "true" || v == "1"
	}
	if v := os.Getenv("YTSCRIBE_LANGUAGE_CODE"); v != "" {
		c.LanguageCode = v
	}
	if v := os.Getenv("YTSCRIBE_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("YTSCRIBE_MAX_POLL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPollAttempts = n
		}
	}
	if v := os.Getenv("YTSCRIBE_CLEANUP_REMOTE"); v != "" {
		c.CleanupRemote = v == "true" || v == "1"
	}
	if v := os.Getenv("YTSCRIBE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSCRIBE_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTSCRIBE_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
	if v := os.Getenv("YTSCRIBE_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BackoffMultiplier = f
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket must not be empty")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.FfmpegTimeout <= 0 {
		return fmt.Errorf("ffmpeg_timeout must be positive")
	}
	if c.LanguageCode == "" {
		return fmt.Errorf("language_code must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.MaxPollAttempts <= 0 {
		return fmt.Errorf("max_poll_attempts must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}

// RetryConfig builds the download retry configuration from the config's
// backoff knobs.
func (c *Config) RetryConfig() *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	cfg.InitialBackoff = c.InitialBackoff
	cfg.MaxBackoff = c.MaxBackoff
	cfg.Multiplier = c.BackoffMultiplier
	return &cfg
}
