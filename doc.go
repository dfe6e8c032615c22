// Package ytscribe turns a spreadsheet of YouTube links into a
// spreadsheet of transcripts.
//
// Overview
//
// The pipeline runs in fixed stages, each consuming the previous
// stage's output on disk:
//
//   - links: extract YouTube watch URLs from an xlsx or CSV file
//   - youtube: download each video with yt-dlp
//   - media: extract a WAV audio track with ffmpeg
//   - storage: stage each audio file in S3
//   - transcribe: run an AWS Transcribe job per file and poll to completion
//   - report: collate per-file outcomes into an xlsx report
//
// Quick Start
//
// Run the full pipeline:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
//	if err != nil {
//		log.Fatal(err)
//	}
//	driver := &batch.Driver{
//		Store: storage.NewStore(sess, cfg.Bucket),
//		Transcriber: &transcribe.Orchestrator{
//			API:     transcribe.NewClient(sess),
//			Fetcher: &transcribe.HTTPFetcher{},
//		},
//		UserID:       cfg.UserID,
//		Feature:      cfg.FeatureName,
//		LanguageCode: cfg.LanguageCode,
//	}
//	runner := pipeline.NewRunner(cfg, driver)
//	result, err := runner.Run(ctx, "videos.xlsx", "report.xlsx")
//
// Configuration
//
// ytscribe loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytscribe.json or ~/.config/ytscribe/ytscribe.json)
//   3. Default values (lowest priority)
//
// A .env file in the working directory is read into the environment
// first when present. Key environment variables:
//
//   - AWS_REGION / YTSCRIBE_REGION: AWS region for S3 and Transcribe
//   - S3_BUCKET_NAME / YTSCRIBE_BUCKET: bucket audio is staged in
//   - YTSCRIBE_YTDLP_PATH: path to the yt-dlp executable
//   - YTSCRIBE_FFMPEG_PATH: path to the ffmpeg executable
//   - YTSCRIBE_LANGUAGE_CODE: transcription language (default en-US)
//   - YTSCRIBE_POLL_INTERVAL: delay between job status checks
//   - YTSCRIBE_MAX_POLL_ATTEMPTS: bound on status checks per job
//
// Error Handling
//
// All operations return errors that support the standard patterns:
//
//	if errors.Is(err, ytscribe.ErrVideoNotFound) {
//		fmt.Println("video is gone")
//	}
//
//	var jobErr *ytscribe.JobError
//	if errors.As(err, &jobErr) {
//		fmt.Printf("job %s failed: %s\n", jobErr.Name, jobErr.Reason)
//	}
//
// A job that never completes within the poll bound fails with
// ytscribe.ErrPollTimeout, which is distinct from a provider-reported
// job failure.
//
// Dependencies
//
// ytscribe requires yt-dlp and ffmpeg to be installed and available in
// PATH or configured explicitly, plus AWS credentials with access to
// the configured S3 bucket and the Transcribe service.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
//
package ytscribe
