package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytscribe/report"
	"ytscribe/storage"
	"ytscribe/transcribe"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clip.wav", "clip.wav"},
		{"my talk (final).mp3", "my_talk__final_.mp3"},
		{"ünicode+name.wav", "__nicode_name.wav"},
		{"already_clean-1.2.mp3", "already_clean-1.2.mp3"},
		{"", ""},
	}
	for _, tt := range tests {
		got := SanitizeFilename(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := SanitizeFilename(got); again != got {
			t.Errorf("SanitizeFilename not idempotent: %q -> %q", got, again)
		}
	}
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
	failKeys map[string]error
}

func (f *fakeUploader) Upload(ctx context.Context, localPath, key string) (*storage.Object, error) {
	if err := f.failKeys[key]; err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.Object{
		Key:       key,
		PublicURL: storage.PublicURL("voxbee", key),
		URI:       storage.S3URI("voxbee", key),
	}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, publicURL string) error {
	f.deleted = append(f.deleted, publicURL)
	return nil
}

type fakeTranscriber struct {
	jobs     []string
	uris     []string
	failJobs map[string]error
	text     string
}

func (f *fakeTranscriber) Run(ctx context.Context, jobName, mediaURI, languageCode string) (*transcribe.Result, error) {
	f.jobs = append(f.jobs, jobName)
	f.uris = append(f.uris, mediaURI)
	for substr, err := range f.failJobs {
		if strings.Contains(jobName, substr) {
			return nil, err
		}
	}
	return &transcribe.Result{Text: f.text, Checks: 1}, nil
}

func writeAudioFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("riff"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestDriver(up *fakeUploader, tr *fakeTranscriber) *Driver {
	return &Driver{
		Store:         up,
		Transcriber:   tr,
		UserID:        "local",
		Feature:       "transcribe_temp",
		LanguageCode:  "en-US",
		CleanupRemote: true,
		Clock:         func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestProcessDirectory(t *testing.T) {
	dir := writeAudioFiles(t, "alpha.wav", "beta.mp3", "notes.txt")
	up := &fakeUploader{}
	tr := &fakeTranscriber{text: "hello"}
	d := newTestDriver(up, tr)

	rows, err := d.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Status != report.StatusCompleted {
			t.Errorf("row %s status = %q, want Completed", row.Filename, row.Status)
		}
		if row.Transcription != "hello" {
			t.Errorf("row %s transcription = %q", row.Filename, row.Transcription)
		}
		if row.CompletionTime != "2024-03-01 12:00:00" {
			t.Errorf("row %s completion time = %q", row.Filename, row.CompletionTime)
		}
	}

	wantKey := "user_local/transcribe_temp/20240301_120000/alpha.wav"
	if up.uploaded[0] != wantKey {
		t.Errorf("first upload key = %q, want %q", up.uploaded[0], wantKey)
	}
	if len(up.deleted) != 2 {
		t.Errorf("deleted %d objects, want 2", len(up.deleted))
	}
	if !strings.HasPrefix(tr.uris[0], "s3://voxbee/") {
		t.Errorf("media URI = %q, want s3:// form", tr.uris[0])
	}
	if !strings.HasPrefix(tr.jobs[0], "transcribe_job_20240301_120000_1_") {
		t.Errorf("job name = %q", tr.jobs[0])
	}
}

func TestProcessDirectoryContinuesPastFailures(t *testing.T) {
	dir := writeAudioFiles(t, "a.wav", "b.wav", "c.wav")
	up := &fakeUploader{}
	tr := &fakeTranscriber{
		text:     "ok",
		failJobs: map[string]error{"_2_b": &transcribe.JobError{Name: "job", Reason: "bad media"}},
	}
	d := newTestDriver(up, tr)

	rows, err := d.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Status != report.StatusCompleted || rows[2].Status != report.StatusCompleted {
		t.Errorf("outer rows should complete: %q %q", rows[0].Status, rows[2].Status)
	}
	if rows[1].Status != report.StatusFailed {
		t.Errorf("middle row status = %q, want Failed", rows[1].Status)
	}
	if !strings.HasPrefix(rows[1].Transcription, "Error: ") {
		t.Errorf("middle row transcription = %q, want Error: prefix", rows[1].Transcription)
	}
	// Staged objects are removed even for the failed job.
	if len(up.deleted) != 3 {
		t.Errorf("deleted %d objects, want 3", len(up.deleted))
	}
}

func TestProcessDirectoryUploadFailure(t *testing.T) {
	dir := writeAudioFiles(t, "only.wav")
	up := &fakeUploader{failKeys: map[string]error{
		"user_local/transcribe_temp/20240301_120000/only.wav": &storage.Error{
			Op: "upload", Kind: storage.KindPermission, Err: errors.New("denied"),
		},
	}}
	tr := &fakeTranscriber{text: "ok"}
	d := newTestDriver(up, tr)

	rows, err := d.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != report.StatusFailed {
		t.Fatalf("rows = %+v, want one failed row", rows)
	}
	if len(tr.jobs) != 0 {
		t.Errorf("transcriber ran %d jobs, want 0", len(tr.jobs))
	}
	if len(up.deleted) != 0 {
		t.Errorf("deleted %d objects, want 0 after failed upload", len(up.deleted))
	}
}

func TestProcessDirectorySanitizesNames(t *testing.T) {
	dir := writeAudioFiles(t, "my talk (1).wav")
	up := &fakeUploader{}
	tr := &fakeTranscriber{text: "ok"}
	d := newTestDriver(up, tr)

	rows, err := d.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if rows[0].Filename != "my_talk__1_.wav" {
		t.Errorf("filename = %q, want sanitized", rows[0].Filename)
	}
	if _, err := os.Stat(filepath.Join(dir, "my_talk__1_.wav")); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestProcessDirectoryCanceledBeforeStart(t *testing.T) {
	dir := writeAudioFiles(t, "a.wav", "b.wav", "c.wav")
	up := &fakeUploader{}
	tr := &fakeTranscriber{text: "ok"}
	d := newTestDriver(up, tr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, err := d.ProcessDirectory(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0 after cancellation before start", len(rows))
	}
	if len(up.uploaded) != 0 {
		t.Errorf("uploaded %d objects, want 0", len(up.uploaded))
	}
}

type cancelingTranscriber struct {
	inner  *fakeTranscriber
	cancel context.CancelFunc
	after  int
}

func (c *cancelingTranscriber) Run(ctx context.Context, jobName, mediaURI, languageCode string) (*transcribe.Result, error) {
	res, err := c.inner.Run(ctx, jobName, mediaURI, languageCode)
	if len(c.inner.jobs) == c.after {
		c.cancel()
	}
	return res, err
}

func TestProcessDirectoryStopsOnCancelBetweenFiles(t *testing.T) {
	dir := writeAudioFiles(t, "a.wav", "b.wav", "c.wav")
	up := &fakeUploader{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr := &cancelingTranscriber{inner: &fakeTranscriber{text: "ok"}, cancel: cancel, after: 1}
	d := newTestDriver(up, tr.inner)
	d.Transcriber = tr

	rows, err := d.ProcessDirectory(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 completed before cancellation", len(rows))
	}
	if rows[0].Status != report.StatusCompleted {
		t.Errorf("row 0 status = %q, want Completed", rows[0].Status)
	}
	if len(up.uploaded) != 1 {
		t.Errorf("uploaded %d objects, want 1", len(up.uploaded))
	}
}

func TestProcessDirectoryEmpty(t *testing.T) {
	d := newTestDriver(&fakeUploader{}, &fakeTranscriber{})

	_, err := d.ProcessDirectory(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoAudioFiles) {
		t.Errorf("err = %v, want ErrNoAudioFiles", err)
	}

	_, err = d.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
