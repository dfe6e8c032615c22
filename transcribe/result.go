package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ytscribe/httpx"
)

// resultDocument is the provider's transcript JSON shape; only the first
// transcript field is consumed.
type resultDocument struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// ParseTranscript extracts the first transcript text from a result document.
func ParseTranscript(data []byte) (string, error) {
	var doc resultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse transcript document: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", fmt.Errorf("transcript document has no transcripts")
	}
	return doc.Results.Transcripts[0].Transcript, nil
}

// ResultFetcher retrieves and parses the transcript document a completed
// job points at.
type ResultFetcher interface {
	Fetch(ctx context.Context, resultURI string) (string, error)
}

// HTTPFetcher fetches result documents over HTTP. The document is staged
// in a temporary local file and removed after parsing; nothing is cached.
type HTTPFetcher struct {
	// Client is the HTTP client to fetch with. Defaults to httpx.New(nil).
	Client *httpx.Client
	// TempDir is where the document is staged. Defaults to the OS temp dir.
	TempDir string
}

// Fetch downloads the transcript document at resultURI and returns its
// first transcript text.
func (f *HTTPFetcher) Fetch(ctx context.Context, resultURI string) (string, error) {
	client := f.Client
	if client == nil {
		client = httpx.New(nil)
	}

	resp, err := client.Get(ctx, resultURI)
	if err != nil {
		return "", fmt.Errorf("fetch transcript document: %w", err)
	}

	tmp, err := os.CreateTemp(f.TempDir, "transcription_*.json")
	if err != nil {
		return "", fmt.Errorf("stage transcript document: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("stage transcript document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("stage transcript document: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read transcript document: %w", err)
	}

	return ParseTranscript(data)
}
