package storage

import "testing"

func TestObjectKey_String(t *testing.T) {
	key := ObjectKey{
		UserID:    "42",
		Feature:   "transcribe_temp",
		ProjectID: "20240101_120000",
		Name:      "talk.wav",
	}
	want := "user_42/transcribe_temp/20240101_120000/talk.wav"
	if got := key.String(); got != want {
		t.Errorf("ObjectKey.String() = %q, want %q", got, want)
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("voxbee", "user_42/transcribe_temp/p/talk.wav")
	want := "https://voxbee.s3.amazonaws.com/user_42/transcribe_temp/p/talk.wav"
	if got != want {
		t.Errorf("PublicURL() = %q, want %q", got, want)
	}
}

func TestPublicURL_BackslashesNormalized(t *testing.T) {
	got := PublicURL("voxbee", `a\b\c.wav`)
	want := "https://voxbee.s3.amazonaws.com/a/b/c.wav"
	if got != want {
		t.Errorf("PublicURL() = %q, want %q", got, want)
	}
}

func TestS3URI(t *testing.T) {
	got := S3URI("voxbee", "a/b/talk.wav")
	want := "s3://voxbee/a/b/talk.wav"
	if got != want {
		t.Errorf("S3URI() = %q, want %q", got, want)
	}
}

func TestKeyFromURL_RoundTrip(t *testing.T) {
	keys := []string{
		"user_42/transcribe_temp/20240101_120000/talk.wav",
		"user_local/feature/p/a_b-c.1.mp3",
	}
	for _, key := range keys {
		url := PublicURL("voxbee", key)
		got, err := KeyFromURL("voxbee", url)
		if err != nil {
			t.Fatalf("KeyFromURL(%q) error = %v", url, err)
		}
		if got != key {
			t.Errorf("round trip: got %q, want %q", got, key)
		}
	}
}

func TestKeyFromURL_WrongBucket(t *testing.T) {
	url := PublicURL("other-bucket", "a/b.wav")
	if _, err := KeyFromURL("voxbee", url); err == nil {
		t.Error("KeyFromURL() error = nil, want error for foreign bucket")
	}
}

func TestKeyFromURL_EmptyKey(t *testing.T) {
	if _, err := KeyFromURL("voxbee", "https://voxbee.s3.amazonaws.com/"); err == nil {
		t.Error("KeyFromURL() error = nil, want error for empty key")
	}
}
