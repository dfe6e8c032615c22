package storage

import (
	"fmt"
	"strings"
)

// ObjectKey is the composite key objects are stored under:
// user_{user}/{feature}/{project}/{name}.
type ObjectKey struct {
	// UserID identifies the operator owning the object.
	UserID string
	// Feature is the feature segment, e.g. "transcribe_temp".
	Feature string
	// ProjectID groups objects of one processing run.
	ProjectID string
	// Name is the object's file name.
	Name string
}

// String renders the key in its canonical path form.
func (k ObjectKey) String() string {
	return fmt.Sprintf("user_%s/%s/%s/%s", k.UserID, k.Feature, k.ProjectID, k.Name)
}

// PublicURL builds the public HTTPS URL for an object key in a bucket.
func PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, strings.ReplaceAll(key, "\\", "/"))
}

// S3URI builds the s3:// URI for an object key, the form the
// transcription service accepts as a media reference.
func S3URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

// KeyFromURL recovers the object key from a public URL produced by
// PublicURL. It returns an error when the URL does not address the bucket.
func KeyFromURL(bucket, publicURL string) (string, error) {
	marker := bucket + ".s3.amazonaws.com/"
	_, key, ok := strings.Cut(publicURL, marker)
	if !ok || key == "" {
		return "", fmt.Errorf("url %q does not address bucket %q", publicURL, bucket)
	}
	return key, nil
}
