// Package storage provides the S3-backed object store audio files are
// staged in before transcription.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Object describes an uploaded blob and the ways to address it.
type Object struct {
	// Key is the object key inside the bucket.
	Key string
	// PublicURL is the https:// address of the object.
	PublicURL string
	// URI is the s3:// address passed to the transcription service.
	URI string
}

// Store is an object-storage client bound to one bucket. Construct it
// with NewStore and pass it where needed; there is no package-level
// client state.
type Store struct {
	api    s3iface.S3API
	bucket string
}

// NewStore creates a store for bucket using the given AWS session.
func NewStore(sess *session.Session, bucket string) *Store {
	return &Store{
		api:    s3.New(sess),
		bucket: bucket,
	}
}

// NewStoreWithAPI creates a store around an explicit S3 API, used by
// tests to inject fakes.
func NewStoreWithAPI(api s3iface.S3API, bucket string) *Store {
	return &Store{api: api, bucket: bucket}
}

// Bucket returns the bucket this store addresses.
func (s *Store) Bucket() string {
	return s.bucket
}

// Upload stores the local file under key with a content type derived
// from the file extension, readable via its public URL.
func (s *Store) Upload(ctx context.Context, localPath, key string) (*Object, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, &Error{Op: "upload", Key: key, Kind: KindNotFound, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &Error{Op: "upload", Key: key, Kind: KindOther, Err: err}
	}

	_, err = s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               f,
		ContentLength:      aws.Int64(info.Size()),
		ContentType:        aws.String(ContentType(localPath)),
		ContentDisposition: aws.String("inline"),
		ACL:                aws.String("public-read"),
	})
	if err != nil {
		return nil, newError("upload", key, err)
	}

	return &Object{
		Key:       key,
		PublicURL: PublicURL(s.bucket, key),
		URI:       S3URI(s.bucket, key),
	}, nil
}

// Download fetches the object addressed by publicURL into localPath and
// verifies the result exists and is non-empty.
func (s *Store) Download(ctx context.Context, publicURL, localPath string) error {
	key, err := KeyFromURL(s.bucket, publicURL)
	if err != nil {
		return &Error{Op: "download", Key: publicURL, Kind: KindOther, Err: err}
	}

	out, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return newError("download", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return &Error{Op: "download", Key: key, Kind: KindOther, Err: err}
	}

	f, err := os.Create(localPath)
	if err != nil {
		return &Error{Op: "download", Key: key, Kind: KindOther, Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		os.Remove(localPath)
		return &Error{Op: "download", Key: key, Kind: KindNetwork, Err: err}
	}

	info, err := os.Stat(localPath)
	if err != nil || info.Size() == 0 {
		return &Error{Op: "download", Key: key, Kind: KindOther,
			Err: fmt.Errorf("downloaded file missing or empty")}
	}

	return nil
}

// Delete removes the object addressed by publicURL.
func (s *Store) Delete(ctx context.Context, publicURL string) error {
	key, err := KeyFromURL(s.bucket, publicURL)
	if err != nil {
		return &Error{Op: "delete", Key: publicURL, Kind: KindOther, Err: err}
	}

	if _, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return newError("delete", key, err)
	}
	return nil
}
