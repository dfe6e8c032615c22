package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Kind classifies a storage failure so callers can react without parsing
// provider error strings.
type Kind int

const (
	// KindOther is a failure that fits no more specific kind.
	KindOther Kind = iota
	// KindNetwork is a connectivity or timeout failure.
	KindNetwork
	// KindPermission is an authentication or authorization failure.
	KindPermission
	// KindNotFound means the object or bucket does not exist.
	KindNotFound
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not found"
	default:
		return "other"
	}
}

// Error describes a failed storage operation.
type Error struct {
	// Op is the operation that failed: "upload", "download", "delete".
	Op string
	// Key is the object key involved.
	Key string
	// Kind classifies the failure.
	Kind Kind
	// Err is the underlying provider error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %s: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps an AWS SDK error to a failure kind.
func classify(err error) Kind {
	var reqFailure awserr.RequestFailure
	if errors.As(err, &reqFailure) {
		switch reqFailure.StatusCode() {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusForbidden, http.StatusUnauthorized:
			return KindPermission
		}
	}

	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return KindNotFound
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return KindPermission
		case "RequestError", "RequestTimeout", "RequestCanceled", "SerializationError":
			return KindNetwork
		}
	}

	return KindOther
}

// newError wraps a provider error with operation context and a kind.
func newError(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Kind: classify(err), Err: err}
}
