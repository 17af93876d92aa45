package s3io

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

type ErrNoSuchObject struct {
	key string
}

func (e *ErrNoSuchObject) Error() string {
	return fmt.Sprintf("no such object in bucket: %s", e.key)
}

type ErrNotDownloadable struct {
	key          string
	storageClass string
}

func (e *ErrNotDownloadable) Error() string {
	return fmt.Sprintf("object is not downloadable: %s: storage class is %s", e.key, e.storageClass)
}

// ErrDigestMismatch means the service rejected an upload because the
// checksum it computed over the received bytes did not match the one
// the client declared. This is corruption in transit, never benign.
type ErrDigestMismatch struct {
	key string
	err error
}

func (e *ErrDigestMismatch) Error() string {
	return fmt.Sprintf("digest mismatch uploading %s: %v", e.key, e.err)
}

func (e *ErrDigestMismatch) Unwrap() error {
	return e.err
}

// digest-mismatch rejection codes from the service
var digestMismatchCodes = map[string]bool{
	"BadDigest":                   true,
	"InvalidDigest":               true,
	"XAmzContentChecksumMismatch": true,
	"XAmzContentSHA256Mismatch":   true,
}

func isDigestMismatch(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return digestMismatchCodes[apiErr.ErrorCode()]
	}
	return false
}

// NewErrDigestMismatch wraps err as a digest-mismatch failure for key.
func NewErrDigestMismatch(key string, err error) error {
	return &ErrDigestMismatch{key: key, err: err}
}

// IsDigestMismatch reports whether err signals a checksum rejection.
func IsDigestMismatch(err error) bool {
	var mismatch *ErrDigestMismatch
	return errors.As(err, &mismatch)
}
