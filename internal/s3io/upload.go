package s3io

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/studio1767/s3mirror/internal/checksum"
)

// Upload transfers the source to the bucket under the relative path.
// When algo is set, the service computes and stores that checksum over
// the received bytes during the upload; a declared/computed mismatch
// surfaces as ErrDigestMismatch.
//
// Every object is tagged with an origin marker and the upload time so
// mirrored objects can be told apart from ones written by other tools.
func (cl *client) Upload(ctx context.Context, relpath string, source io.Reader, algo checksum.Algorithm) (int64, error) {
	key := cl.key(relpath)

	mdata := map[string]string{
		"s3mirror-origin":      "s3mirror",
		"s3mirror-upload-time": time.Now().UTC().Format(time.RFC3339),
	}

	if cl.opts.MaxBandwidth > 0 {
		source = newThrottleReader(source, cl.opts.MaxBandwidth)
	}

	// count the bytes that actually go over the wire
	counter := NewReadCounter(source)
	defer counter.Close()

	input := s3.PutObjectInput{
		Bucket:   cl.bucket,
		Key:      aws.String(key),
		Body:     counter,
		Metadata: mdata,
	}
	if algo != checksum.None {
		input.ChecksumAlgorithm = algo.S3Type()
	}

	// sizes aren't known up front so use the managed uploader rather
	// than a plain PutObject
	_, err := cl.uploader().Upload(ctx, &input)
	if err != nil {
		if isDigestMismatch(err) {
			return counter.TotalBytes(), &ErrDigestMismatch{key: key, err: err}
		}
		return counter.TotalBytes(), err
	}

	return counter.TotalBytes(), nil
}
