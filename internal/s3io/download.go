package s3io

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var downloadable = map[string]bool{
	"":                                 true,
	string(types.StorageClassStandard): true,
	string(types.StorageClassReducedRedundancy): true,
	string(types.StorageClassStandardIa):        true,
	string(types.StorageClassOnezoneIa):         true,
	string(types.StorageClassIntelligentTiering): true,
}

func (cl *client) checkDownloadable(ctx context.Context, key string) error {
	hoo, err := cl.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		var nosuchkey *types.NoSuchKey
		if errors.As(err, &nosuchkey) || isNotFound(err) {
			return &ErrNoSuchObject{key: key}
		}
		return err
	}

	sclass := string(hoo.StorageClass)
	if downloadable[sclass] {
		return nil
	}

	return &ErrNotDownloadable{
		key:          key,
		storageClass: sclass,
	}
}

// Download copies the object's content to the sink. Objects in an
// archive storage class are rejected up front rather than failing
// mid-stream.
func (cl *client) Download(ctx context.Context, relpath string, sink io.Writer) (int64, error) {
	key := cl.key(relpath)

	if err := cl.checkDownloadable(ctx, key); err != nil {
		return 0, err
	}

	// plain GetObject: the sink is a stream, not an io.WriterAt, so
	// the parallel download manager doesn't apply
	resp, err := cl.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		var nosuchkey *types.NoSuchKey
		if errors.As(err, &nosuchkey) {
			return 0, &ErrNoSuchObject{key: key}
		}
		return 0, err
	}
	defer resp.Body.Close()

	counter := NewWriteCounter(sink)
	defer counter.Close()

	if _, err := io.Copy(counter, resp.Body); err != nil {
		return counter.TotalBytes(), err
	}

	return counter.TotalBytes(), nil
}
