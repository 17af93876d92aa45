package s3io

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/studio1767/s3mirror/internal/checksum"
)

// ObjectInfo is one entry from a bucket listing, keyed relative to the
// client's prefix.
type ObjectInfo struct {
	Key          string
	RelPath      string
	Size         int64
	LastModified int64
}

// ObjectHead is the metadata returned for a single object, including
// any server-side checksums the service disclosed.
type ObjectHead struct {
	Key       string
	Size      int64
	Checksums map[checksum.Algorithm]string
}

// ChecksumFor returns the stored checksum for the given algorithm, or
// "" if the object has none (e.g. it predates checksum adoption).
func (h *ObjectHead) ChecksumFor(algo checksum.Algorithm) string {
	return h.Checksums[algo]
}

type Client interface {
	Exists(ctx context.Context, relpath string) (bool, error)
	Head(ctx context.Context, relpath string) (*ObjectHead, error)

	List(ctx context.Context) ([]ObjectInfo, error)
	Count(ctx context.Context) (int, error)

	Upload(ctx context.Context, relpath string, source io.Reader, algo checksum.Algorithm) (int64, error)
	Download(ctx context.Context, relpath string, sink io.Writer) (int64, error)
	Delete(ctx context.Context, relpath string) error

	Destination() string
}

// Options carries everything the client needs; nothing is read from
// the ambient environment beyond the shared aws credentials files.
type Options struct {
	Profile string
	Region  string
	Bucket  string
	Prefix  string

	// transfer tuning, zero values mean sdk defaults / unlimited
	Concurrency  int
	PartSize     int64
	MaxBandwidth int64
}

type client struct {
	client *s3.Client
	bucket *string
	prefix string
	opts   Options
}

func NewClient(ctx context.Context, opts Options) (Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithSharedConfigProfile(opts.Profile),
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	cl := client{
		client: s3.NewFromConfig(cfg),
		bucket: aws.String(opts.Bucket),
		prefix: opts.Prefix,
		opts:   opts,
	}

	return &cl, nil
}

func (cl *client) Destination() string {
	if cl.prefix == "" {
		return *cl.bucket
	}
	return *cl.bucket + "/" + cl.prefix
}

// key maps a source-relative path to the full object key.
func (cl *client) key(relpath string) string {
	if cl.prefix == "" {
		return relpath
	}
	return cl.prefix + "/" + relpath
}

func (cl *client) uploader() *manager.Uploader {
	return manager.NewUploader(cl.client, func(u *manager.Uploader) {
		if cl.opts.Concurrency > 0 {
			u.Concurrency = cl.opts.Concurrency
		}
		if cl.opts.PartSize > 0 {
			u.PartSize = cl.opts.PartSize
		}
	})
}
