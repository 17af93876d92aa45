package s3io

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/studio1767/s3mirror/internal/checksum"
)

// Head retrieves object metadata with checksum disclosure enabled.
// Whatever checksums the service has stored for the object come back
// in the result; no content is transferred.
func (cl *client) Head(ctx context.Context, relpath string) (*ObjectHead, error) {
	key := cl.key(relpath)

	hoo, err := cl.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket:       cl.bucket,
		Key:          aws.String(key),
		ChecksumMode: types.ChecksumModeEnabled,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &ErrNoSuchObject{key: key}
		}
		return nil, err
	}

	checksums := make(map[checksum.Algorithm]string)
	if v := aws.ToString(hoo.ChecksumCRC64NVME); v != "" {
		checksums[checksum.CRC64NVME] = v
	}
	if v := aws.ToString(hoo.ChecksumCRC32C); v != "" {
		checksums[checksum.CRC32C] = v
	}
	if v := aws.ToString(hoo.ChecksumCRC32); v != "" {
		checksums[checksum.CRC32] = v
	}
	if v := aws.ToString(hoo.ChecksumSHA256); v != "" {
		checksums[checksum.SHA256] = v
	}
	if v := aws.ToString(hoo.ChecksumSHA1); v != "" {
		checksums[checksum.SHA1] = v
	}

	return &ObjectHead{
		Key:       key,
		Size:      aws.ToInt64(hoo.ContentLength),
		Checksums: checksums,
	}, nil
}
