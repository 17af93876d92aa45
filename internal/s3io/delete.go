package s3io

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Delete removes a single object. Deleting a key that doesn't exist is
// not an error; s3 treats it as a no-op and so do we.
func (cl *client) Delete(ctx context.Context, relpath string) error {
	_, err := cl.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(cl.key(relpath)),
	})
	return err
}
