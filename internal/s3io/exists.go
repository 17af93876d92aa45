package s3io

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func isNotFound(err error) bool {
	var responseError *awshttp.ResponseError
	return errors.As(err, &responseError) &&
		responseError.ResponseError.HTTPStatusCode() == http.StatusNotFound
}

func (cl *client) Exists(ctx context.Context, relpath string) (bool, error) {
	_, err := cl.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(cl.key(relpath)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}

	return false, err
}
