package s3io

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// List returns every object under the client's prefix in key order,
// with paths relative to the prefix. S3 lists keys lexicographically
// so the result needs no further sorting.
func (cl *client) List(ctx context.Context) ([]ObjectInfo, error) {
	listPrefix := cl.prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	loi := s3.ListObjectsV2Input{
		Bucket: cl.bucket,
		Prefix: aws.String(listPrefix),
	}

	var objects []ObjectInfo

	for {
		resp, err := cl.client.ListObjectsV2(ctx, &loi)
		if err != nil {
			return nil, err
		}

		for _, object := range resp.Contents {
			key := aws.ToString(object.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			oi := ObjectInfo{
				Key:     key,
				RelPath: strings.TrimPrefix(key, listPrefix),
				Size:    aws.ToInt64(object.Size),
			}
			if object.LastModified != nil {
				oi.LastModified = object.LastModified.Unix()
			}
			objects = append(objects, oi)
		}

		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		loi.ContinuationToken = resp.NextContinuationToken
	}

	return objects, nil
}

// Count returns the number of objects under the client's prefix.
func (cl *client) Count(ctx context.Context) (int, error) {
	objects, err := cl.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(objects), nil
}
