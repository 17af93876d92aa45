package mirror

import (
	"context"

	"github.com/studio1767/s3mirror/internal/s3io"
)

// NewRemoteScanner emits one EntryInfo per object currently under the
// destination prefix. The listing comes back in key order, matching
// the fs scanner's ordering.
func NewRemoteScanner(ctx context.Context, client s3io.Client) (<-chan *EntryInfo, error) {
	objects, err := client.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan *EntryInfo, 10)

	go func() {
		defer close(out)

		for _, object := range objects {
			info := EntryInfo{
				Status:  StatusOk,
				RelPath: object.RelPath,
				Size:    object.Size,
				ModTime: object.LastModified,
				Action:  NoAction,
			}
			select {
			case <-ctx.Done():
				return
			case out <- &info:
			}
		}
	}()

	return out, nil
}
