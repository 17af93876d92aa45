package verify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/s3io"
)

// ErrNoAlgorithm is returned when metadata verification is requested
// with checksums disabled: no object would ever match, so every result
// would be a false "missing".
var ErrNoAlgorithm = errors.New("metadata verification requires a checksum algorithm")

// Metadata verifies every object under the destination prefix by
// asking the service to disclose its stored checksum for the given
// algorithm. Requests run concurrently up to the limit; cancelling the
// context stops new requests from being issued. Cost scales with the
// number of objects, not their size.
func Metadata(ctx context.Context, client s3io.Client, algo checksum.Algorithm, concurrency int) (*Summary, error) {
	if algo == checksum.None {
		return nil, ErrNoAlgorithm
	}

	objects, err := client.List(ctx)
	if err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	summary := Summary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, object := range objects {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			head, err := client.Head(gctx, object.RelPath)

			mu.Lock()
			defer mu.Unlock()

			summary.Checked++
			switch {
			case err != nil:
				summary.Errors++
				slog.Error("checksum metadata request failed", "path", object.RelPath, "error", err)
			case head.ChecksumFor(algo) == "":
				summary.Missing++
				slog.Warn("object has no stored checksum", "path", object.RelPath, "algorithm", algo.String())
			default:
				summary.Verified++
			}
			// request failures are tallied, never propagated: one bad
			// object must not stop the others being checked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return &summary, err
	}
	if err := ctx.Err(); err != nil {
		return &summary, err
	}

	slog.Info("metadata verification complete",
		"checked", summary.Checked,
		"verified", summary.Verified,
		"missing", summary.Missing,
		"errors", summary.Errors,
		"outcome", string(summary.Outcome()))

	return &summary, nil
}
