package mirror

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/s3io"
)

// Result describes one mirror run. FilesScanned and SourceBytes cover
// the local files considered (the pre-sync snapshot); the action
// counters cover what the run actually did.
type Result struct {
	Start time.Time
	End   time.Time

	FilesScanned int
	SourceBytes  int64

	Unchanged        int
	Uploaded         int
	UploadedBytes    int64
	Deleted          int
	Failed           int
	DigestMismatches int

	DestinationCount int
}

func (r *Result) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Succeeded reports whether the transfer itself succeeded. A digest
// mismatch fails the run even when nothing else did.
func (r *Result) Succeeded() bool {
	return r.Failed == 0 && r.DigestMismatches == 0
}

type Mirror struct {
	client    s3io.Client
	sourceDir string
	policy    checksum.Policy
	exclude   []string
}

func New(client s3io.Client, sourceDir string, policy checksum.Policy, exclude []string) *Mirror {
	return &Mirror{
		client:    client,
		sourceDir: sourceDir,
		policy:    policy,
		exclude:   exclude,
	}
}

// Run mirrors the source directory to the destination: new and
// modified files are uploaded and extraneous objects deleted. The
// context bounds the whole run; cancelling it stops the pipeline.
func (m *Mirror) Run(ctx context.Context) (*Result, error) {
	if fi, err := os.Stat(m.sourceDir); err != nil || !fi.IsDir() {
		return nil, &ErrNoSourceDir{dir: m.sourceDir}
	}

	result := Result{
		Start: time.Now(),
	}

	// build the processing chain
	ch := NewFsScanner(ctx, m.sourceDir)
	if len(m.exclude) > 0 {
		ch = NewExtensionFilter(ctx, ch, m.exclude)
	}

	remote, err := NewRemoteScanner(ctx, m.client)
	if err != nil {
		return nil, err
	}

	ch = NewComparer(ctx, ch, remote)
	ch = NewUploader(ctx, ch, m.client, m.sourceDir, m.policy)
	ch = NewDeleter(ctx, ch, m.client)

	// drain the chain
	for ei := range ch {
		if ei.Status != StatusExtraneous {
			result.FilesScanned++
			result.SourceBytes += ei.Size
		}

		switch ei.Action {
		case Uploaded:
			result.Uploaded++
			result.UploadedBytes += ei.UploadedSize
			slog.Debug("uploaded", "path", ei.RelPath, "size", ei.Size)
		case Deleted:
			result.Deleted++
			slog.Debug("deleted", "path", ei.RelPath)
		case Failed:
			result.Failed++
			if ei.DigestMismatch {
				result.DigestMismatches++
			}
			slog.Error("sync failed for file", "path", ei.RelPath, "reason", ei.ActionMessage)
		default:
			result.Unchanged++
		}
	}

	result.End = time.Now()

	if err := ctx.Err(); err != nil {
		return &result, err
	}

	// post-transfer object count at the destination
	count, err := m.client.Count(ctx)
	if err != nil {
		return &result, err
	}
	result.DestinationCount = count

	return &result, nil
}

type ErrNoSourceDir struct {
	dir string
}

func (e *ErrNoSourceDir) Error() string {
	return "source is not a directory: " + e.dir
}
