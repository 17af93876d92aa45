package verify

import (
	"context"
	"log/slog"
	"os"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/s3io"
)

// Legacy verifies objects by re-downloading each one named in a
// checksum record and hashing it locally. Every object is a full
// content transfer, so this is a compatibility fallback for workflows
// that require sha256sum style evidence, not the preferred strategy.
//
// Scratch files are removed after every comparison, including failed
// ones, so disk usage is bounded by the single largest object.
func Legacy(ctx context.Context, client s3io.Client, recordPath, scratchDir string) (*Summary, error) {
	entries, err := checksum.ReadRecord(recordPath)
	if err != nil {
		return nil, err
	}

	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	summary := Summary{}

	for _, entry := range entries {
		// stop issuing downloads once cancelled
		if err := ctx.Err(); err != nil {
			return &summary, err
		}

		summary.Checked++

		if err := verifyOne(ctx, client, entry, scratchDir); err != nil {
			summary.Errors++
			slog.Error("legacy verification failed", "path", entry.RelPath, "error", err)
		} else {
			summary.Verified++
		}
	}

	slog.Info("legacy verification complete",
		"checked", summary.Checked,
		"verified", summary.Verified,
		"errors", summary.Errors,
		"outcome", string(summary.Outcome()))

	return &summary, nil
}

func verifyOne(ctx context.Context, client s3io.Client, entry checksum.RecordEntry, scratchDir string) error {
	scratch, err := os.CreateTemp(scratchDir, "s3mirror-verify-*")
	if err != nil {
		return err
	}
	spath := scratch.Name()
	defer os.Remove(spath)

	_, err = client.Download(ctx, entry.RelPath, scratch)
	scratch.Close()
	if err != nil {
		return err
	}

	digest, err := checksum.HashFile(spath)
	if err != nil {
		return err
	}

	if digest != entry.Digest {
		slog.Error("checksum mismatch",
			"path", entry.RelPath,
			"expected", entry.Digest,
			"actual", digest)
		return &ErrChecksumMismatch{
			relpath:  entry.RelPath,
			expected: entry.Digest,
			actual:   digest,
		}
	}

	return nil
}

type ErrChecksumMismatch struct {
	relpath  string
	expected string
	actual   string
}

func (e *ErrChecksumMismatch) Error() string {
	return "checksum mismatch for " + e.relpath + ": expected " + e.expected + ", got " + e.actual
}
