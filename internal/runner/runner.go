// Package runner orchestrates one full sync run: take the lock,
// snapshot checksums when legacy verification wants them, mirror,
// verify, and persist the status record. The monitor and the manual
// sync command both go through here, so the behavior is identical no
// matter how a run was started.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/config"
	"github.com/studio1767/s3mirror/internal/lockfile"
	"github.com/studio1767/s3mirror/internal/mirror"
	"github.com/studio1767/s3mirror/internal/s3io"
	"github.com/studio1767/s3mirror/internal/status"
	"github.com/studio1767/s3mirror/internal/verify"
)

type Runner struct {
	cfg    *config.Config
	client s3io.Client
	policy checksum.Policy
	lock   *lockfile.Lock
}

func New(ctx context.Context, cfg *config.Config) (*Runner, error) {
	policy, err := checksum.NewPolicy(cfg.ChecksumAlgorithm, cfg.ChecksumEnabled,
		cfg.VerifyAfterUpload, cfg.ChecksumStrict)
	if err != nil {
		return nil, err
	}

	client, err := s3io.NewClient(ctx, s3io.Options{
		Profile:      cfg.Profile,
		Region:       cfg.Region,
		Bucket:       cfg.Bucket,
		Prefix:       cfg.Prefix,
		Concurrency:  cfg.MaxConcurrency,
		PartSize:     cfg.PartSize,
		MaxBandwidth: cfg.MaxBandwidth,
	})
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		client: client,
		policy: policy,
		lock:   lockfile.New(cfg.LockFile),
	}, nil
}

// NewWithClient wires a runner onto an existing client; used by tests.
func NewWithClient(cfg *config.Config, client s3io.Client, policy checksum.Policy) *Runner {
	return &Runner{
		cfg:    cfg,
		client: client,
		policy: policy,
		lock:   lockfile.New(cfg.LockFile),
	}
}

func (r *Runner) Lock() *lockfile.Lock {
	return r.lock
}

func (r *Runner) Policy() checksum.Policy {
	return r.policy
}

func (r *Runner) Client() s3io.Client {
	return r.client
}

// SyncOnce performs a complete run. lockfile.ErrLocked comes back
// untouched so callers can tell "busy" from "broken". The status
// record is written even when the transfer or the verification fails;
// only errors before the transfer starts (config, lock, listing)
// abort without one. On a verification error the record is returned
// alongside the error.
func (r *Runner) SyncOnce(ctx context.Context) (*status.Record, error) {
	if err := r.lock.TryAcquire(); err != nil {
		return nil, err
	}
	defer r.lock.Release()

	if err := r.cfg.CheckSource(); err != nil {
		return nil, err
	}

	// legacy verification compares against pre-upload state, so the
	// record has to be written before the transfer begins
	recordPath := ""
	if r.policy.LegacyVerify {
		path, count, err := checksum.WriteRecord(ctx, r.cfg.SourceDir, r.cfg.RecordDir)
		if err != nil {
			return nil, err
		}
		recordPath = path
		slog.Info("checksum record written", "path", path, "files", count)
	}

	syncCtx := ctx
	if r.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		syncCtx, cancel = context.WithTimeout(ctx, r.cfg.SyncTimeout)
		defer cancel()
	}

	m := mirror.New(r.client, r.cfg.SourceDir, r.policy, r.cfg.ExcludeExtensions)
	result, err := m.Run(syncCtx)
	if err != nil {
		return nil, err
	}

	slog.Info("sync complete",
		"files", result.FilesScanned,
		"uploaded", result.Uploaded,
		"deleted", result.Deleted,
		"failed", result.Failed,
		"duration", result.Duration().Round(time.Millisecond))

	outcome, errorCount := verify.NotRun, 0
	var verifyErr error
	if result.Succeeded() {
		outcome, errorCount, verifyErr = r.runVerification(ctx, recordPath)
	}

	// a verification failure must not suppress the record: the transfer
	// outcome stands and the failed verification is recorded with it
	rec := status.NewRecord(result, r.policy, outcome, errorCount, recordPath)
	if err := rec.Write(r.cfg.StatusFile); err != nil {
		return nil, err
	}

	return rec, verifyErr
}

// runVerification applies whichever strategies the policy enables and
// folds their summaries together for the record.
func (r *Runner) runVerification(ctx context.Context, recordPath string) (verify.Outcome, int, error) {
	if !r.policy.ServerSide && !r.policy.LegacyVerify {
		return verify.NotRun, 0, nil
	}

	verifyCtx := ctx
	if r.cfg.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, r.cfg.VerifyTimeout)
		defer cancel()
	}

	total := verify.Summary{}

	if r.policy.ServerSide {
		summary, err := verify.Metadata(verifyCtx, r.client, r.policy.Algorithm, r.cfg.MaxConcurrency)
		if err != nil {
			return verify.Failed, total.Errors, err
		}
		total.Merge(summary)
	}

	if r.policy.LegacyVerify {
		if recordPath == "" {
			slog.Warn("legacy verification enabled but no checksum record available")
		} else {
			summary, err := verify.Legacy(verifyCtx, r.client, recordPath, "")
			if err != nil {
				return verify.Failed, total.Errors, err
			}
			total.Merge(summary)
		}
	}

	return total.Outcome(), total.Errors, nil
}
