// Package monitor watches a hot folder and triggers a sync whenever
// its contents change. Detection is deliberately cheap: a poll-time
// snapshot of (latest mtime, file count). A file added and removed
// between two polls is invisible, and a touch is indistinguishable
// from a content change; both are accepted approximations.
package monitor

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/studio1767/s3mirror/internal/lockfile"
)

// Snapshot captures the state of the watched directory at one poll.
type Snapshot struct {
	LatestMTime int64
	FileCount   int
}

func (s Snapshot) Equal(other Snapshot) bool {
	return s.LatestMTime == other.LatestMTime && s.FileCount == other.FileCount
}

// TakeSnapshot walks the directory counting regular files and keeping
// the newest modification time seen.
func TakeSnapshot(dir string) (Snapshot, error) {
	var snap Snapshot

	err := filepath.WalkDir(dir, func(fpath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}

		snap.FileCount++
		if mtime := info.ModTime().Unix(); mtime > snap.LatestMTime {
			snap.LatestMTime = mtime
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// TriggerFunc runs one sync. It must acquire the shared lock itself
// and return lockfile.ErrLocked when a run is already in flight.
type TriggerFunc func(ctx context.Context) error

type Monitor struct {
	sourceDir string
	interval  time.Duration
	lock      *lockfile.Lock
	trigger   TriggerFunc
}

func New(sourceDir string, interval time.Duration, lock *lockfile.Lock, trigger TriggerFunc) *Monitor {
	return &Monitor{
		sourceDir: sourceDir,
		interval:  interval,
		lock:      lock,
		trigger:   trigger,
	}
}

// Run polls until the context is cancelled; there is no other way out.
// The trigger blocks the loop, so the interval is a minimum gap
// between checks, not a fixed cadence.
func (m *Monitor) Run(ctx context.Context) error {
	previous, err := TakeSnapshot(m.sourceDir)
	if err != nil {
		return err
	}

	slog.Info("watching for changes",
		"dir", m.sourceDir,
		"interval", m.interval,
		"files", previous.FileCount)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopping")
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := TakeSnapshot(m.sourceDir)
		if err != nil {
			slog.Error("snapshot failed, skipping cycle", "error", err)
			continue
		}

		if current.Equal(previous) {
			continue
		}

		slog.Info("change detected",
			"files", current.FileCount,
			"previous_files", previous.FileCount)

		if err := m.trigger(ctx); err != nil {
			if errors.Is(err, lockfile.ErrLocked) {
				// leave the previous snapshot in place so the change
				// is picked up again next cycle
				pid, alive := m.lock.Owner()
				slog.Warn("sync already in progress, skipping cycle",
					"owner_pid", pid, "owner_alive", alive)
				continue
			}
			slog.Error("triggered sync failed", "error", err)
		}

		previous = current
	}
}
