// Package lockfile serializes sync runs with an advisory file lock.
// The monitor and manual invocations take the same lock, so a run can
// never overlap another regardless of how it was started. The OS
// releases the flock if the holder crashes; the PID written into the
// file is diagnostic, letting a blocked caller report who holds it.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/shirou/gopsutil/v4/process"
)

var ErrLocked = errors.New("another sync is already running")

type Lock struct {
	flock *flock.Flock
}

func New(path string) *Lock {
	return &Lock{
		flock: flock.New(path),
	}
}

// TryAcquire takes the lock without blocking. ErrLocked means another
// process holds it.
func (l *Lock) TryAcquire() error {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.flock.Path(), err)
	}
	if !locked {
		return ErrLocked
	}

	// owner pid for diagnostics only; the flock is the real guard
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(l.flock.Path(), []byte(pid+"\n"), 0644); err != nil {
		l.flock.Unlock()
		return err
	}

	return nil
}

// Release drops the lock and removes the file.
func (l *Lock) Release() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return err
	}
	return os.Remove(l.flock.Path())
}

// Owner reports the PID recorded in the lock file and whether that
// process is still alive. Useful when TryAcquire returns ErrLocked: a
// dead owner with a held flock should be impossible, so alive=false
// alongside ErrLocked points at a stale file on a filesystem without
// flock support.
func (l *Lock) Owner() (int, bool) {
	data, err := os.ReadFile(l.flock.Path())
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	alive, err := process.PidExists(int32(pid))
	if err != nil {
		return pid, false
	}
	return pid, alive
}

func (l *Lock) Path() string {
	return l.flock.Path()
}
