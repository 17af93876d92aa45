package checksum

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RecordEntry is one line of a checksum record: the sha256 digest of a
// file and its path relative to the source root.
type RecordEntry struct {
	Digest  string
	RelPath string
}

const sha256HexLen = 64

// HashFile computes the sha256 digest of a file as lowercase hex.
func HashFile(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	h := sha256.New()
	if _, err := io.Copy(h, in); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteRecord walks the source tree, hashes every regular file and
// writes a timestamped record file under recordDir. The format is one
// line per file, "<digest>  <relpath>", compatible with sha256sum -c.
// Old records are left in place; nothing prunes them.
func WriteRecord(ctx context.Context, sourceDir, recordDir string) (string, int, error) {
	if err := os.MkdirAll(recordDir, 0755); err != nil {
		return "", 0, err
	}

	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(recordDir, fmt.Sprintf("checksums-%s.sha256", stamp))

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	count := 0
	err = filepath.WalkDir(sourceDir, func(fpath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		digest, err := HashFile(fpath)
		if err != nil {
			return err
		}

		rpath, err := filepath.Rel(sourceDir, fpath)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "%s  %s\n", digest, filepath.ToSlash(rpath)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}

	if err := w.Flush(); err != nil {
		os.Remove(path)
		return "", 0, err
	}

	return path, count, nil
}

// ReadRecord parses a checksum record file. Lines that don't look like
// a record entry are skipped rather than failing the whole read.
func ReadRecord(path string) ([]RecordEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []RecordEntry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		digest, rpath, ok := strings.Cut(line, "  ")
		if !ok || len(digest) != sha256HexLen || rpath == "" {
			continue
		}
		if _, err := hex.DecodeString(digest); err != nil {
			continue
		}

		entries = append(entries, RecordEntry{
			Digest:  strings.ToLower(digest),
			RelPath: rpath,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

type ErrNoRecord struct {
	dir string
}

func (e *ErrNoRecord) Error() string {
	return fmt.Sprintf("no checksum record found under %s", e.dir)
}

// LatestRecord returns the newest record file in recordDir. Record
// names embed their timestamp so lexical order is creation order.
func LatestRecord(recordDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(recordDir, "checksums-*.sha256"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", &ErrNoRecord{dir: recordDir}
	}

	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, nil
}
