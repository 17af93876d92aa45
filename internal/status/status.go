// Package status persists the record of the last sync run. The record
// is a single JSON document overwritten on every run; history lives in
// the logs, not here.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/mirror"
	"github.com/studio1767/s3mirror/internal/verify"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Verification struct {
	Enabled        bool    `json:"enabled"`
	Algorithm      string  `json:"algorithm"`
	ServerSide     bool    `json:"server_side_checksums_used"`
	LegacyVerify   bool    `json:"legacy_verify_enabled"`
	Verified       string  `json:"verified"`
	ChecksumRecord *string `json:"checksum_record"`
	Errors         int     `json:"errors"`
}

type Record struct {
	Timestamp        string       `json:"timestamp"`
	DurationSeconds  int64        `json:"duration_seconds"`
	FilesSynced      int          `json:"files_synced"`
	SourceSize       string       `json:"source_size"`
	DestinationCount int          `json:"destination_object_count"`
	Status           string       `json:"status"`
	Verification     Verification `json:"checksum_verification"`
}

// NewRecord assembles the record for a completed run. outcome is
// NotRun when no verification strategy applied; recordPath is "" when
// no checksum record was written.
func NewRecord(result *mirror.Result, policy checksum.Policy, outcome verify.Outcome, errorCount int, recordPath string) *Record {
	rec := Record{
		Timestamp:        result.Start.UTC().Format(time.RFC3339),
		DurationSeconds:  int64(result.Duration().Seconds()),
		FilesSynced:      result.FilesScanned,
		SourceSize:       humanize.IBytes(uint64(result.SourceBytes)),
		DestinationCount: result.DestinationCount,
		Status:           StatusSuccess,
		Verification: Verification{
			Enabled:      policy.ServerSide || policy.LegacyVerify,
			Algorithm:    policy.Algorithm.String(),
			ServerSide:   policy.ServerSide,
			LegacyVerify: policy.LegacyVerify,
			Verified:     string(outcome),
			Errors:       errorCount,
		},
	}

	if !result.Succeeded() {
		rec.Status = StatusFailed
	}
	if recordPath != "" {
		rec.Verification.ChecksumRecord = &recordPath
	}

	return &rec
}

// Succeeded applies the precedence rule for the process exit code:
// the run only counts as a success when the transfer succeeded and,
// if verification was enabled, everything verified cleanly.
func (rec *Record) Succeeded() bool {
	if rec.Status != StatusSuccess {
		return false
	}
	if rec.Verification.Enabled {
		return rec.Verification.Verified == string(verify.Verified)
	}
	return true
}

// Write persists the record with a temp-file rename so a concurrent
// reader never sees a torn document.
func (rec *Record) Write(path string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".status-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Load reads the last-run record for status reporting.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no sync status available: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("status file is corrupt: %w", err)
	}

	return &rec, nil
}
