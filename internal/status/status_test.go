package status_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/mirror"
	"github.com/studio1767/s3mirror/internal/status"
	"github.com/studio1767/s3mirror/internal/verify"
)

func sampleResult() *mirror.Result {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return &mirror.Result{
		Start:            start,
		End:              start.Add(42 * time.Second),
		FilesScanned:     3,
		SourceBytes:      60,
		Uploaded:         3,
		DestinationCount: 3,
	}
}

func serverSidePolicy() checksum.Policy {
	return checksum.Policy{Algorithm: checksum.CRC64NVME, ServerSide: true}
}

func TestNewRecordSuccess(t *testing.T) {
	rec := status.NewRecord(sampleResult(), serverSidePolicy(), verify.Verified, 0, "")

	require.Equal(t, "2026-03-14T09:26:53Z", rec.Timestamp)
	require.Equal(t, int64(42), rec.DurationSeconds)
	require.Equal(t, 3, rec.FilesSynced)
	require.Equal(t, "60 B", rec.SourceSize)
	require.Equal(t, 3, rec.DestinationCount)
	require.Equal(t, status.StatusSuccess, rec.Status)
	require.True(t, rec.Verification.Enabled)
	require.Equal(t, "CRC64NVME", rec.Verification.Algorithm)
	require.Equal(t, "true", rec.Verification.Verified)
	require.Nil(t, rec.Verification.ChecksumRecord)
	require.True(t, rec.Succeeded())
}

func TestNewRecordTransferFailure(t *testing.T) {
	result := sampleResult()
	result.Failed = 1

	rec := status.NewRecord(result, serverSidePolicy(), verify.Verified, 0, "")

	require.Equal(t, status.StatusFailed, rec.Status)
	require.False(t, rec.Succeeded())
}

func TestPrecedenceVerificationFailureFailsRun(t *testing.T) {
	// transfer fine, verification not: status stays success but the
	// overall outcome is a failure
	rec := status.NewRecord(sampleResult(), serverSidePolicy(), verify.Failed, 2, "")

	require.Equal(t, status.StatusSuccess, rec.Status)
	require.Equal(t, "failed", rec.Verification.Verified)
	require.Equal(t, 2, rec.Verification.Errors)
	require.False(t, rec.Succeeded())
}

func TestPrecedencePartialFailsRun(t *testing.T) {
	rec := status.NewRecord(sampleResult(), serverSidePolicy(), verify.Partial, 0, "")
	require.False(t, rec.Succeeded())
}

func TestVerificationDisabled(t *testing.T) {
	policy := checksum.Policy{Algorithm: checksum.None}
	rec := status.NewRecord(sampleResult(), policy, verify.NotRun, 0, "")

	require.False(t, rec.Verification.Enabled)
	require.Equal(t, "false", rec.Verification.Verified)
	require.Equal(t, "NONE", rec.Verification.Algorithm)
	require.True(t, rec.Succeeded())
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status", "last-sync-status.json")

	recordPath := "/var/lib/s3mirror/checksums-20260314-092653.sha256"
	rec := status.NewRecord(sampleResult(), checksum.Policy{
		Algorithm:    checksum.SHA256,
		ServerSide:   true,
		LegacyVerify: true,
	}, verify.Partial, 0, recordPath)

	require.NoError(t, rec.Write(path))

	// overwrite, don't append
	require.NoError(t, rec.Write(path))

	loaded, err := status.Load(path)
	require.NoError(t, err)
	require.Equal(t, rec, loaded)
	require.NotNil(t, loaded.Verification.ChecksumRecord)
	require.Equal(t, recordPath, *loaded.Verification.ChecksumRecord)

	// no stray temp files from the atomic write
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLoadMissingOrCorrupt(t *testing.T) {
	_, err := status.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = status.Load(path)
	require.Error(t, err)
}

func TestRecordFieldNames(t *testing.T) {
	rec := status.NewRecord(sampleResult(), serverSidePolicy(), verify.Verified, 0, "")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"timestamp", "duration_seconds", "files_synced", "source_size",
		"destination_object_count", "status", "checksum_verification",
	} {
		require.Contains(t, raw, key)
	}

	cv := raw["checksum_verification"].(map[string]any)
	for _, key := range []string{
		"enabled", "algorithm", "server_side_checksums_used",
		"legacy_verify_enabled", "verified", "checksum_record", "errors",
	} {
		require.Contains(t, cv, key)
	}
}
