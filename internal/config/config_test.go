package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "s3mirror.conf")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	return path
}

func TestLoadDefaults(t *testing.T) {
	src := t.TempDir()
	path := writeConfig(t, "SOURCE_DIR="+src+"\nS3_BUCKET=my-bucket\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, src, cfg.SourceDir)
	require.Equal(t, "my-bucket", cfg.Bucket)
	require.Equal(t, "default", cfg.Profile)
	require.True(t, cfg.ChecksumEnabled)
	require.False(t, cfg.ChecksumStrict)
	require.False(t, cfg.VerifyAfterUpload)
	require.Equal(t, 30*time.Second, cfg.MonitorInterval)
	require.Equal(t, 10, cfg.MaxConcurrency)
	require.NoError(t, cfg.CheckSource())
}

func TestLoadFullConfig(t *testing.T) {
	src := t.TempDir()
	path := writeConfig(t, `SOURCE_DIR=`+src+`
S3_BUCKET=my-bucket
S3_PREFIX=/backups/daily/
AWS_PROFILE=sync
AWS_REGION=eu-west-1
ENABLE_CHECKSUM=true
CHECKSUM_ALGORITHM=SHA256
CHECKSUM_STRICT=true
VERIFY_AFTER_UPLOAD=true
MONITOR_INTERVAL=5
MAX_CONCURRENT_REQUESTS=4
MULTIPART_CHUNKSIZE=8388608
MAX_BANDWIDTH=1048576
EXCLUDE_EXTENSIONS=.tmp, .swp
SYNC_TIMEOUT=600
VERIFY_TIMEOUT=120
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "backups/daily", cfg.Prefix)
	require.Equal(t, "my-bucket/backups/daily", cfg.Destination())
	require.Equal(t, "sync", cfg.Profile)
	require.Equal(t, "SHA256", cfg.ChecksumAlgorithm)
	require.True(t, cfg.ChecksumStrict)
	require.True(t, cfg.VerifyAfterUpload)
	require.Equal(t, 5*time.Second, cfg.MonitorInterval)
	require.Equal(t, 4, cfg.MaxConcurrency)
	require.Equal(t, int64(8388608), cfg.PartSize)
	require.Equal(t, int64(1048576), cfg.MaxBandwidth)
	require.Equal(t, []string{".tmp", ".swp"}, cfg.ExcludeExtensions)
	require.Equal(t, 10*time.Minute, cfg.SyncTimeout)
	require.Equal(t, 2*time.Minute, cfg.VerifyTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.conf"))

	var nofile *config.ErrNoConfigFile
	require.True(t, errors.As(err, &nofile))
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	path := writeConfig(t, "S3_BUCKET=my-bucket\n")
	_, err := config.Load(path)

	var missing *config.ErrMissingKey
	require.True(t, errors.As(err, &missing))

	path = writeConfig(t, "SOURCE_DIR=/data\n")
	_, err = config.Load(path)
	require.True(t, errors.As(err, &missing))
}

func TestLoadBadValues(t *testing.T) {
	src := t.TempDir()

	var bad *config.ErrBadValue

	path := writeConfig(t, "SOURCE_DIR="+src+"\nS3_BUCKET=b\nENABLE_CHECKSUM=maybe\n")
	_, err := config.Load(path)
	require.True(t, errors.As(err, &bad))

	path = writeConfig(t, "SOURCE_DIR="+src+"\nS3_BUCKET=b\nMONITOR_INTERVAL=-3\n")
	_, err = config.Load(path)
	require.True(t, errors.As(err, &bad))
}

func TestCheckSourceMissing(t *testing.T) {
	path := writeConfig(t, "SOURCE_DIR=/no/such/dir\nS3_BUCKET=b\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	var bad *config.ErrBadValue
	require.True(t, errors.As(cfg.CheckSource(), &bad))
}
