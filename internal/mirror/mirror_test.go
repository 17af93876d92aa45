package mirror_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/mirror"
	"github.com/studio1767/s3mirror/internal/s3io"
	"github.com/studio1767/s3mirror/internal/s3io/s3iotest"
)

func testPolicy() checksum.Policy {
	return checksum.Policy{
		Algorithm:  checksum.CRC64NVME,
		ServerSide: true,
	}
}

func TestRunUploadsEverything(t *testing.T) {
	// 10, 20 and 30 byte files
	root := writeTree(t, map[string]string{
		"a.txt":     "0123456789",
		"sub/b.txt": "01234567890123456789",
		"c.bin":     "012345678901234567890123456789",
	})
	client := s3iotest.New()

	m := mirror.New(client, root, testPolicy(), nil)
	result, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, result.FilesScanned)
	require.Equal(t, int64(60), result.SourceBytes)
	require.Equal(t, 3, result.Uploaded)
	require.Equal(t, 0, result.Failed)
	require.Equal(t, 3, result.DestinationCount)
	require.True(t, result.Succeeded())

	// the uploads carried the policy algorithm
	head, err := client.Head(context.Background(), "sub/b.txt")
	require.NoError(t, err)
	require.NotEmpty(t, head.ChecksumFor(checksum.CRC64NVME))
}

func TestRunIsIdempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": "aaaa",
		"b.txt": "bbbb",
	})
	client := s3iotest.New()

	m := mirror.New(client, root, testPolicy(), nil)

	first, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.Uploaded)

	second, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, second.Uploaded)
	require.Equal(t, 2, second.Unchanged)
	require.Equal(t, first.DestinationCount, second.DestinationCount)
}

func TestRunDeletesExtraneous(t *testing.T) {
	root := writeTree(t, map[string]string{
		"keep.txt": "kkkk",
	})
	client := s3iotest.New()

	// pre-existing object with no local counterpart
	_, err := client.Upload(context.Background(), "stale.txt", strings.NewReader("ssss"), checksum.None)
	require.NoError(t, err)

	m := mirror.New(client, root, testPolicy(), nil)
	result, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.Deleted)
	require.Equal(t, 1, result.DestinationCount)

	exists, err := client.Exists(context.Background(), "stale.txt")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRunDigestMismatchFailsRun(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.txt":     "good",
		"poisoned.txt": "bad bytes",
	})
	client := s3iotest.New()
	client.FailUploads["poisoned.txt"] = s3io.NewErrDigestMismatch("poisoned.txt", errors.New("BadDigest"))

	m := mirror.New(client, root, testPolicy(), nil)
	result, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.Failed)
	require.Equal(t, 1, result.DigestMismatches)
	require.False(t, result.Succeeded())
}

func TestRunMissingSource(t *testing.T) {
	client := s3iotest.New()

	m := mirror.New(client, filepath.Join(t.TempDir(), "missing"), testPolicy(), nil)
	_, err := m.Run(context.Background())

	var nosrc *mirror.ErrNoSourceDir
	require.True(t, errors.As(err, &nosrc))
}

func TestRunReuploadsModified(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": "before",
	})
	client := s3iotest.New()

	m := mirror.New(client, root, testPolicy(), nil)
	_, err := m.Run(context.Background())
	require.NoError(t, err)

	// grow the file so the size comparison flags it
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("after-longer"), 0644))

	result, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Uploaded)
}
