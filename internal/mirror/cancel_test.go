package mirror_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/mirror"
	"github.com/studio1767/s3mirror/internal/s3io/s3iotest"
)

// stuckUploadClient blocks every upload until the context is cancelled,
// simulating a transfer that outlives the run deadline.
type stuckUploadClient struct {
	*s3iotest.FakeClient
}

func (c *stuckUploadClient) Upload(ctx context.Context, relpath string, source io.Reader, algo checksum.Algorithm) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestRunCancellationStopsOperators(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		fpath := filepath.Join(dir, fmt.Sprintf("file-%02d.txt", i))
		require.NoError(t, os.WriteFile(fpath, []byte("data"), 0644))
	}

	client := &stuckUploadClient{FakeClient: s3iotest.New()}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	m := mirror.New(client, dir, checksum.Policy{}, []string{".tmp"})
	_, err := m.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// every operator goroutine has to wind down once the run is over,
	// even the ones that were mid-send when the deadline fired
	deadline := time.Now().Add(2 * time.Second)
	for operatorGoroutines() > 0 {
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 0, operatorGoroutines())
}

// operatorGoroutines counts live goroutines running pipeline operator
// code by scanning the full stack dump for frames in this package.
func operatorGoroutines() int {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)

	count := 0
	for _, line := range strings.Split(string(buf[:n]), "\n") {
		if strings.Contains(line, "internal/mirror.") {
			count++
		}
	}
	return count
}
