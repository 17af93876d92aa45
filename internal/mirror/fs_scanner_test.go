package mirror_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/mirror"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rpath, content := range files {
		fpath := filepath.Join(root, filepath.FromSlash(rpath))
		require.NoError(t, os.MkdirAll(filepath.Dir(fpath), 0755))
		require.NoError(t, os.WriteFile(fpath, []byte(content), 0644))
	}
	return root
}

func TestFsScannerEmitsInKeyOrder(t *testing.T) {
	// "a.txt" walks after the "a" directory but sorts before "a/b" as
	// an object key; the scanner must emit key order
	root := writeTree(t, map[string]string{
		"a/b.txt": "inside",
		"a.txt":   "outside",
		"z.txt":   "last",
	})

	var order []string
	for e := range mirror.NewFsScanner(context.Background(), root) {
		order = append(order, e.RelPath)
		require.Equal(t, mirror.StatusNew, e.Status)
	}

	require.Equal(t, []string{"a.txt", "a/b.txt", "z.txt"}, order)
}

func TestFsScannerSizesAndCancellation(t *testing.T) {
	root := writeTree(t, map[string]string{
		"one.txt": "0123456789",
		"two.txt": "01234567890123456789",
	})

	sizes := make(map[string]int64)
	for e := range mirror.NewFsScanner(context.Background(), root) {
		sizes[e.RelPath] = e.Size
	}
	require.Equal(t, int64(10), sizes["one.txt"])
	require.Equal(t, int64(20), sizes["two.txt"])

	// a cancelled context drains quickly without emitting everything
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	count := 0
	for range mirror.NewFsScanner(ctx, root) {
		count++
	}
	require.LessOrEqual(t, count, 2)
}
