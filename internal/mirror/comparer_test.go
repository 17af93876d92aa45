package mirror_test

import (
	"context"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/mirror"
)

func feed(entries ...*mirror.EntryInfo) <-chan *mirror.EntryInfo {
	ch := make(chan *mirror.EntryInfo, len(entries))
	for _, e := range entries {
		ch <- e
	}
	close(ch)
	return ch
}

func collect(ch <-chan *mirror.EntryInfo) map[string]*mirror.EntryInfo {
	got := make(map[string]*mirror.EntryInfo)
	for e := range ch {
		got[e.RelPath] = e
	}
	return got
}

func TestComparerClassification(t *testing.T) {
	local := feed(
		&mirror.EntryInfo{RelPath: "changed.txt", Size: 20, ModTime: 100},
		&mirror.EntryInfo{RelPath: "new.txt", Size: 5, ModTime: 100},
		&mirror.EntryInfo{RelPath: "same.txt", Size: 10, ModTime: 100},
		&mirror.EntryInfo{RelPath: "touched.txt", Size: 10, ModTime: 300},
	)
	remote := feed(
		&mirror.EntryInfo{RelPath: "changed.txt", Size: 15, ModTime: 200},
		&mirror.EntryInfo{RelPath: "gone.txt", Size: 7, ModTime: 200},
		&mirror.EntryInfo{RelPath: "same.txt", Size: 10, ModTime: 200},
		&mirror.EntryInfo{RelPath: "touched.txt", Size: 10, ModTime: 200},
	)

	got := collect(mirror.NewComparer(context.Background(), local, remote))

	require.Len(t, got, 5)
	require.Equal(t, mirror.StatusModified, got["changed.txt"].Status)
	require.Equal(t, mirror.StatusNew, got["new.txt"].Status)
	require.Equal(t, mirror.StatusOk, got["same.txt"].Status)
	require.Equal(t, mirror.StatusModified, got["touched.txt"].Status)
	require.Equal(t, mirror.StatusExtraneous, got["gone.txt"].Status)
}

func TestComparerEmptyRemote(t *testing.T) {
	local := feed(
		&mirror.EntryInfo{RelPath: "a.txt", Size: 1},
		&mirror.EntryInfo{RelPath: "b.txt", Size: 2},
	)

	got := collect(mirror.NewComparer(context.Background(), local, feed()))

	require.Len(t, got, 2)
	require.Equal(t, mirror.StatusNew, got["a.txt"].Status)
	require.Equal(t, mirror.StatusNew, got["b.txt"].Status)
}

func TestComparerEmptyLocal(t *testing.T) {
	remote := feed(
		&mirror.EntryInfo{RelPath: "a.txt", Size: 1},
	)

	got := collect(mirror.NewComparer(context.Background(), feed(), remote))

	require.Len(t, got, 1)
	require.Equal(t, mirror.StatusExtraneous, got["a.txt"].Status)
}
