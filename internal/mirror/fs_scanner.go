package mirror

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
)

// NewFsScanner walks the source tree and emits one EntryInfo per
// regular file. Entries are emitted in object-key order (lexical on
// the slash-separated relative path) so the comparer can merge this
// stream with the bucket listing without buffering either side.
func NewFsScanner(ctx context.Context, source string) <-chan *EntryInfo {
	out := make(chan *EntryInfo, 10)

	go func() {
		defer close(out)

		var entries []*EntryInfo

		filepath.WalkDir(source, func(fpath string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !entry.Type().IsRegular() {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				return nil
			}

			rpath, err := filepath.Rel(source, fpath)
			if err != nil {
				return nil
			}

			entries = append(entries, &EntryInfo{
				Status:  StatusNew,
				RelPath: filepath.ToSlash(rpath),
				Size:    info.Size(),
				ModTime: info.ModTime().Unix(),
				Action:  NoAction,
			})
			return nil
		})

		// directory walk order is not key order ("a.txt" sorts before
		// "a/b" as keys but after it in the walk), so sort before
		// emitting
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].RelPath < entries[j].RelPath
		})

		for _, info := range entries {
			select {
			case <-ctx.Done():
				return
			case out <- info:
			}
		}
	}()

	return out
}
