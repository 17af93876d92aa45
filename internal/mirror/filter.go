package mirror

import (
	"context"
	"strings"
)

// NewExtensionFilter drops local entries whose file extension is in
// the exclude list. Matching is case-insensitive and extensions are
// normalized to start with a '.'.
func NewExtensionFilter(ctx context.Context, in <-chan *EntryInfo, extensions []string) <-chan *EntryInfo {
	var ext []string
	for _, extension := range extensions {
		if len(extension) == 0 {
			continue
		}
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		ext = append(ext, strings.ToLower(extension))
	}

	out := make(chan *EntryInfo, 10)
	filter := extensionFilter{
		ctx:        ctx,
		in:         in,
		out:        out,
		extensions: ext,
	}
	go filter.run()

	return out
}

type extensionFilter struct {
	ctx        context.Context
	in         <-chan *EntryInfo
	out        chan<- *EntryInfo
	extensions []string
}

func (filter *extensionFilter) run() {
	defer close(filter.out)

	for {
		select {
		case <-filter.ctx.Done():
			return
		case info, ok := <-filter.in:
			if !ok {
				return
			}
			filter.process(info)
		}
	}
}

// send forwards an entry downstream unless the run has been cancelled.
func (filter *extensionFilter) send(info *EntryInfo) {
	select {
	case <-filter.ctx.Done():
	case filter.out <- info:
	}
}

func (filter *extensionFilter) process(info *EntryInfo) {
	// pass on failure information
	if info.Action == Failed {
		filter.send(info)
		return
	}

	rpath := strings.ToLower(info.RelPath)
	for _, ext := range filter.extensions {
		if strings.HasSuffix(rpath, ext) {
			return
		}
	}

	filter.send(info)
}
