package mirror

import (
	"context"
	"fmt"

	"github.com/studio1767/s3mirror/internal/s3io"
)

// NewDeleter removes extraneous objects so the destination ends up
// holding exactly the source's file set.
func NewDeleter(ctx context.Context, in <-chan *EntryInfo, client s3io.Client) <-chan *EntryInfo {
	out := make(chan *EntryInfo, 10)
	dl := deleter{
		ctx:    ctx,
		in:     in,
		out:    out,
		client: client,
	}
	go dl.run()

	return out
}

type deleter struct {
	ctx    context.Context
	in     <-chan *EntryInfo
	out    chan<- *EntryInfo
	client s3io.Client
}

func (dl *deleter) run() {
	defer close(dl.out)

	for {
		select {
		case <-dl.ctx.Done():
			return
		case info, ok := <-dl.in:
			if !ok {
				return
			}
			dl.process(info)
		}
	}
}

// send forwards an entry downstream unless the run has been cancelled.
func (dl *deleter) send(info *EntryInfo) {
	select {
	case <-dl.ctx.Done():
	case dl.out <- info:
	}
}

func (dl *deleter) process(info *EntryInfo) {
	if info.Action == Failed {
		dl.send(info)
		return
	}

	if info.Status == StatusExtraneous {
		if err := dl.client.Delete(dl.ctx, info.RelPath); err != nil {
			info.Action = Failed
			info.ActionMessage = fmt.Sprintf("failed to delete %s: %v", info.RelPath, err)
		} else {
			info.Action = Deleted
		}
	}

	dl.send(info)
}
