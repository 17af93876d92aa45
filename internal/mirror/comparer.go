package mirror

import (
	"context"
)

// NewComparer merges the local stream with the remote stream. Both
// streams must be ordered by RelPath. Each output entry carries the
// status the downstream operators act on: local-only entries are New,
// remote-only entries are Extraneous, and entries on both sides are
// Modified when the sizes differ or the local file was modified after
// the object was uploaded, else Ok.
//
// Like the transfer tooling this replaces, a file touched without a
// content change is indistinguishable from a real change and will be
// re-uploaded.
func NewComparer(ctx context.Context, inLocal <-chan *EntryInfo, inRemote <-chan *EntryInfo) <-chan *EntryInfo {
	out := make(chan *EntryInfo, 10)
	cp := comparer{
		ctx:      ctx,
		inLocal:  inLocal,
		inRemote: inRemote,
		out:      out,
	}
	go cp.run()

	return out
}

type comparer struct {
	ctx      context.Context
	inLocal  <-chan *EntryInfo
	inRemote <-chan *EntryInfo
	out      chan<- *EntryInfo
}

// send forwards an entry downstream unless the run has been cancelled.
// A downstream operator that has already exited stops receiving, so an
// unguarded send would block forever.
func (cp *comparer) send(info *EntryInfo) bool {
	select {
	case <-cp.ctx.Done():
		return false
	case cp.out <- info:
		return true
	}
}

func (cp *comparer) run() {
	defer close(cp.out)

	var hLocal *EntryInfo
	var hRemote *EntryInfo

	for {
		select {
		case <-cp.ctx.Done():
			return
		default:
		}

		// refill the heads
		if hLocal == nil {
			if info, ok := <-cp.inLocal; ok {
				if info.Action != NoAction {
					if !cp.send(info) {
						return
					}
					continue
				}
				hLocal = info
			}
		}
		if hRemote == nil {
			if info, ok := <-cp.inRemote; ok {
				if info.Action != NoAction {
					if !cp.send(info) {
						return
					}
					continue
				}
				hRemote = info
			}
		}

		// both streams finished: all done
		if hLocal == nil && hRemote == nil {
			break
		}

		// remote finished but not local: a new file
		if hLocal != nil && hRemote == nil {
			hLocal.Status = StatusNew
			if !cp.send(hLocal) {
				return
			}
			hLocal = nil
			continue
		}

		// local finished but not remote: an extraneous object
		if hLocal == nil && hRemote != nil {
			hRemote.Status = StatusExtraneous
			if !cp.send(hRemote) {
				return
			}
			hRemote = nil
			continue
		}

		// local is behind remote: a new file
		if hLocal.RelPath < hRemote.RelPath {
			hLocal.Status = StatusNew
			if !cp.send(hLocal) {
				return
			}
			hLocal = nil
			continue
		}

		// local is ahead of remote: an extraneous object
		if hLocal.RelPath > hRemote.RelPath {
			hRemote.Status = StatusExtraneous
			if !cp.send(hRemote) {
				return
			}
			hRemote = nil
			continue
		}

		// same path on both sides: compare the attributes
		hLocal.Status = StatusOk
		if hLocal.Size != hRemote.Size || hLocal.ModTime > hRemote.ModTime {
			hLocal.Status = StatusModified
		}
		if !cp.send(hLocal) {
			return
		}

		// consume both heads
		hLocal = nil
		hRemote = nil
	}
}
