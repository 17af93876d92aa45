package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/s3io"
)

// NewUploader uploads new and modified entries under their relative
// path, attaching the policy's checksum algorithm so the service
// computes and stores a checksum during the transfer. A digest
// rejection is flagged on the entry as well as failing it: corruption
// in transit has to fail the whole run, not just the file.
func NewUploader(ctx context.Context, in <-chan *EntryInfo, client s3io.Client, root string, policy checksum.Policy) <-chan *EntryInfo {
	out := make(chan *EntryInfo, 10)
	ul := uploader{
		ctx:    ctx,
		in:     in,
		out:    out,
		client: client,
		root:   root,
		policy: policy,
	}
	go ul.run()

	return out
}

type uploader struct {
	ctx    context.Context
	in     <-chan *EntryInfo
	out    chan<- *EntryInfo
	client s3io.Client
	root   string
	policy checksum.Policy
}

func (ul *uploader) run() {
	defer close(ul.out)

	for {
		select {
		case <-ul.ctx.Done():
			return
		case info, ok := <-ul.in:
			if !ok {
				return
			}
			ul.process(info)
		}
	}
}

// send forwards an entry downstream unless the run has been cancelled.
func (ul *uploader) send(info *EntryInfo) {
	select {
	case <-ul.ctx.Done():
	case ul.out <- info:
	}
}

func (ul *uploader) process(info *EntryInfo) {
	// check the status first
	if info.Action == Failed {
		ul.send(info)
		return
	}

	if info.Status == StatusModified || info.Status == StatusNew {
		fpath := filepath.Join(ul.root, filepath.FromSlash(info.RelPath))
		file, err := os.Open(fpath)
		if err != nil {
			info.Action = Failed
			info.ActionMessage = fmt.Sprintf("failed to open %s", fpath)
			ul.send(info)
			return
		}
		defer file.Close()

		algo := checksum.None
		if ul.policy.ServerSide {
			algo = ul.policy.Algorithm
		}

		nbytes, err := ul.client.Upload(ul.ctx, info.RelPath, file, algo)
		if err != nil {
			info.Action = Failed
			info.ActionMessage = fmt.Sprintf("failed to upload %s: %v", info.RelPath, err)
			info.DigestMismatch = s3io.IsDigestMismatch(err)
		} else {
			info.Action = Uploaded
			info.UploadedSize = nbytes
		}
	}

	ul.send(info)
}
