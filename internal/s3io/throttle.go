package s3io

import (
	"io"
	"time"
)

// throttleReader caps the rate at which bytes can be pulled from the
// underlying reader. The sdk has no client-side bandwidth control, so
// the cap is applied to the stream feeding the uploader instead: reads
// are accounted against a bytes-per-second budget and sleep off any
// overdraft before returning.
type throttleReader struct {
	in       io.Reader
	rate     int64
	start    time.Time
	consumed int64
}

func newThrottleReader(in io.Reader, bytesPerSec int64) io.Reader {
	return &throttleReader{
		in:   in,
		rate: bytesPerSec,
	}
}

func (tr *throttleReader) Read(p []byte) (int, error) {
	if tr.start.IsZero() {
		tr.start = time.Now()
	}

	// keep individual reads small so pauses stay short
	if int64(len(p)) > tr.rate {
		p = p[:tr.rate]
	}

	n, err := tr.in.Read(p)
	tr.consumed += int64(n)

	// how long the bytes consumed so far should have taken
	due := time.Duration(float64(tr.consumed) / float64(tr.rate) * float64(time.Second))
	if elapsed := time.Since(tr.start); elapsed < due {
		time.Sleep(due - elapsed)
	}

	return n, err
}
