package mirror

// EntryStatus classifies a path after comparing the local tree against
// the bucket listing.
type EntryStatus int

const (
	StatusOk         EntryStatus = iota // present on both sides, unchanged
	StatusNew                           // local only
	StatusModified                      // present on both sides, content differs
	StatusExtraneous                    // remote only: mirror semantics delete it
)

// EntryAction records what an operator did with the entry.
type EntryAction int

const (
	NoAction EntryAction = iota
	Uploaded
	Deleted
	Failed
)

// EntryInfo flows through the pipeline. Each operator inspects the
// status and action to decide whether its operation applies.
type EntryInfo struct {
	Status        EntryStatus
	RelPath       string
	Size          int64
	ModTime       int64
	Action        EntryAction
	ActionMessage string
	UploadedSize  int64

	// the service rejected the upload because its computed checksum
	// did not match the declared one
	DigestMismatch bool
}
