// Package verify checks that mirrored objects hold the bytes they are
// supposed to. The metadata strategy asks the service for the
// checksums it stored at upload time and never transfers content; the
// legacy strategy re-downloads every object and hashes it locally
// against a pre-upload checksum record.
package verify

// Outcome is the aggregate verification result recorded in the status
// file. The values are the literal strings the record uses.
type Outcome string

const (
	Verified Outcome = "true"    // every object checked out
	Partial  Outcome = "partial" // some objects had no stored checksum
	Failed   Outcome = "failed"  // at least one mismatch or request error
	NotRun   Outcome = "false"   // verification did not run
)

// Summary tallies one verification pass. Missing counts objects the
// service holds no checksum for (for example, ones that predate
// checksum adoption); Errors counts mismatches and request failures.
type Summary struct {
	Checked  int
	Verified int
	Missing  int
	Errors   int
}

// Outcome derives the aggregate result: any error makes the whole pass
// failed regardless of how many objects were fine; missing checksums
// without errors are only a partial verification.
func (s *Summary) Outcome() Outcome {
	switch {
	case s.Errors > 0:
		return Failed
	case s.Missing > 0:
		return Partial
	default:
		return Verified
	}
}

// Merge folds another pass into this one, for runs that use both
// strategies during a migration window.
func (s *Summary) Merge(other *Summary) {
	s.Checked += other.Checked
	s.Verified += other.Verified
	s.Missing += other.Missing
	s.Errors += other.Errors
}
