package load

// Reason classifies why a row was rejected before reaching storage
type Reason int

const (
	// ReasonDuplicate means the row's identity already exists, either in
	// the store or earlier in the same run
	ReasonDuplicate Reason = iota

	// ReasonMissingReference means a referenced entity was not loaded in a
	// prior phase
	ReasonMissingReference

	// ReasonMalformed means the identity field or another mandatory field
	// was absent
	ReasonMalformed
)

func (r Reason) String() string {
	switch r {
	case ReasonDuplicate:
		return "duplicate"
	case ReasonMissingReference:
		return "missing-reference"
	case ReasonMalformed:
		return "malformed"
	}
	return "unknown"
}

// Stats holds the per-entity counters of one load phase. Rows are counted
// exactly once: loaded, one of the skip reasons, or part of a failed batch.
type Stats struct {
	Entity            string
	Processed         int64
	Loaded            int64
	SkippedDuplicate  int64
	SkippedMissingRef int64
	SkippedMalformed  int64
	SkippedBatch      int64 // rows in batches the storage layer rejected
}

func (s *Stats) skip(reason Reason) {
	switch reason {
	case ReasonDuplicate:
		s.SkippedDuplicate++
	case ReasonMissingReference:
		s.SkippedMissingRef++
	case ReasonMalformed:
		s.SkippedMalformed++
	}
}

// Skipped returns the total number of rows that did not persist
func (s *Stats) Skipped() int64 {
	return s.SkippedDuplicate + s.SkippedMissingRef + s.SkippedMalformed + s.SkippedBatch
}
