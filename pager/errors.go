package pager

import (
	"errors"
	"fmt"

	"github.com/tfsdev/tfs/cluster"
)

// ErrOutOfClusters is returned when the freelist is exhausted and no chain
// continuation exists (spec.md §4.3, §7).
var ErrOutOfClusters = errors.New("pager: out of clusters")

// ChecksumMismatchError reports a stored-vs-computed checksum disagreement
// on a state block, metacluster, or data cluster.
type ChecksumMismatchError struct {
	// Cluster is the zero Pointer when the mismatch was found in the
	// volume-level state block rather than a specific cluster.
	Cluster  cluster.Pointer
	Expected uint64
	Found    uint64
}

func (e *ChecksumMismatchError) Error() string {
	if e.Cluster.IsNull() {
		return fmt.Sprintf("pager: checksum mismatch in state block: expected %x, found %x", e.Expected, e.Found)
	}
	return fmt.Sprintf("pager: checksum mismatch in %s: expected %x, found %x", e.Cluster, e.Expected, e.Found)
}

// InvalidCompressionError reports a cluster whose decoded contents fail to
// decompress under the volume's configured algorithm.
type InvalidCompressionError struct {
	Cluster cluster.Pointer
	Err     error
}

func (e *InvalidCompressionError) Error() string {
	return fmt.Sprintf("pager: invalid compression in %s: %v", e.Cluster, e.Err)
}

func (e *InvalidCompressionError) Unwrap() error { return e.Err }

// UnknownCompressionAlgorithmError reports a compression tag with the
// reserved-extension bit set (spec.md §4.2, §9): a forward-compatible image
// this build does not yet understand.
type UnknownCompressionAlgorithmError struct {
	Tag uint16
}

func (e *UnknownCompressionAlgorithmError) Error() string {
	return fmt.Sprintf("pager: unknown (reserved) compression algorithm tag %d", e.Tag)
}

// InvalidCompressionAlgorithmError reports a compression tag that is
// neither a known algorithm nor in the reserved-extension range.
type InvalidCompressionAlgorithmError struct {
	Tag uint16
}

func (e *InvalidCompressionAlgorithmError) Error() string {
	return fmt.Sprintf("pager: invalid compression algorithm tag %d", e.Tag)
}

// DiskError wraps a pass-through error from the underlying cache/driver/disk
// stack (spec.md §7).
type DiskError struct {
	Err error
}

func (e *DiskError) Error() string { return fmt.Sprintf("pager: disk: %v", e.Err) }

func (e *DiskError) Unwrap() error { return e.Err }

func wrapDisk(err error) error {
	if err == nil {
		return nil
	}
	return &DiskError{Err: err}
}
