// Package pager implements the page manager described by the design notes
// this module is built from: cluster allocation on top of a sector device,
// online-compression packing of multiple pages per cluster, a persistent
// unrolled freelist, and a transactional commit/revert pipeline.
package pager

import (
	"fmt"

	"github.com/tfsdev/tfs/cache"
	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/codec/compress"
)

// StateBlockPointer is the fixed cluster holding the volume's state block.
// Reserving a fixed, well-known location keeps bootstrap trivial: Open
// never needs a separate superblock to find the state block.
var StateBlockPointer = cluster.MustNew(1)

// initialFreelistHead is the fixed cluster formatted as the first (empty)
// metacluster at Format time.
var initialFreelistHead = cluster.MustNew(2)

// firstFreeCluster is the lowest cluster pointer Format treats as available
// for allocation; clusters below it are reserved for the fixed locations
// above. last_cluster itself is never reserved: it starts null and the
// first queueAlloc call pops one from the freelist like any other
// allocation, since a reopened volume has no durable record of what it
// used to be (spec.md §3's State is explicitly in-memory only).
var firstFreeCluster uint64 = 3

// Manager orchestrates allocation, deallocation, commit and revert against
// a caching disk driver (spec.md §4.5).
type Manager struct {
	cache            *cache.Cache
	sectorSize       int
	checksumAlgo     checksum.Algorithm
	compressAlgo     compress.Algorithm
	securityZeroFill bool

	state     State
	committed State
}

// Options configures a Manager beyond its required collaborators.
type Options struct {
	// SecurityZeroFill enables the "security" feature flag (spec.md §6):
	// queue_freelist_push zero-fills a freed cluster before linking it.
	SecurityZeroFill bool
}

// Format initialises a fresh volume of clusterCount total clusters on c,
// reserving the fixed locations above and pushing the remainder onto the
// freelist, then returns a ready Manager.
func Format(c *cache.Cache, sectorSize int, checksumAlgo checksum.Algorithm, compressAlgo compress.Algorithm, clusterCount uint64, opts Options) (*Manager, error) {
	if clusterCount <= firstFreeCluster {
		return nil, fmt.Errorf("pager: need at least %d clusters, got %d", firstFreeCluster+1, clusterCount)
	}

	sb := StateBlock{
		Compression:  compressAlgo.Tag(),
		FreelistHead: initialFreelistHead,
		Superpage:    cluster.Pointer{},
	}

	m := &Manager{
		cache:            c,
		sectorSize:       sectorSize,
		checksumAlgo:     checksumAlgo,
		compressAlgo:     compressAlgo,
		securityZeroFill: opts.SecurityZeroFill,
		state: State{
			StateBlock:      sb,
			Freelist:        nil,
			LastCluster:     cluster.Pointer{},
			LastClusterData: nil,
		},
	}

	m.cache.Queue(initialFreelistHead, encodeMetacluster(nil, sectorSize, checksumAlgo))
	m.queueStateBlockFlush()

	for n := clusterCount - 1; n >= firstFreeCluster; n-- {
		m.queueFreelistPush(cluster.MustNew(n))
	}

	if err := m.cache.Commit(); err != nil {
		return nil, wrapDisk(err)
	}
	m.committed = m.state.Clone()
	return m, nil
}

// Open reads an existing volume's state block and head metacluster from c
// and returns a ready Manager.
func Open(c *cache.Cache, sectorSize int, checksumAlgo checksum.Algorithm, opts Options) (*Manager, error) {
	sector, err := c.Read(StateBlockPointer)
	if err != nil {
		return nil, wrapDisk(err)
	}
	sb, err := DecodeStateBlock(sector, checksumAlgo)
	if err != nil {
		return nil, err
	}

	compressAlgo, cerr := compress.ByTag(sb.Compression)
	if cerr != nil {
		if cerr == compress.ErrUnknownAlgorithm {
			return nil, &UnknownCompressionAlgorithmError{Tag: uint16(sb.Compression)}
		}
		return nil, &InvalidCompressionAlgorithmError{Tag: uint16(sb.Compression)}
	}

	headSector, err := c.Read(sb.FreelistHead)
	if err != nil {
		return nil, wrapDisk(err)
	}
	freelist, err := decodeMetacluster(headSector, checksumAlgo, sb.FreelistHead)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cache:            c,
		sectorSize:       sectorSize,
		checksumAlgo:     checksumAlgo,
		compressAlgo:     compressAlgo,
		securityZeroFill: opts.SecurityZeroFill,
		state: State{
			StateBlock:      sb,
			Freelist:        freelist,
			LastCluster:     cluster.Pointer{},
			LastClusterData: nil,
			// See queueFreelistPop's comment: a head that is not the
			// genesis metacluster was necessarily reached via a rotation
			// at some point, so it has a real chain to unwind.
			ChainLinked: sb.FreelistHead != initialFreelistHead,
		},
	}
	m.committed = m.state.Clone()
	return m, nil
}

// Alloc packs pageBytes into a page and returns its pointer (spec.md
// §4.4, §6 "alloc").
func (m *Manager) Alloc(pageBytes []byte) (PagePointer, error) {
	return m.queueAlloc(pageBytes)
}

// Free returns page's owning cluster to the freelist if the cluster has no
// other live pages in it, per the liveness contract a caller supplies
// (spec.md §4.5: this layer does not mandate a reference-count sidecar).
// hasOtherLivePages is the caller's answer to that liveness question for
// page's cluster.
func (m *Manager) Free(page PagePointer, hasOtherLivePages bool) {
	if hasOtherLivePages {
		return
	}
	m.queueFreelistPush(page.Cluster)
}

// Commit snapshots the current state as committed and durably flushes the
// pipeline (spec.md §4.5).
func (m *Manager) Commit() error {
	m.committed = m.state.Clone()
	if err := m.cache.Commit(); err != nil {
		return wrapDisk(err)
	}
	return nil
}

// Revert restores the last committed state and discards the pipeline
// (spec.md §4.5).
func (m *Manager) Revert() {
	m.state = m.committed.Clone()
	m.cache.Revert()
}

// Read fetches page's bytes (spec.md §4.5 "read").
func (m *Manager) Read(page PagePointer) ([]byte, error) {
	decoded, err := m.readCluster(page.Cluster)
	if err != nil {
		return nil, err
	}
	if page.Offset+page.Length > len(decoded) {
		return nil, fmt.Errorf("pager: page pointer %+v out of range of decoded cluster (%d bytes)", page, len(decoded))
	}
	out := make([]byte, page.Length)
	copy(out, decoded[page.Offset:page.Offset+page.Length])
	return out, nil
}

// Superpage returns the volume's superpage pointer, or false if none has
// been set yet.
func (m *Manager) Superpage() (cluster.Pointer, bool) {
	return m.state.StateBlock.Superpage, !m.state.StateBlock.Superpage.IsNull()
}

// SetSuperpage records the volume's superpage pointer and queues a
// state-block flush.
func (m *Manager) SetSuperpage(p cluster.Pointer) {
	m.state.StateBlock.Superpage = p
	m.queueStateBlockFlush()
}
