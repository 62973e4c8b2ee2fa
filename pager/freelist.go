package pager

import "github.com/tfsdev/tfs/cluster"

// queueFreelistHeadFlush stages a write of the in-memory freelist, encoded
// as a metacluster, to the current head cluster.
func (m *Manager) queueFreelistHeadFlush() {
	buf := encodeMetacluster(m.state.Freelist, m.sectorSize, m.checksumAlgo)
	m.cache.Queue(m.state.StateBlock.FreelistHead, buf)
}

// queueStateBlockFlush stages a write of the current state block to its
// fixed location.
func (m *Manager) queueStateBlockFlush() {
	m.cache.Queue(StateBlockPointer, m.state.StateBlock.Encode(m.sectorSize, m.checksumAlgo))
}

// queueFreelistPop pops the top free cluster pointer, transparently rolling
// over to the next metacluster in the chain when the in-memory mirror runs
// dry (spec.md §4.3). A head that was never rotated into existence by a
// push overflow (state.ChainLinked false — the genesis metacluster seeded
// at Format time) has no real chain to follow: draining it just empties
// it in place, matching property P3 for a freelist that never overflowed.
func (m *Manager) queueFreelistPop() (cluster.Pointer, error) {
	n := len(m.state.Freelist)
	if n == 0 {
		return cluster.Pointer{}, ErrOutOfClusters
	}

	popped := m.state.Freelist[n-1]
	m.state.Freelist = m.state.Freelist[:n-1]

	if len(m.state.Freelist) == 0 && m.state.ChainLinked {
		oldHead := m.state.StateBlock.FreelistHead
		m.state.StateBlock.FreelistHead = popped

		sector, err := m.cache.Read(popped)
		if err != nil {
			return cluster.Pointer{}, wrapDisk(err)
		}
		newFreelist, err := decodeMetacluster(sector, m.checksumAlgo, popped)
		if err != nil {
			return cluster.Pointer{}, err
		}
		m.state.Freelist = newFreelist
		// The chain terminates once we unwind back to the genesis
		// metacluster; any other link still has further chain behind it.
		m.state.ChainLinked = popped != initialFreelistHead
		m.queueStateBlockFlush()
		return oldHead, nil
	}

	m.queueFreelistHeadFlush()
	return popped, nil
}

// queueFreelistPush returns c to the freelist, rotating the head metacluster
// when the in-memory mirror is full (spec.md §4.3).
func (m *Manager) queueFreelistPush(c cluster.Pointer) {
	if m.securityZeroFill {
		m.cache.Queue(c, make([]byte, m.sectorSize))
	}

	capacity := MetaclusterCapacity(m.sectorSize)
	if len(m.state.Freelist) < capacity {
		m.state.Freelist = append(m.state.Freelist, c)
		m.queueFreelistHeadFlush()
		return
	}

	oldHead := m.state.StateBlock.FreelistHead
	m.state.Freelist = []cluster.Pointer{oldHead}
	m.state.StateBlock.FreelistHead = c
	m.state.ChainLinked = true
	m.queueFreelistHeadFlush()
	m.queueStateBlockFlush()
}
