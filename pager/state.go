package pager

import "github.com/tfsdev/tfs/cluster"

// State is the page manager's in-memory working set (spec.md §3):
// the parsed state block, the freelist mirroring the head metacluster,
// and the cluster currently receiving packed pages. It is value-copied on
// commit and revert (spec.md §9's "clonable state" design note).
type State struct {
	StateBlock      StateBlock
	Freelist        []cluster.Pointer
	LastCluster     cluster.Pointer
	LastClusterData []byte

	// ChainLinked records whether the current head metacluster was reached
	// by a push overflow rotation (spec.md §4.3's "else" branch), and so
	// has a genuine chain link buried as its oldest in-memory entry. The
	// genesis metacluster formatted at Format time never did — exhausting
	// it yields no further chain to follow. Without this bit, a pop that
	// empties a genesis-only freelist would wrongly chase its last real
	// free pointer as if it addressed another metacluster.
	ChainLinked bool
}

// Clone returns a deep copy of s, safe to mutate independently of the
// original.
func (s State) Clone() State {
	freelist := make([]cluster.Pointer, len(s.Freelist))
	copy(freelist, s.Freelist)
	data := make([]byte, len(s.LastClusterData))
	copy(data, s.LastClusterData)
	return State{
		StateBlock:      s.StateBlock,
		Freelist:        freelist,
		LastCluster:     s.LastCluster,
		LastClusterData: data,
		ChainLinked:     s.ChainLinked,
	}
}
