package pager

import (
	"testing"

	"github.com/tfsdev/tfs/cache"
	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/codec/compress"
	"github.com/tfsdev/tfs/diskio"
	"github.com/tfsdev/tfs/header"
)

func newTestManager(t *testing.T, clusterCount uint64) *Manager {
	t.Helper()
	raw := diskio.NewMemDisk(512)
	hdr, err := header.Format(raw, checksum.XXHash64{})
	if err != nil {
		t.Fatalf("header format: %v", err)
	}
	c := cache.New(hdr)
	m, err := Format(c, 512, checksum.XXHash64{}, compress.Identity{}, clusterCount, Options{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return m
}

func TestFreelistPushPopLIFOBalance(t *testing.T) {
	m := newTestManager(t, 10)
	before := len(m.state.Freelist)

	pushed := []cluster.Pointer{cluster.MustNew(1000), cluster.MustNew(1001), cluster.MustNew(1002)}
	for _, p := range pushed {
		m.queueFreelistPush(p)
	}

	var popped []cluster.Pointer
	for range pushed {
		p, err := m.queueFreelistPop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		popped = append(popped, p)
	}

	for i := range pushed {
		want := pushed[len(pushed)-1-i]
		if popped[i] != want {
			t.Fatalf("pop %d = %s, want %s (LIFO order)", i, popped[i], want)
		}
	}

	if len(m.state.Freelist) != before {
		t.Fatalf("freelist length = %d after balanced push/pop, want %d", len(m.state.Freelist), before)
	}
}

func TestFreelistChainRotation(t *testing.T) {
	m := newTestManager(t, 10)
	capacity := MetaclusterCapacity(512)

	// Drain whatever Format seeded so the chain-rotation math below is
	// exact: push exactly capacity+1 distinct pointers into a freelist
	// that starts genuinely empty.
	for len(m.state.Freelist) > 0 {
		if _, err := m.queueFreelistPop(); err != nil {
			t.Fatalf("drain pop: %v", err)
		}
	}
	originalHead := m.state.StateBlock.FreelistHead

	for i := 0; i < capacity+1; i++ {
		m.queueFreelistPush(cluster.MustNew(uint64(5000 + i)))
	}

	if m.state.StateBlock.FreelistHead == originalHead {
		t.Fatal("expected FreelistHead to rotate to a new metacluster")
	}
	if len(m.state.Freelist) != 1 {
		t.Fatalf("in-memory freelist = %d entries after rollover, want 1 (the old head link)", len(m.state.Freelist))
	}
	if m.state.Freelist[0] != originalHead {
		t.Fatalf("new head's sole entry = %s, want old head %s", m.state.Freelist[0], originalHead)
	}
}

func TestFreelistOutOfClusters(t *testing.T) {
	m := newTestManager(t, 4)
	for {
		if _, err := m.queueFreelistPop(); err != nil {
			if err != ErrOutOfClusters {
				t.Fatalf("got %v, want ErrOutOfClusters", err)
			}
			break
		}
	}
	if _, err := m.queueFreelistPop(); err != ErrOutOfClusters {
		t.Fatalf("got %v, want ErrOutOfClusters on repeated pop", err)
	}
}
