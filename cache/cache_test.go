package cache

import (
	"bytes"
	"testing"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/diskio"
	"github.com/tfsdev/tfs/header"
)

func newTestCache(t *testing.T) (*Cache, diskio.Disk) {
	t.Helper()
	raw := diskio.NewMemDisk(512)
	d, err := header.Format(raw, checksum.XXHash64{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return New(d), raw
}

func TestQueuedReadVisibleBeforeCommit(t *testing.T) {
	c, _ := newTestCache(t)
	p, _ := cluster.New(1)
	data := bytes.Repeat([]byte{0x11}, 512)
	c.Queue(p, data)
	got, err := c.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("queued write not visible to Read before commit")
	}
}

func TestRevertDiscardsQueue(t *testing.T) {
	c, _ := newTestCache(t)
	p, _ := cluster.New(1)
	c.Queue(p, bytes.Repeat([]byte{0x22}, 512))
	c.Revert()
	if c.Pending() != 0 {
		t.Fatalf("pending = %d, want 0 after revert", c.Pending())
	}
	if _, err := c.Read(p); err == nil {
		t.Fatal("expected error reading a never-committed, reverted sector")
	}
}

func TestCommitPersistsInOrder(t *testing.T) {
	c, _ := newTestCache(t)
	p1, _ := cluster.New(1)
	p2, _ := cluster.New(2)
	c.Queue(p1, bytes.Repeat([]byte{0xAA}, 512))
	c.Queue(p2, bytes.Repeat([]byte{0xBB}, 512))
	if err := c.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if c.Pending() != 0 {
		t.Fatalf("pending = %d, want 0 after commit", c.Pending())
	}
	got1, err := c.Read(p1)
	if err != nil {
		t.Fatalf("read p1: %v", err)
	}
	if got1[0] != 0xAA {
		t.Fatal("committed sector 1 has wrong content")
	}
	got2, err := c.Read(p2)
	if err != nil {
		t.Fatalf("read p2: %v", err)
	}
	if got2[0] != 0xBB {
		t.Fatal("committed sector 2 has wrong content")
	}
}

func TestLaterQueuedWriteWins(t *testing.T) {
	c, _ := newTestCache(t)
	p, _ := cluster.New(1)
	c.Queue(p, bytes.Repeat([]byte{0x01}, 512))
	c.Queue(p, bytes.Repeat([]byte{0x02}, 512))
	got, err := c.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got[0] != 0x02 {
		t.Fatal("expected most recently queued write to be visible")
	}
	if err := c.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err = c.Read(p)
	if err != nil {
		t.Fatalf("read after commit: %v", err)
	}
	if got[0] != 0x02 {
		t.Fatal("expected the last queued value to survive commit")
	}
}
