// Package cache is the write-back staging layer between the page manager
// and the header-wrapped disk (spec.md §6, "Cache collaborator"; §5's
// ordering guarantees). Writes are queued in memory in enqueue order and
// only reach the disk on Commit; Revert discards them instead. Reads see
// a queued-but-uncommitted write immediately, so the manager can read back
// its own in-flight state without forcing a commit.
package cache

import (
	"fmt"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/header"
)

type write struct {
	ptr  cluster.Pointer
	data []byte
}

// Cache buffers pending sector writes against a header.Driver until they
// are either committed (flushed to disk, in enqueue order) or reverted
// (discarded).
type Cache struct {
	driver *header.Driver
	queue  []write
	staged map[uint64][]byte
}

// New returns a Cache fronting driver with an empty write queue.
func New(driver *header.Driver) *Cache {
	return &Cache{driver: driver, staged: make(map[uint64][]byte)}
}

// Read returns the sector at ptr, preferring the most recently queued but
// not-yet-committed write over what is currently on disk.
func (c *Cache) Read(ptr cluster.Pointer) ([]byte, error) {
	if buf, ok := c.staged[ptr.Uint64()]; ok {
		out := make([]byte, len(buf))
		copy(out, buf)
		return out, nil
	}
	return c.driver.Read(ptr)
}

// Queue stages a write of data to ptr. It is not visible on disk, only to
// subsequent Read calls, until Commit runs.
func (c *Cache) Queue(ptr cluster.Pointer, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	c.queue = append(c.queue, write{ptr: ptr, data: buf})
	c.staged[ptr.Uint64()] = buf
}

// Commit flushes every queued write to disk in the exact order it was
// queued, then clears the queue. Flush ordering is load-bearing: the page
// manager relies on it to guarantee that, e.g., a freelist metacluster
// write reaches disk before the state-block write that starts pointing at
// it (spec.md §4.3, §9).
func (c *Cache) Commit() error {
	for _, w := range c.queue {
		if err := c.driver.Write(w.ptr, w.data); err != nil {
			return fmt.Errorf("cache: commit sector %d: %w", w.ptr.Uint64(), err)
		}
	}
	c.queue = c.queue[:0]
	c.staged = make(map[uint64][]byte)
	return nil
}

// Revert discards every queued write without touching disk.
func (c *Cache) Revert() {
	c.queue = c.queue[:0]
	c.staged = make(map[uint64][]byte)
}

// Pending reports how many writes are currently queued, for tests and
// diagnostics.
func (c *Cache) Pending() int { return len(c.queue) }
