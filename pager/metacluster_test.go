package pager

import (
	"testing"

	"github.com/tfsdev/tfs/cluster"
	"github.com/tfsdev/tfs/codec/checksum"
)

func TestMetaclusterRoundTrip(t *testing.T) {
	algo := checksum.XXHash64{}
	ptrs := []cluster.Pointer{cluster.MustNew(3), cluster.MustNew(4), cluster.MustNew(5)}
	buf := encodeMetacluster(ptrs, 512, algo)
	self := cluster.MustNew(99)
	got, err := decodeMetacluster(buf, algo, self)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(ptrs) {
		t.Fatalf("got %d pointers, want %d", len(got), len(ptrs))
	}
	for i := range ptrs {
		if got[i] != ptrs[i] {
			t.Fatalf("pointer %d = %s, want %s", i, got[i], ptrs[i])
		}
	}
}

func TestMetaclusterBitFlipDetected(t *testing.T) {
	algo := checksum.XXHash64{}
	buf := encodeMetacluster([]cluster.Pointer{cluster.MustNew(7)}, 512, algo)
	buf[MetaclusterHeader] ^= 0x01
	self := cluster.MustNew(12)
	_, err := decodeMetacluster(buf, algo, self)
	mismatch, ok := err.(*ChecksumMismatchError)
	if !ok {
		t.Fatalf("got %T (%v), want *ChecksumMismatchError", err, err)
	}
	if mismatch.Cluster != self {
		t.Fatalf("mismatch cluster = %s, want %s", mismatch.Cluster, self)
	}
}

func TestMetaclusterEmpty(t *testing.T) {
	algo := checksum.XXHash64{}
	buf := encodeMetacluster(nil, 512, algo)
	got, err := decodeMetacluster(buf, algo, cluster.MustNew(1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d pointers, want 0", len(got))
	}
}
