package checksum

import "testing"

func TestXXHash64Deterministic(t *testing.T) {
	a := XXHash64{}.Hash([]byte("hello tfs"))
	b := XXHash64{}.Hash([]byte("hello tfs"))
	if a != b {
		t.Fatal("hash should be deterministic")
	}
	c := XXHash64{}.Hash([]byte("hello tFs"))
	if a == c {
		t.Fatal("differing input produced same hash (too unlucky to be a real collision)")
	}
}

func TestCRC64ISODeterministic(t *testing.T) {
	a := CRC64ISO{}.Hash([]byte("hello tfs"))
	b := CRC64ISO{}.Hash([]byte("hello tfs"))
	if a != b {
		t.Fatal("hash should be deterministic")
	}
}

func TestByTag(t *testing.T) {
	if _, ok := ByTag(TagXXHash64); !ok {
		t.Fatal("TagXXHash64 should resolve")
	}
	if _, ok := ByTag(TagCRC64ISO); !ok {
		t.Fatal("TagCRC64ISO should resolve")
	}
	if _, ok := ByTag(Tag(99)); ok {
		t.Fatal("unknown tag should not resolve")
	}
}

func TestTagRoundTrip(t *testing.T) {
	for _, tag := range []Tag{TagXXHash64, TagCRC64ISO} {
		algo, ok := ByTag(tag)
		if !ok {
			t.Fatalf("tag %d should resolve", tag)
		}
		if algo.Tag() != tag {
			t.Fatalf("algorithm for tag %d reports tag %d", tag, algo.Tag())
		}
	}
}
