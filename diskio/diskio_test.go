package diskio

import (
	"bytes"
	"path/filepath"
	"testing"
)

func testDisk(t *testing.T, d Disk) {
	t.Helper()
	sector := bytes.Repeat([]byte{0xAB}, d.SectorSize())
	if err := d.WriteSector(3, sector); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := d.ReadSector(3)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, sector) {
		t.Fatal("read did not return what was written")
	}
	if _, err := d.ReadSector(99); err == nil {
		t.Fatal("expected error reading an unwritten sector")
	}
	if err := d.WriteSector(4, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error writing a short sector")
	}
}

func TestMemDisk(t *testing.T) {
	testDisk(t, NewMemDisk(512))
}

func TestFileDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.img")
	d, err := OpenFileDisk(path, 512)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	testDisk(t, d)
}
