package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/tfsdev/tfs/cache"
	"github.com/tfsdev/tfs/diskio"
	"github.com/tfsdev/tfs/header"
	"github.com/tfsdev/tfs/pager"
)

// openVolume opens an existing volume file read-write and returns its
// Manager alongside the raw disk, so callers can Sync/Close it when done.
func openVolume(configPath, path string) (*pager.Manager, *diskio.FileDisk, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}

	raw, err := diskio.OpenFileDisk(path, cfg.SectorSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open volume file")
	}

	drv, err := header.Open(raw)
	if err != nil {
		raw.Close()
		return nil, nil, errors.Wrap(err, "open header")
	}

	c := cache.New(drv)
	m, err := pager.Open(c, drv.SectorSize(), drv.ChecksumAlgorithm(), pager.Options{
		SecurityZeroFill: cfg.Security,
	})
	if err != nil {
		raw.Close()
		return nil, nil, errors.Wrap(err, "open volume")
	}
	return m, raw, nil
}

func runStat(args []string) error {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	path := fs.String("path", "tfs.img", "volume file to inspect")
	configPath := fs.String("config", "tfsctl.yaml", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reqID := uuid.New()
	m, raw, err := openVolume(*configPath, *path)
	if err != nil {
		return err
	}
	defer raw.Close()

	info, err := os.Stat(*path)
	size := int64(0)
	if err == nil {
		size = info.Size()
	}

	superpage, hasSuperpage := m.Superpage()
	superpageStr := "<unset>"
	if hasSuperpage {
		superpageStr = superpage.String()
	}

	fields := lo.MapToSlice(map[string]string{
		"file":      *path,
		"size":      humanize.Bytes(uint64(size)),
		"superpage": superpageStr,
	}, func(k, v string) string { return fmt.Sprintf("%s=%s", k, v) })

	fmt.Printf("request %s\n", reqID)
	for _, f := range fields {
		fmt.Println(f)
	}
	return nil
}
