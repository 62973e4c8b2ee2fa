package main

import (
	"flag"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tfsdev/tfs/cache"
	"github.com/tfsdev/tfs/diskio"
	"github.com/tfsdev/tfs/header"
	"github.com/tfsdev/tfs/pager"
)

func runFormat(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	path := fs.String("path", "tfs.img", "volume file to create")
	configPath := fs.String("config", "tfsctl.yaml", "YAML config file")
	security := fs.Bool("security", false, "zero-fill freed clusters before reuse")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reqID := uuid.New()
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	cfg.Security = cfg.Security || *security

	checksumAlgo, err := cfg.checksumAlgorithm()
	if err != nil {
		return errors.Wrap(err, "resolve checksum algorithm")
	}
	compressAlgo, err := cfg.compressionAlgorithm()
	if err != nil {
		return errors.Wrap(err, "resolve compression algorithm")
	}

	raw, err := diskio.OpenFileDisk(*path, cfg.SectorSize)
	if err != nil {
		return errors.Wrap(err, "open volume file")
	}
	defer raw.Close()

	drv, err := header.Format(raw, checksumAlgo)
	if err != nil {
		return errors.Wrap(err, "write header")
	}

	c := cache.New(drv)
	m, err := pager.Format(c, cfg.SectorSize, checksumAlgo, compressAlgo, cfg.ClusterCount, pager.Options{
		SecurityZeroFill: cfg.Security,
	})
	if err != nil {
		return errors.Wrap(err, "format volume")
	}
	if err := m.Commit(); err != nil {
		return errors.Wrap(err, "commit initial state")
	}
	if err := raw.Sync(); err != nil {
		return errors.Wrap(err, "sync volume file")
	}

	log.Printf("[%s] formatted %s: %d clusters, %d-byte sectors, checksum=%s compression=%s",
		reqID, *path, cfg.ClusterCount, cfg.SectorSize, cfg.ChecksumAlgorithm, cfg.Compression)
	return nil
}
