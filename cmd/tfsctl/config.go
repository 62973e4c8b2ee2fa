package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tfsdev/tfs/codec/checksum"
	"github.com/tfsdev/tfs/codec/compress"
)

// Config is the on-disk YAML configuration for a tfsctl-managed volume. It
// is deliberately small: everything the page manager itself needs to boot,
// nothing about higher layers.
type Config struct {
	SectorSize        int    `yaml:"sector_size"`
	ClusterCount      uint64 `yaml:"cluster_count"`
	ChecksumAlgorithm string `yaml:"checksum_algorithm"`
	Compression       string `yaml:"compression"`
	Security          bool   `yaml:"security"`
	CheckpointEvery   string `yaml:"checkpoint_every"`
	ListenAddr        string `yaml:"listen_addr"`
}

func defaultConfig() Config {
	return Config{
		SectorSize:        512,
		ClusterCount:      4096,
		ChecksumAlgorithm: "xxhash64",
		Compression:       "lz4",
		Security:          false,
		CheckpointEvery:   "@every 1m",
		ListenAddr:        ":8241",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (c Config) checksumAlgorithm() (checksum.Algorithm, error) {
	switch c.ChecksumAlgorithm {
	case "", "xxhash64":
		return checksum.XXHash64{}, nil
	case "crc64iso":
		return checksum.CRC64ISO{}, nil
	default:
		return nil, errors.Errorf("unknown checksum algorithm %q", c.ChecksumAlgorithm)
	}
}

func (c Config) compressionAlgorithm() (compress.Algorithm, error) {
	switch c.Compression {
	case "", "lz4":
		return compress.LZ4{}, nil
	case "identity":
		return compress.Identity{}, nil
	default:
		return nil, errors.Errorf("unknown compression algorithm %q", c.Compression)
	}
}
