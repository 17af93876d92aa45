package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ErrNoConfigFile struct {
	path string
}

func (e *ErrNoConfigFile) Error() string {
	return fmt.Sprintf("config file not found: %s", e.path)
}

type ErrMissingKey struct {
	key string
}

func (e *ErrMissingKey) Error() string {
	return fmt.Sprintf("missing required config key: %s", e.key)
}

type ErrBadValue struct {
	key   string
	value string
	msg   string
}

func (e *ErrBadValue) Error() string {
	return fmt.Sprintf("bad value for %s: %q: %s", e.key, e.value, e.msg)
}

// Config is built once at process start and passed explicitly to each
// component. Components never read the ambient environment.
type Config struct {
	SourceDir string
	Bucket    string
	Prefix    string

	Profile string
	Region  string

	LogDir     string
	StatusFile string
	LockFile   string

	ChecksumEnabled   bool
	ChecksumAlgorithm string
	ChecksumStrict    bool
	VerifyAfterUpload bool
	RecordDir         string

	MonitorInterval time.Duration

	MaxConcurrency int
	PartSize       int64
	MaxBandwidth   int64

	ExcludeExtensions []string

	SyncTimeout   time.Duration
	VerifyTimeout time.Duration
}

// Load parses a flat KEY=value file into a Config and validates it.
// Tuning values are optional; paths and the bucket are not.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ErrNoConfigFile{path: path}
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg := Config{
		SourceDir:         vals["SOURCE_DIR"],
		Bucket:            vals["S3_BUCKET"],
		Prefix:            strings.Trim(vals["S3_PREFIX"], "/"),
		Profile:           vals["AWS_PROFILE"],
		Region:            vals["AWS_REGION"],
		LogDir:            vals["LOG_DIR"],
		StatusFile:        vals["STATUS_FILE"],
		LockFile:          vals["LOCK_FILE"],
		ChecksumAlgorithm: vals["CHECKSUM_ALGORITHM"],
		RecordDir:         vals["CHECKSUM_RECORD_DIR"],
	}

	if cfg.SourceDir == "" {
		return nil, &ErrMissingKey{key: "SOURCE_DIR"}
	}
	if cfg.Bucket == "" {
		return nil, &ErrMissingKey{key: "S3_BUCKET"}
	}

	if cfg.Profile == "" {
		cfg.Profile = "default"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
	if cfg.StatusFile == "" {
		cfg.StatusFile = "last-sync-status.json"
	}
	if cfg.LockFile == "" {
		cfg.LockFile = ".s3mirror.lock"
	}
	if cfg.RecordDir == "" {
		cfg.RecordDir = "checksums"
	}

	var perr error

	parseBool := func(key string, dflt bool) bool {
		raw, ok := vals[key]
		if !ok || raw == "" {
			return dflt
		}
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			perr = &ErrBadValue{key: key, value: raw, msg: "expected true or false"}
			return dflt
		}
		return b
	}
	parseInt := func(key string, dflt int64) int64 {
		raw, ok := vals[key]
		if !ok || raw == "" {
			return dflt
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			perr = &ErrBadValue{key: key, value: raw, msg: "expected a non-negative integer"}
			return dflt
		}
		return n
	}

	cfg.ChecksumEnabled = parseBool("ENABLE_CHECKSUM", true)
	cfg.ChecksumStrict = parseBool("CHECKSUM_STRICT", false)
	cfg.VerifyAfterUpload = parseBool("VERIFY_AFTER_UPLOAD", false)

	cfg.MonitorInterval = time.Duration(parseInt("MONITOR_INTERVAL", 30)) * time.Second
	cfg.MaxConcurrency = int(parseInt("MAX_CONCURRENT_REQUESTS", 10))
	cfg.PartSize = parseInt("MULTIPART_CHUNKSIZE", 0)
	cfg.MaxBandwidth = parseInt("MAX_BANDWIDTH", 0)
	cfg.SyncTimeout = time.Duration(parseInt("SYNC_TIMEOUT", 0)) * time.Second
	cfg.VerifyTimeout = time.Duration(parseInt("VERIFY_TIMEOUT", 0)) * time.Second

	if perr != nil {
		return nil, perr
	}

	if raw := vals["EXCLUDE_EXTENSIONS"]; raw != "" {
		for _, ext := range strings.Split(raw, ",") {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			cfg.ExcludeExtensions = append(cfg.ExcludeExtensions, ext)
		}
	}

	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = 30 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 10
	}

	return &cfg, nil
}

// CheckSource verifies the source directory exists and is a directory.
func (cfg *Config) CheckSource() error {
	fi, err := os.Stat(cfg.SourceDir)
	if err != nil {
		return &ErrBadValue{key: "SOURCE_DIR", value: cfg.SourceDir, msg: "directory does not exist"}
	}
	if !fi.IsDir() {
		return &ErrBadValue{key: "SOURCE_DIR", value: cfg.SourceDir, msg: "not a directory"}
	}
	return nil
}

// Destination returns the s3 destination as bucket/prefix for reporting.
func (cfg *Config) Destination() string {
	if cfg.Prefix == "" {
		return cfg.Bucket
	}
	return cfg.Bucket + "/" + cfg.Prefix
}
