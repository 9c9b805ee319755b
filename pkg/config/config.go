package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

// Defaults matching the sizes the comparison pipeline was tuned with.
const (
	DefaultMinFileSize  int64 = 16 * 1024
	DefaultChunkSize          = 4096
	DefaultMaxOpenFiles       = 256
)

type Configuration struct {
	Scanner       ScannerConfig       `koanf:"scanner"`
	Comparer      ComparerConfig      `koanf:"comparer"`
	Notifications NotificationsConfig `koanf:"notifications"`
}

type ScannerConfig struct {
	// Files below this size are never considered for deduplication.
	MinFileSize int64 `koanf:"min_file_size"`
	// Optional extension allow list. Entries include the leading dot,
	// e.g. ".mkv". An empty list admits every extension.
	Extensions []string `koanf:"extensions"`
	// Ignore expressions evaluated against each scanned file,
	// e.g. 'Name matches "^~"'. Any match excludes the file.
	Ignore []string `koanf:"ignore"`
	// Parallel walk workers. Zero picks a sensible default.
	Workers int `koanf:"workers"`
}

type ComparerConfig struct {
	// Bytes read per stream per comparison step.
	ChunkSize int `koanf:"chunk_size"`
	// Upper bound on simultaneously open file handles, pivot included.
	MaxOpenFiles int `koanf:"max_open_files"`
	// Maximum comparison steps per second. Zero disables throttling.
	IOThrottle int `koanf:"io_throttle"`
}

var (
	// Config is the active configuration, set by Init.
	Config *Configuration

	// K is the koanf instance backing Config.
	K = koanf.New(".")
)

// Init loads defaults and overlays the YAML config file when one exists at
// configFilePath. A missing file is not an error, defaults apply. Calling
// Init again rebuilds the configuration from scratch.
func Init(configFilePath string) error {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"scanner.min_file_size":   DefaultMinFileSize,
		"scanner.workers":         0,
		"comparer.chunk_size":     DefaultChunkSize,
		"comparer.max_open_files": DefaultMaxOpenFiles,
		"comparer.io_throttle":    0,
	}, "."), nil); err != nil {
		return errors.Wrap(err, "failed loading default configuration")
	}

	if _, err := os.Stat(configFilePath); err == nil {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return errors.Wrapf(err, "failed parsing configuration file: %q", configFilePath)
		}
	}

	cfg := &Configuration{}
	if err := k.Unmarshal("", cfg); err != nil {
		return errors.Wrap(err, "failed unmarshalling configuration")
	}

	K = k
	Config = cfg
	return nil
}

// GetDefaultConfigDirectory returns the folder configuration is read from.
// A config file sitting beside the binary wins, otherwise the user config
// directory is used.
func GetDefaultConfigDirectory(appName string, configFile string) string {
	if exe, err := os.Executable(); err == nil {
		binaryDir := filepath.Dir(exe)
		if _, err := os.Stat(filepath.Join(binaryDir, configFile)); err == nil {
			return binaryDir
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, appName)
	}

	return "."
}
