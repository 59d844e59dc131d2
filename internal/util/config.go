package util

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMaxDepth    = 10000
	DefaultHistoryFile = ".fern_history"
)

// Configuration carries build metadata plus the settings loadable from
// fern.toml. Flags override the file, the file overrides the defaults.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	MaxDepth    int    `toml:"max_depth"`
	HistoryFile string `toml:"history_file"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxDepth:    DefaultMaxDepth,
		HistoryFile: DefaultHistoryFile,
	}
}

// LoadConfiguration overlays the TOML file at path onto the defaults. A
// missing file is not an error.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg, nil
}
