/*
Package config manages the TOML configuration of the wordle-entropy tools.

A missing file is not an error: every field has a built-in default, and a
file only needs to name the fields it changes.

	[words]
	guesses = "io/guesses.txt"
	solutions = "io/answers.txt"

	[table]
	path = "guesses_cache.gob"
	workers = 0

	[rank]
	top = 10
	workers = 0

	[server]
	addr = ":8080"

	[log]
	level = "info"
*/
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

type Config struct {
	Words  WordsConfig  `toml:"words"`
	Table  TableConfig  `toml:"table"`
	Rank   RankConfig   `toml:"rank"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`

	path string
}

// WordsConfig points at the word list files, one word per line.
type WordsConfig struct {
	Guesses   string `toml:"guesses"`
	Solutions string `toml:"solutions"`
}

// TableConfig controls the precomputed hint table. The file format follows
// the extension of Path (.gob, .json or .msgpack).
type TableConfig struct {
	Path    string `toml:"path"`
	Workers int    `toml:"workers"`
}

type RankConfig struct {
	Top     int `toml:"top"`
	Workers int `toml:"workers"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Words: WordsConfig{
			Guesses:   "io/guesses.txt",
			Solutions: "io/answers.txt",
		},
		Table: TableConfig{
			Path:    "guesses_cache.gob",
			Workers: 0,
		},
		Rank: RankConfig{
			Top:     10,
			Workers: 0,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load overlays the file at path on the defaults. An empty path or a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	config.path = path
	return config, nil
}

// Path is the file the config was read from, or "" when only the defaults
// apply.
func (c *Config) Path() string { return c.path }

// Save writes config to path as TOML.
func Save(config *Config, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(config)
}

func (c *Config) Validate() error {
	if c.Words.Guesses == "" || c.Words.Solutions == "" {
		return errors.New("words.guesses and words.solutions are required")
	}
	if c.Table.Workers < 0 || c.Rank.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.Rank.Top < 0 {
		return errors.New("rank.top must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
