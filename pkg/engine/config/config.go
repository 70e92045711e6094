// Package config reads talon.toml, the engine and client configuration
// file shared by cmd/talon and cmd/talon-live: hash size, thread count,
// contempt, the NN weights path, and the play-service credentials file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Engine holds the engine-construction settings read from the [engine]
// table.
type Engine struct {
	HashMiB      uint   `toml:"hash_mib"`
	Threads      uint   `toml:"threads"`
	Contempt     int    `toml:"contempt"`
	NoiseMcp     uint   `toml:"noise_millipawns"`
	NNWeights    string `toml:"nn_weights_path"`
	BookPath     string `toml:"book_path"`
}

// PlayService holds the remote play-service connection settings read from
// the [play_service] table, used by cmd/talon-live.
type PlayService struct {
	URL            string `toml:"url"`
	TokenFile      string `toml:"token_file"`
	MaxConcurrency int    `toml:"max_concurrent_games"`
}

// Config is the top-level talon.toml document.
type Config struct {
	Engine      Engine      `toml:"engine"`
	PlayService PlayService `toml:"play_service"`
}

// Default returns the configuration used when no talon.toml is present or
// a field is left unset: a single-threaded engine with a 64 MiB table, no
// NN head, and no book.
func Default() Config {
	return Config{
		Engine: Engine{
			HashMiB: 64,
			Threads: 1,
		},
		PlayService: PlayService{
			MaxConcurrency: 4,
		},
	}
}

// Load reads and merges a talon.toml file at path onto Default(); a
// missing field in the file keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to load %v: %w", path, err)
	}
	return cfg, nil
}
