// Package config loads the optional tuning file papyrus.GetLayer and
// papyrus/wal consult for knobs that have no natural home in a Layer's
// URL: WAL lock-retry backoff and the scratch buffer size used when
// replaying a log. Absent a config file, DefaultConfig's values apply.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds Papyrus's tunable, non-structural knobs.
type Config struct {
	// LockRetryBackoff is how long GetLayer waits before retrying a
	// wal:// open that failed because another live process holds the
	// file's PID lock. It retries exactly once; zero disables the retry
	// and GetLayer fails immediately, matching §5's minimal locking
	// design.
	LockRetryBackoff time.Duration `json:"lock_retry_backoff"`

	// ReplayScratchSize sizes the initial capacity of the pair slice
	// WalLayer's replay path preallocates, to reduce reallocation on large
	// logs. Zero means "let the runtime decide."
	ReplayScratchSize int `json:"replay_scratch_size"`
}

// DefaultConfig returns Papyrus's built-in tuning defaults.
func DefaultConfig() Config {
	return Config{
		LockRetryBackoff:  0,
		ReplayScratchSize: 0,
	}
}

// Load reads a JSON-with-comments (JSONC) config file at path and merges
// it over DefaultConfig. A missing file is not an error — the defaults
// apply unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var overlay Config
	if err := json.Unmarshal(standardized, &overlay); err != nil {
		return Config{}, fmt.Errorf("invalid config JSON in %s: %w", path, err)
	}

	if overlay.LockRetryBackoff != 0 {
		cfg.LockRetryBackoff = overlay.LockRetryBackoff
	}
	if overlay.ReplayScratchSize != 0 {
		cfg.ReplayScratchSize = overlay.ReplayScratchSize
	}

	return cfg, nil
}
