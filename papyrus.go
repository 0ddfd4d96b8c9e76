// Package papyrus is an embeddable key-value storage library exposing a
// uniform Layer abstraction over multiple backends selectable at runtime by
// URL scheme: mem:// for an in-memory layer, wal:// for an append-only
// write-ahead-log file layer.
package papyrus

import (
	"errors"
	"log"
	"net/url"
	"time"

	"papyrus/config"
	"papyrus/layer"
	"papyrus/mem"
	"papyrus/types"
	"papyrus/wal"
)

// Re-exported core types, so callers only ever need to import this package.
type (
	Key   = types.Key
	Value = types.Value
	Pair  = types.Pair
	Layer = layer.Layer
)

var (
	NewBoolKey   = types.NewBoolKey
	NewIntKey    = types.NewIntKey
	NewUidKey    = types.NewUidKey
	NewUid64Key  = types.NewUid64Key
	NewStringKey = types.NewStringKey

	EmptyValue   = types.EmptyValue
	DeletedValue = types.DeletedValue
	NewRawValue  = types.NewRawValue
)

// activeConfig holds the tuning knobs GetLayer consults: ReplayScratchSize
// (passed through to every WalLayer it opens) and LockRetryBackoff (how
// long to wait before retrying a wal:// open that failed because another
// process holds the PID lock). LoadConfig replaces it; absent a call to
// LoadConfig, config.DefaultConfig() applies.
var activeConfig = config.DefaultConfig()

// LoadConfig reads the JSONC tuning file at path and makes it the config
// GetLayer consults for subsequent calls. A missing file is not an error —
// config.DefaultConfig()'s values remain in effect.
func LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	activeConfig = cfg
	return nil
}

// GetLayer parses rawURL and constructs the Layer its scheme names:
//
//   - mem:// constructs an empty MemLayer; the rest of the URL is ignored.
//   - wal://host/path constructs a WalLayer at the file path host+path, so
//     "wal://bench_wal" resolves to "bench_wal" and "wal:///tmp/x" resolves
//     to "/tmp/x". If the file's PID lock is held by another live process,
//     GetLayer waits activeConfig.LockRetryBackoff and retries once before
//     giving up.
//
// Any other scheme, a URL parse failure, or a backend open failure (header
// mismatch, lock still held after the retry, ...) all report as (nil,
// false) — GetLayer is the sole point of polymorphism; callers afterward
// see only the Layer contract.
func GetLayer(rawURL string) (Layer, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("papyrus: parsing layer url %q: %v", rawURL, err)
		return nil, false
	}

	switch u.Scheme {
	case "mem":
		return mem.New(), true
	case "wal":
		w, err := wal.OpenURL(rawURL, activeConfig.ReplayScratchSize)
		if err != nil && activeConfig.LockRetryBackoff > 0 && errors.Is(err, types.ErrLocked) {
			time.Sleep(activeConfig.LockRetryBackoff)
			w, err = wal.OpenURL(rawURL, activeConfig.ReplayScratchSize)
		}
		if err != nil {
			log.Printf("papyrus: opening wal layer %q: %v", rawURL, err)
			return nil, false
		}
		return w, true
	default:
		return nil, false
	}
}
