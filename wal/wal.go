// Package wal implements WalLayer, Papyrus's append-only file-backed Layer:
// every mutation is a packed Pair frame appended to a FileBase-managed file,
// and reads are served by replaying and filtering that log.
package wal

import (
	"log"
	"net/url"
	"runtime"
	"sort"

	"papyrus/filebase"
	"papyrus/layer"
	"papyrus/types"
)

// typeWAL is the FileBase TYPE discriminant for WAL-backed files.
const typeWAL uint8 = 0x01

// WalLayer is a Layer backed by a single append-only FileBase file. It
// keeps no in-memory index — every read replays the file.
type WalLayer struct {
	fb          *filebase.FileBase
	scratchSize int
}

var _ layer.Layer = (*WalLayer)(nil)

// Open creates or reopens the WAL file at path. scratchSize preallocates
// the pair slice replay builds on every read (Get/Iter/Forward/Backward);
// 0 lets the runtime grow it on demand.
func Open(path string, scratchSize int) (*WalLayer, error) {
	fb, err := filebase.Open(path, &filebase.Meta{Typ: typeWAL})
	if err != nil {
		return nil, err
	}
	w := &WalLayer{fb: fb, scratchSize: scratchSize}
	// Approximates the source's Drop: if a caller never calls Close, the
	// PID lock is still erased when the handle is collected.
	runtime.SetFinalizer(w, (*WalLayer).finalize)
	return w, nil
}

// OpenURL parses a wal:// URL and opens the WAL file it names. Per the
// registry's path-derivation rule, the file path is url.Host joined with
// url.Path, so "wal://bench_wal" resolves to "bench_wal" and
// "wal:///tmp/x" resolves to "/tmp/x". This is the one place that
// derivation happens — GetLayer calls through here rather than
// re-deriving the path itself.
func OpenURL(rawURL string, scratchSize int) (*WalLayer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, types.WrapError(types.KindInvalidArgument, "parsing wal:// url", err)
	}
	return Open(u.Host+u.Path, scratchSize)
}

func (w *WalLayer) finalize() {
	if err := w.fb.Close(); err != nil {
		log.Printf("wal: finalizer close failed: %v", err)
	}
}

// replay decodes every packed Pair frame in the log, greedily, the same
// truncate-on-damaged-tail policy as types.UnpackPairIter — reimplemented
// here (rather than delegating to it) so scratchSize can preallocate the
// result slice instead of letting it grow on demand.
func (w *WalLayer) replay() []types.Pair {
	data, err := w.fb.ReadToEnd()
	if err != nil {
		log.Printf("wal: replay read failed: %v", err)
		return nil
	}
	pairs := make([]types.Pair, 0, w.scratchSize)
	remaining := data
	for len(remaining) > 0 {
		p, rest, err := types.UnpackPair(remaining)
		if err != nil {
			break
		}
		pairs = append(pairs, p)
		remaining = rest
	}
	return pairs
}

// Get replays the log and returns the value of the last pair whose key
// equals key, or (zero, false) if none match.
func (w *WalLayer) Get(key types.Key) (types.Value, bool) {
	var found types.Value
	ok := false
	for _, p := range w.replay() {
		if p.Key.Compare(key) == 0 {
			found = p.Value
			ok = true
		}
	}
	return found, ok
}

// Put appends a packed Pair(key, value) record to the log. It always
// returns (zero, false): the WAL backend never looks up a prior value,
// a deliberate write-cost trade-off. Append failures are logged, not
// surfaced, matching the source's fire-and-forget write contract.
func (w *WalLayer) Put(key types.Key, value types.Value) (types.Value, bool) {
	pair := types.NewPair(key, value)
	if err := w.fb.Append(pair.Pack()); err != nil {
		log.Printf("wal: append failed: %v", err)
	}
	return types.Value{}, false
}

// Del appends a tombstone record for key.
func (w *WalLayer) Del(key types.Key) {
	w.Put(key, types.DeletedValue())
}

// Iter replays the full log in file order — the natural insertion order.
// Duplicates and tombstones are all emitted.
func (w *WalLayer) Iter() []layer.Pair {
	pairs := w.replay()
	out := make([]layer.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = layer.Pair{Key: p.Key, Value: p.Value}
	}
	return out
}

// Forward replays the log, keeps records with key >= base (base == nil is
// unbounded), and sorts the result ascending by key. Duplicates and
// tombstones are preserved.
func (w *WalLayer) Forward(base *types.Key) []layer.Pair {
	pairs := w.replay()
	out := make([]layer.Pair, 0, len(pairs))
	for _, p := range pairs {
		if base == nil || p.Key.Compare(*base) >= 0 {
			out = append(out, layer.Pair{Key: p.Key, Value: p.Value})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key.Compare(out[j].Key) < 0 })
	return out
}

// Backward replays the log, keeps records with key <= base (base == nil is
// unbounded), and sorts the result descending by key.
func (w *WalLayer) Backward(base *types.Key) []layer.Pair {
	pairs := w.replay()
	out := make([]layer.Pair, 0, len(pairs))
	for _, p := range pairs {
		if base == nil || p.Key.Compare(*base) <= 0 {
			out = append(out, layer.Pair{Key: p.Key, Value: p.Value})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key.Compare(out[j].Key) > 0 })
	return out
}

// Close erases the PID lock, syncs, and closes the backing file without
// removing it — §5's "drop → PID-erase + sync + close". The layer is not
// usable afterward.
func (w *WalLayer) Close() error {
	runtime.SetFinalizer(w, nil)
	return w.fb.Close()
}

// Unlink closes the backing file and removes it.
func (w *WalLayer) Unlink() {
	runtime.SetFinalizer(w, nil)
	w.fb.Unlink()
}

// Compact is currently a no-op, reserved for a future log-rewrite swap via
// FileBase.MigrateFrom.
func (w *WalLayer) Compact() {}
