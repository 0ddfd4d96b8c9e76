// Package layer defines the uniform contract every Papyrus backend
// implements, independent of how it stores data.
package layer

import "papyrus/types"

// Layer is the abstraction every backend (MemLayer, WalLayer, ...)
// implements. All mutating operations require exclusive access to the
// handle; iterators returned by Iter, Forward, and Backward borrow the
// layer exclusively for their lifetime — no concurrent mutation during
// iteration.
type Layer interface {
	// Get returns the value of key, or (zero, false) if the key was never
	// seen by this layer. A key that was put and later deleted returns
	// (Deleted, true), not (zero, false), unless a Compact has since dropped
	// that tombstone.
	Get(key types.Key) (types.Value, bool)

	// Put sets the value of key, which may overwrite an existing value
	// without warning. It returns the prior value, if any backend chooses
	// to report one (the WAL backend never does — see §4.4).
	Put(key types.Key, value types.Value) (types.Value, bool)

	// Del marks key as deleted. It does not necessarily erase the value —
	// Get may still return it as Deleted afterwards.
	Del(key types.Key)

	// Iter yields every (key, value) pair this layer has observed, in the
	// backend's natural order.
	Iter() []Pair

	// Forward yields pairs in ascending key order, optionally starting at
	// base (inclusive). A nil base means unbounded.
	Forward(base *types.Key) []Pair

	// Backward yields pairs in descending key order, optionally starting at
	// base (inclusive). A nil base means unbounded.
	Backward(base *types.Key) []Pair

	// Unlink removes the layer's backing storage (memory or file). A
	// MemLayer is empty but still usable afterward; a WalLayer's file is
	// deleted and the handle is not usable afterward.
	Unlink()

	// Compact removes data marked as deleted from future iteration results
	// where the backend is able to do so cheaply.
	Compact()

	// Close flushes the layer (best-effort) and releases any resources it
	// holds, without removing its backing storage — the Go rendering of
	// the source's Drop: "flushes (best-effort) but does not remove its
	// backing file" (§3). A layer is not usable after Close. MemLayer's
	// Close is a no-op, since process memory needs no flush or release.
	Close() error
}

// Pair is the (Key, Value) result of an iteration method.
type Pair struct {
	Key   types.Key
	Value types.Value
}
