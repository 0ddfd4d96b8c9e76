// Package mem implements MemLayer, Papyrus's in-memory Layer backend: a
// plain map paired with a sorted "seen" set that preserves tombstones for
// iteration, matching the source's mem.rs behavior.
package mem

import (
	"net/url"
	"sort"
	"sync"

	"papyrus/layer"
	"papyrus/types"
)

// MemLayer is a Layer backed entirely by process memory. It is discarded
// when the process exits; Unlink simply clears it.
type MemLayer struct {
	mu   sync.Mutex
	live map[types.Key]types.Value
	seen []types.Key // kept sorted by Key.Compare; every key ever put or deleted
}

var _ layer.Layer = (*MemLayer)(nil)

// New returns an empty MemLayer.
func New() *MemLayer {
	return &MemLayer{live: make(map[types.Key]types.Value)}
}

// Open parses a mem:// URL and returns a fresh MemLayer. The URL carries no
// meaningful address component — mem:// layers are never shared across
// processes — so any host/path is accepted and ignored.
func Open(rawURL string) (*MemLayer, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, types.WrapError(types.KindInvalidArgument, "parsing mem:// url", err)
	}
	return New(), nil
}

func (m *MemLayer) markSeen(k types.Key) {
	i := sort.Search(len(m.seen), func(i int) bool { return m.seen[i].Compare(k) >= 0 })
	if i < len(m.seen) && m.seen[i].Compare(k) == 0 {
		return
	}
	m.seen = append(m.seen, types.Key{})
	copy(m.seen[i+1:], m.seen[i:])
	m.seen[i] = k
}

// getLocked implements get(k): live first, then seen-as-tombstone, then
// not-found. Caller must hold m.mu.
func (m *MemLayer) getLocked(key types.Key) (types.Value, bool) {
	if v, ok := m.live[key]; ok {
		return v, true
	}
	i := sort.Search(len(m.seen), func(i int) bool { return m.seen[i].Compare(key) >= 0 })
	if i < len(m.seen) && m.seen[i].Compare(key) == 0 {
		return types.DeletedValue(), true
	}
	return types.Value{}, false
}

// Get returns the value of key: its live value if present, Deleted if the
// key was seen but is not live (i.e. deleted), or (zero, false) if the key
// was never seen.
func (m *MemLayer) Get(key types.Key) (types.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(key)
}

// Put sets key to value and returns the prior value, if any.
func (m *MemLayer) Put(key types.Key, value types.Value) (types.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.getLocked(key)
	m.live[key] = value
	m.markSeen(key)
	return prev, had
}

// Del removes key from the live map while keeping it in seen, so Get
// continues to report it as Deleted rather than not-found.
func (m *MemLayer) Del(key types.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, key)
	m.markSeen(key)
}

// Iter yields every pair this layer has seen, in descending key order. This
// mirrors an implementation detail of the source worth preserving rather
// than "fixing": the seen set is maintained in ascending order but iterated
// back to front.
func (m *MemLayer) Iter() []layer.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]layer.Pair, 0, len(m.seen))
	for i := len(m.seen) - 1; i >= 0; i-- {
		k := m.seen[i]
		v, _ := m.getLocked(k)
		out = append(out, layer.Pair{Key: k, Value: v})
	}
	return out
}

// Forward yields pairs in ascending key order, optionally starting at base.
func (m *MemLayer) Forward(base *types.Key) []layer.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if base != nil {
		start = sort.Search(len(m.seen), func(i int) bool { return m.seen[i].Compare(*base) >= 0 })
	}
	out := make([]layer.Pair, 0, len(m.seen)-start)
	for i := start; i < len(m.seen); i++ {
		k := m.seen[i]
		v, _ := m.getLocked(k)
		out = append(out, layer.Pair{Key: k, Value: v})
	}
	return out
}

// Backward yields pairs in descending key order, optionally starting at
// base.
func (m *MemLayer) Backward(base *types.Key) []layer.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := len(m.seen)
	if base != nil {
		end = sort.Search(len(m.seen), func(i int) bool { return m.seen[i].Compare(*base) > 0 })
	}
	out := make([]layer.Pair, 0, end)
	for i := end - 1; i >= 0; i-- {
		k := m.seen[i]
		v, _ := m.getLocked(k)
		out = append(out, layer.Pair{Key: k, Value: v})
	}
	return out
}

// Unlink discards all entries. The layer remains usable afterward.
func (m *MemLayer) Unlink() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live = make(map[types.Key]types.Value)
	m.seen = nil
}

// Close is a no-op: a MemLayer holds no resource beyond process memory, so
// there is nothing to flush or release.
func (m *MemLayer) Close() error { return nil }

// Compact replaces seen with live's current key set, dropping tombstones
// (keys with no live value) from future iteration results.
func (m *MemLayer) Compact() {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make([]types.Key, 0, len(m.live))
	for k := range m.live {
		seen = append(seen, k)
	}
	sort.Slice(seen, func(i, j int) bool { return seen[i].Compare(seen[j]) < 0 })
	m.seen = seen
}
