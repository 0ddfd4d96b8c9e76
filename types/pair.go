package types

// Pair is the tuple (Key, Value) persisted by the WAL layer. Its codec is
// the concatenation of the Key's and the Value's self-describing encodings.
type Pair struct {
	Key   Key
	Value Value
}

// NewPair constructs a Pair.
func NewPair(key Key, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// Pack encodes the Pair as Key.Pack() followed by Value.Pack().
func (p Pair) Pack() []byte {
	kb := p.Key.Pack()
	vb := p.Value.Pack()
	buf := make([]byte, len(kb)+len(vb))
	copy(buf, kb)
	copy(buf[len(kb):], vb)
	return buf
}

// UnpackPair decodes one packed Pair from the front of data and returns the
// unconsumed remainder.
func UnpackPair(data []byte) (Pair, []byte, error) {
	key, rest, err := UnpackKey(data)
	if err != nil {
		return Pair{}, nil, err
	}
	value, rest, err := UnpackValue(rest)
	if err != nil {
		return Pair{}, nil, err
	}
	return Pair{Key: key, Value: value}, rest, nil
}

// UnpackPairIter greedily decodes packed Pairs from data until it is
// exhausted or a decode fails; this is the WAL replay recovery policy — a
// damaged tail (a torn record at EOF) silently truncates the sequence.
func UnpackPairIter(data []byte) []Pair {
	var out []Pair
	remaining := data
	for len(remaining) > 0 {
		p, rest, err := UnpackPair(remaining)
		if err != nil {
			break
		}
		out = append(out, p)
		remaining = rest
	}
	return out
}
