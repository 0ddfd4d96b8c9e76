package papyrus

import (
	"fmt"
	"testing"
)

func benchKeys(n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = NewIntKey(int64(i))
	}
	return keys
}

func benchValue(b *testing.B) Value {
	b.Helper()
	v, err := NewRawValue([]byte("hello world"))
	if err != nil {
		b.Fatal(err)
	}
	return v
}

func benchLayerOperation(b *testing.B, url string) {
	keys := benchKeys(1000)
	value := benchValue(b)

	b.Run(fmt.Sprintf("put/%s", url), func(b *testing.B) {
		l, ok := GetLayer(url)
		if !ok {
			b.Fatalf("could not open layer %q", url)
		}
		defer l.Unlink()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			for _, k := range keys {
				l.Put(k, value)
			}
		}
	})

	b.Run(fmt.Sprintf("iter/%s", url), func(b *testing.B) {
		l, ok := GetLayer(url)
		if !ok {
			b.Fatalf("could not open layer %q", url)
		}
		defer l.Unlink()
		for _, k := range keys {
			l.Put(k, value)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = l.Iter()
		}
	})

	b.Run(fmt.Sprintf("forward/%s", url), func(b *testing.B) {
		l, ok := GetLayer(url)
		if !ok {
			b.Fatalf("could not open layer %q", url)
		}
		defer l.Unlink()
		for _, k := range keys {
			l.Put(k, value)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = l.Forward(nil)
		}
	})

	b.Run(fmt.Sprintf("backward/%s", url), func(b *testing.B) {
		l, ok := GetLayer(url)
		if !ok {
			b.Fatalf("could not open layer %q", url)
		}
		defer l.Unlink()
		for _, k := range keys {
			l.Put(k, value)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = l.Backward(nil)
		}
	})
}

func BenchmarkLayerOperation(b *testing.B) {
	benchLayerOperation(b, "mem://")
	benchLayerOperation(b, "wal://"+b.TempDir()+"/bench_wal")
}
