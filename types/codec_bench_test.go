package types

import "testing"

// BenchmarkIntToKey and BenchmarkStringToKey are the Go rendition of the
// source's benches/01_type_convert.rs key_convert criterion benchmark.
func BenchmarkIntToKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewIntKey(34182)
	}
}

func BenchmarkStringToKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewStringKey("Test Key")
	}
}

// BenchmarkStringToValue is the Go rendition of value_convert in the same
// source benchmark file.
func BenchmarkStringToValue(b *testing.B) {
	data := []byte("Test 測試 テスト prüfen ทดสอบ")
	for i := 0; i < b.N; i++ {
		_, _ = NewRawValue(data)
	}
}

func BenchmarkKeyPack(b *testing.B) {
	k := NewStringKey("Test Key")
	for i := 0; i < b.N; i++ {
		_ = k.Pack()
	}
}

func BenchmarkPairUnpack(b *testing.B) {
	v, _ := NewRawValue([]byte("hello world"))
	p := NewPair(NewIntKey(1), v)
	packed := p.Pack()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = UnpackPair(packed)
	}
}
