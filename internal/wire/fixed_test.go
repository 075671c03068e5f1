package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestAppendUint16(t *testing.T) {
	tests := []struct {
		name     string
		value    uint16
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00}},
		{"one", 1, []byte{0x00, 0x01}},
		{"256", 256, []byte{0x01, 0x00}},
		{"0x1234", 0x1234, []byte{0x12, 0x34}},
		{"max_uint16", math.MaxUint16, []byte{0xff, 0xff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendUint16(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendUint16(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestAppendUint32(t *testing.T) {
	tests := []struct {
		name     string
		value    uint32
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00, 0x00, 0x00}},
		{"one", 1, []byte{0x00, 0x00, 0x00, 0x01}},
		{"0x12345678", 0x12345678, []byte{0x12, 0x34, 0x56, 0x78}},
		{"max_uint32", math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendUint32(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendUint32(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestAppendUint64(t *testing.T) {
	tests := []struct {
		name     string
		value    uint64
		expected []byte
	}{
		{"zero", 0, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"one", 1, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{"0x123456789ABCDEF0", 0x123456789ABCDEF0, []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}},
		{"max_uint64", math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendUint64(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendUint64(%d) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestDecodeUint16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{"zero", []byte{0x00, 0x00}, 0},
		{"one", []byte{0x00, 0x01}, 1},
		{"0x1234", []byte{0x12, 0x34}, 0x1234},
		{"max_uint16", []byte{0xff, 0xff}, math.MaxUint16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DecodeUint16(tc.data)
			if err != nil {
				t.Fatalf("DecodeUint16(%v) error: %v", tc.data, err)
			}
			if result != tc.expected {
				t.Errorf("DecodeUint16(%v) = %d, want %d", tc.data, result, tc.expected)
			}
		})
	}
}

func TestDecodeUint32(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0},
		{"one", []byte{0x00, 0x00, 0x00, 0x01}, 1},
		{"0x12345678", []byte{0x12, 0x34, 0x56, 0x78}, 0x12345678},
		{"max_uint32", []byte{0xff, 0xff, 0xff, 0xff}, math.MaxUint32},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DecodeUint32(tc.data)
			if err != nil {
				t.Fatalf("DecodeUint32(%v) error: %v", tc.data, err)
			}
			if result != tc.expected {
				t.Errorf("DecodeUint32(%v) = %d, want %d", tc.data, result, tc.expected)
			}
		})
	}
}

func TestDecodeUint64(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint64
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 0},
		{"one", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, 1},
		{"max_uint64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, math.MaxUint64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DecodeUint64(tc.data)
			if err != nil {
				t.Fatalf("DecodeUint64(%v) error: %v", tc.data, err)
			}
			if result != tc.expected {
				t.Errorf("DecodeUint64(%v) = %d, want %d", tc.data, result, tc.expected)
			}
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	tests := []struct {
		name string
		fn   func([]byte) error
		data []byte
	}{
		{"uint16_empty", func(d []byte) error { _, err := DecodeUint16(d); return err }, []byte{}},
		{"uint16_one_byte", func(d []byte) error { _, err := DecodeUint16(d); return err }, []byte{0x01}},
		{"uint32_three_bytes", func(d []byte) error { _, err := DecodeUint32(d); return err }, []byte{0x01, 0x02, 0x03}},
		{"uint64_seven_bytes", func(d []byte) error { _, err := DecodeUint64(d); return err }, make([]byte, 7)},
		{"float32_empty", func(d []byte) error { _, err := DecodeFloat32(d); return err }, []byte{}},
		{"float64_seven_bytes", func(d []byte) error { _, err := DecodeFloat64(d); return err }, make([]byte, 7)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(tc.data); err != ErrTruncated {
				t.Errorf("got %v, want ErrTruncated", err)
			}
		})
	}
}

func TestAppendFloat32(t *testing.T) {
	tests := []struct {
		name     string
		value    float32
		expected []byte
	}{
		{"zero", 0.0, []byte{0x00, 0x00, 0x00, 0x00}},
		{"one", 1.0, []byte{0x3f, 0x80, 0x00, 0x00}},
		{"minus_one", -1.0, []byte{0xbf, 0x80, 0x00, 0x00}},
		{"pos_inf", float32(math.Inf(1)), []byte{0x7f, 0x80, 0x00, 0x00}},
		{"neg_inf", float32(math.Inf(-1)), []byte{0xff, 0x80, 0x00, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendFloat32(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendFloat32(%v) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestAppendFloat64(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected []byte
	}{
		{"zero", 0.0, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"one", 1.0, []byte{0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"minus_one", -1.0, []byte{0xbf, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"pos_inf", math.Inf(1), []byte{0x7f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendFloat64(nil, tc.value)
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("AppendFloat64(%v) = %v, want %v", tc.value, result, tc.expected)
			}
		})
	}
}

func TestFloatBitsPreserved(t *testing.T) {
	// The payload carries raw IEEE 754 bits. Negative zero and NaN payloads
	// must round-trip exactly.
	patterns := []uint64{
		0x8000000000000000, // -0.0
		0x7FF8000000000001, // quiet NaN with payload
		0xFFF8000000000000, // negative quiet NaN
	}

	for _, bits := range patterns {
		v := math.Float64frombits(bits)
		encoded := AppendFloat64(nil, v)
		decoded, err := DecodeFloat64(encoded)
		if err != nil {
			t.Fatalf("DecodeFloat64 error: %v", err)
		}
		if math.Float64bits(decoded) != bits {
			t.Errorf("bits 0x%016X round-tripped to 0x%016X", bits, math.Float64bits(decoded))
		}
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.5, -0.5,
		math.Pi, -math.Pi,
		math.MaxFloat64, -math.MaxFloat64,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1),
	}

	for _, v := range values {
		encoded := AppendFloat64(nil, v)
		decoded, err := DecodeFloat64(encoded)
		if err != nil {
			t.Errorf("Float64 round trip error for %v: %v", v, err)
			continue
		}
		if decoded != v {
			t.Errorf("Float64 round trip: %v -> %v -> %v", v, encoded, decoded)
		}
	}
}

func TestFitsFloat32(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		fits  bool
	}{
		{"zero", 0, true},
		{"one", 1, true},
		{"half", 0.5, true},
		{"pi", math.Pi, false},
		{"pos_inf", math.Inf(1), true},
		{"neg_inf", math.Inf(-1), true},
		{"nan", math.NaN(), false},
		{"max_float32", float64(math.MaxFloat32), true},
		{"max_float64", math.MaxFloat64, false},
		{"tenth", 0.1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FitsFloat32(tc.value); got != tc.fits {
				t.Errorf("FitsFloat32(%v) = %v, want %v", tc.value, got, tc.fits)
			}
		})
	}
}

func BenchmarkAppendUint32(b *testing.B) {
	buf := make([]byte, 0, 8)
	for i := 0; i < b.N; i++ {
		buf = AppendUint32(buf[:0], 0x12345678)
	}
}

func BenchmarkAppendUint64(b *testing.B) {
	buf := make([]byte, 0, 16)
	for i := 0; i < b.N; i++ {
		buf = AppendUint64(buf[:0], 0x123456789ABCDEF0)
	}
}

func BenchmarkDecodeUint64(b *testing.B) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	for i := 0; i < b.N; i++ {
		_, _ = DecodeUint64(data)
	}
}

func FuzzUint64RoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(1))
	f.Add(uint64(math.MaxUint64))

	f.Fuzz(func(t *testing.T, v uint64) {
		encoded := AppendUint64(nil, v)
		decoded, err := DecodeUint64(encoded)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if decoded != v {
			t.Fatalf("round trip failed: %d -> %d", v, decoded)
		}
	})
}

func FuzzFloat64RoundTrip(f *testing.F) {
	f.Add(uint64(0))                  // 0.0
	f.Add(uint64(0x3FF0000000000000)) // 1.0
	f.Add(uint64(0x7FF0000000000000)) // +Inf
	f.Add(uint64(0x7FF8000000000000)) // NaN

	f.Fuzz(func(t *testing.T, bits uint64) {
		v := math.Float64frombits(bits)
		encoded := AppendFloat64(nil, v)
		decoded, err := DecodeFloat64(encoded)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if math.Float64bits(decoded) != bits {
			t.Fatalf("round trip changed bits: 0x%016X -> 0x%016X", bits, math.Float64bits(decoded))
		}
	})
}
