package lingonberry

import (
	"bytes"
	"testing"
)

// FuzzReadAny feeds arbitrary bytes to the dynamic decoder. It must either
// return a value or report an error without panicking, and SecureLimits must
// hold the line on resource use.
func FuzzReadAny(f *testing.F) {
	f.Add([]byte{0xc0})
	f.Add([]byte{0x2a})
	f.Add([]byte{0xa5, 'H', 'e', 'l', 'l', 'o'})
	f.Add([]byte{0x93, 0x01, 0x02, 0x03})
	f.Add([]byte{0x81, 0xa3, 'b', 'a', 'r', 0x02})
	f.Add([]byte{0xc7, 0x0b, 0x01, 0x82, 0x01, 0x93, 0x03, 0x05, 0x09, 0x02, 0x93, 0x01, 0x04, 0x07})
	f.Add([]byte{0xcb, 0x3f, 0xb9, 0x99, 0x99, 0x99, 0x99, 0x99, 0x9a})
	f.Add([]byte{0xc1})
	f.Add([]byte{0xdd, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReaderWithOptions(data, SecureOptions)
		r.ReadAny()
		_ = r.Err()
	})
}

// FuzzSkip checks that Skip and ReadAny agree on how many bytes a value
// occupies whenever the value is readable at all.
func FuzzSkip(f *testing.F) {
	f.Add([]byte{0x92, 0x01, 0xa2, 'h', 'i'})
	f.Add([]byte{0xc7, 0x03, 0x01, 0x81, 0x01, 0x02})
	f.Add([]byte{0xc4, 0x02, 0xaa, 0xbb})

	f.Fuzz(func(t *testing.T, data []byte) {
		ra := NewReaderWithOptions(data, SecureOptions)
		ra.ReadAny()
		if ra.Err() != nil {
			return
		}

		rs := NewReaderWithOptions(data, SecureOptions)
		rs.Skip()
		if rs.Err() != nil {
			t.Fatalf("ReadAny succeeded but Skip failed: %v", rs.Err())
		}
		if rs.Pos() != ra.Pos() {
			t.Errorf("Skip consumed %d bytes, ReadAny consumed %d", rs.Pos(), ra.Pos())
		}
	})
}

// FuzzRoundTripString checks that any valid string survives encode/decode.
func FuzzRoundTripString(f *testing.F) {
	f.Add("")
	f.Add("Hello")
	f.Add("雪の結晶")
	f.Add(string(make([]byte, 300)))

	f.Fuzz(func(t *testing.T, s string) {
		w := NewWriter()
		w.WriteString(s)
		if w.Err() != nil {
			// Invalid UTF-8 inputs are rejected on write.
			return
		}
		r := NewReader(w.Bytes())
		got := r.ReadString()
		r.ExpectEOF()
		if r.Err() != nil {
			t.Fatalf("decode error: %v", r.Err())
		}
		if got != s {
			t.Errorf("round trip changed string: %q -> %q", s, got)
		}
	})
}

// FuzzRoundTripInt checks shortest-form integers decode back exactly.
func FuzzRoundTripInt(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(-1))
	f.Add(int64(127))
	f.Add(int64(-32))
	f.Add(int64(545345))
	f.Add(int64(-9223372036854775808))

	f.Fuzz(func(t *testing.T, v int64) {
		w := NewWriter()
		w.WriteInt(v)
		r := NewReader(w.Bytes())
		got := r.ReadInt64()
		r.ExpectEOF()
		if r.Err() != nil {
			t.Fatalf("decode error for %d: %v", v, r.Err())
		}
		if got != v {
			t.Errorf("round trip changed value: %d -> %d", v, got)
		}
	})
}

// FuzzUnmarshalStruct throws arbitrary bytes at the reflection decoder.
func FuzzUnmarshalStruct(f *testing.F) {
	seed, _ := Marshal(outer{Foo: []inner{{Bar: 2}, {Bar: 4}}})
	f.Add(seed)
	f.Add([]byte{0x81, 0xa3, 'f', 'o', 'o', 0xc0})
	f.Add([]byte{0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		var v outer
		_ = UnmarshalWithOptions(data, &v, SecureOptions)
	})
}

func TestConcurrentMarshal(t *testing.T) {
	// The struct info and enum caches are shared; hammer them from many
	// goroutines to catch races under -race.
	in := outer{Foo: []inner{{Bar: 1}, {Bar: 2}, {Bar: 3}}}
	want, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				data, err := Marshal(in)
				if err != nil {
					done <- err
					return
				}
				if !bytes.Equal(data, want) {
					done <- NewEncodeError("concurrent encode mismatch", nil)
					return
				}
				var out outer
				if err := Unmarshal(data, &out); err != nil {
					done <- err
					return
				}
				if _, err := Marshal(color(1)); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
