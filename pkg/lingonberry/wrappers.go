package lingonberry

import (
	"bytes"
	"encoding/json"
	"math/big"
)

// BigInt is an arbitrary-precision integer that serializes as its base-10
// string form, so peers without native big integers can still carry it.
type BigInt struct {
	big.Int
}

// NewBigInt returns a BigInt holding v.
func NewBigInt(v int64) *BigInt {
	b := &BigInt{}
	b.SetInt64(v)
	return b
}

// NewBigIntFromString parses a base-10 string into a BigInt.
func NewBigIntFromString(s string) (*BigInt, bool) {
	b := &BigInt{}
	if _, ok := b.SetString(s, 10); !ok {
		return nil, false
	}
	return b, true
}

// MarshalLingonberry writes the base-10 string form.
func (b *BigInt) MarshalLingonberry(w *Writer) error {
	w.WriteString(b.String())
	return w.Err()
}

// UnmarshalLingonberry reads and parses the base-10 string form.
func (b *BigInt) UnmarshalLingonberry(r *Reader) error {
	s := r.ReadString()
	if r.Err() != nil {
		return r.Err()
	}
	if _, ok := b.SetString(s, 10); !ok {
		return NewDecodeError("invalid big integer "+s, nil)
	}
	return nil
}

// JSON is a raw JSON document that serializes as its compact string form.
// The document is validated on both paths.
type JSON struct {
	Raw json.RawMessage
}

// NewJSON validates and wraps a JSON document.
func NewJSON(raw []byte) (*JSON, error) {
	if !json.Valid(raw) {
		return nil, NewEncodeError("invalid JSON document", nil)
	}
	return &JSON{Raw: append([]byte(nil), raw...)}, nil
}

// MarshalLingonberry writes the compacted JSON text as a string.
func (j *JSON) MarshalLingonberry(w *Writer) error {
	if !json.Valid(j.Raw) {
		return NewEncodeError("invalid JSON document", nil)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, j.Raw); err != nil {
		return NewEncodeError("invalid JSON document", err)
	}
	w.WriteString(buf.String())
	return w.Err()
}

// UnmarshalLingonberry reads a string and validates it as JSON.
func (j *JSON) UnmarshalLingonberry(r *Reader) error {
	s := r.ReadString()
	if r.Err() != nil {
		return r.Err()
	}
	raw := []byte(s)
	if !json.Valid(raw) {
		return NewDecodeError("invalid JSON document", nil)
	}
	j.Raw = raw
	return nil
}

// Unmarshal decodes the wrapped document into v.
func (j *JSON) Unmarshal(v any) error {
	return json.Unmarshal(j.Raw, v)
}

// String returns the raw JSON text.
func (j *JSON) String() string {
	return string(j.Raw)
}
