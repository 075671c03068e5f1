package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrTruncated indicates the input ended inside a fixed-width payload.
var ErrTruncated = errors.New("lingonberry: truncated payload")

// Sizes of the fixed-width payloads that follow a tag byte.
const (
	Uint8Size   = 1
	Uint16Size  = 2
	Uint32Size  = 4
	Uint64Size  = 8
	Float32Size = 4
	Float64Size = 8
)

// AppendUint16 appends a 16-bit value in big-endian byte order.
func AppendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

// AppendUint32 appends a 32-bit value in big-endian byte order.
func AppendUint32(buf []byte, v uint32) []byte {
	return append(buf,
		byte(v>>24),
		byte(v>>16),
		byte(v>>8),
		byte(v),
	)
}

// AppendUint64 appends a 64-bit value in big-endian byte order.
func AppendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>56),
		byte(v>>48),
		byte(v>>40),
		byte(v>>32),
		byte(v>>24),
		byte(v>>16),
		byte(v>>8),
		byte(v),
	)
}

// DecodeUint16 decodes a big-endian 16-bit value.
// Returns an error if the input is too short.
func DecodeUint16(data []byte) (uint16, error) {
	if len(data) < Uint16Size {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint16(data), nil
}

// DecodeUint32 decodes a big-endian 32-bit value.
// Returns an error if the input is too short.
func DecodeUint32(data []byte) (uint32, error) {
	if len(data) < Uint32Size {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint32(data), nil
}

// DecodeUint64 decodes a big-endian 64-bit value.
// Returns an error if the input is too short.
func DecodeUint64(data []byte) (uint64, error) {
	if len(data) < Uint64Size {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint64(data), nil
}

// Float payloads carry the IEEE 754 bit pattern unchanged. NaN payloads and
// the sign of zero round-trip exactly.

// AppendFloat32 appends the big-endian bit pattern of a float32.
func AppendFloat32(buf []byte, v float32) []byte {
	return AppendUint32(buf, math.Float32bits(v))
}

// AppendFloat64 appends the big-endian bit pattern of a float64.
func AppendFloat64(buf []byte, v float64) []byte {
	return AppendUint64(buf, math.Float64bits(v))
}

// DecodeFloat32 decodes a float32 from its big-endian bit pattern.
func DecodeFloat32(data []byte) (float32, error) {
	bits, err := DecodeUint32(data)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// DecodeFloat64 decodes a float64 from its big-endian bit pattern.
func DecodeFloat64(data []byte) (float64, error) {
	bits, err := DecodeUint64(data)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// FitsFloat32 reports whether the float64 survives a round trip through
// float32 without losing precision. Infinities fit; NaN does not round-trip
// bit-exactly, so it is kept at 64 bits.
func FitsFloat32(f float64) bool {
	return float64(float32(f)) == f
}
