// Package wire provides low-level encoding primitives for the Lingonberry wire format.
package wire

// Format identifies the wire-format family selected by a value's leading tag byte.
type Format uint8

const (
	// FormatPositiveFixInt covers tag bytes 0x00-0x7f. The tag byte is the value.
	FormatPositiveFixInt Format = iota

	// FormatFixMap covers tag bytes 0x80-0x8f. The low nibble is the entry count.
	FormatFixMap

	// FormatFixArray covers tag bytes 0x90-0x9f. The low nibble is the element count.
	FormatFixArray

	// FormatFixStr covers tag bytes 0xa0-0xbf. The low 5 bits are the byte length.
	FormatFixStr

	// FormatNil is tag byte 0xc0.
	FormatNil

	// FormatReserved is tag byte 0xc1. It never appears in valid data.
	FormatReserved

	// FormatFalse and FormatTrue are tag bytes 0xc2 and 0xc3.
	FormatFalse
	FormatTrue

	// FormatBin8/16/32 are length-prefixed binary payloads (tags 0xc4-0xc6).
	FormatBin8
	FormatBin16
	FormatBin32

	// FormatExt8/16/32 are length-prefixed extension payloads (tags 0xc7-0xc9).
	// The length counts the payload bytes and excludes the extension type byte
	// that follows the length field.
	FormatExt8
	FormatExt16
	FormatExt32

	// FormatFloat32 and FormatFloat64 are IEEE 754 payloads (tags 0xca, 0xcb).
	FormatFloat32
	FormatFloat64

	// FormatUint8/16/32/64 are unsigned payloads (tags 0xcc-0xcf).
	FormatUint8
	FormatUint16
	FormatUint32
	FormatUint64

	// FormatInt8/16/32/64 are two's-complement payloads (tags 0xd0-0xd3).
	FormatInt8
	FormatInt16
	FormatInt32
	FormatInt64

	// FormatFixExt1/2/4/8/16 are fixed-length extension payloads (tags 0xd4-0xd8).
	FormatFixExt1
	FormatFixExt2
	FormatFixExt4
	FormatFixExt8
	FormatFixExt16

	// FormatStr8/16/32 are length-prefixed UTF-8 payloads (tags 0xd9-0xdb).
	FormatStr8
	FormatStr16
	FormatStr32

	// FormatArray16 and FormatArray32 carry a 16- or 32-bit element count (tags 0xdc, 0xdd).
	FormatArray16
	FormatArray32

	// FormatMap16 and FormatMap32 carry a 16- or 32-bit entry count (tags 0xde, 0xdf).
	FormatMap16
	FormatMap32

	// FormatNegativeFixInt covers tag bytes 0xe0-0xff, the values -32 through -1.
	FormatNegativeFixInt
)

// Fixed tag bytes for the formats that carry no embedded parameter.
const (
	TagNil      byte = 0xc0
	TagReserved byte = 0xc1
	TagFalse    byte = 0xc2
	TagTrue     byte = 0xc3
	TagBin8     byte = 0xc4
	TagBin16    byte = 0xc5
	TagBin32    byte = 0xc6
	TagExt8     byte = 0xc7
	TagExt16    byte = 0xc8
	TagExt32    byte = 0xc9
	TagFloat32  byte = 0xca
	TagFloat64  byte = 0xcb
	TagUint8    byte = 0xcc
	TagUint16   byte = 0xcd
	TagUint32   byte = 0xce
	TagUint64   byte = 0xcf
	TagInt8     byte = 0xd0
	TagInt16    byte = 0xd1
	TagInt32    byte = 0xd2
	TagInt64    byte = 0xd3
	TagFixExt1  byte = 0xd4
	TagFixExt2  byte = 0xd5
	TagFixExt4  byte = 0xd6
	TagFixExt8  byte = 0xd7
	TagFixExt16 byte = 0xd8
	TagStr8     byte = 0xd9
	TagStr16    byte = 0xda
	TagStr32    byte = 0xdb
	TagArray16  byte = 0xdc
	TagArray32  byte = 0xdd
	TagMap16    byte = 0xde
	TagMap32    byte = 0xdf
)

// Embedded-parameter ranges for the fix families.
const (
	FixMapBase   byte = 0x80 // 0x80-0x8f
	FixArrayBase byte = 0x90 // 0x90-0x9f
	FixStrBase   byte = 0xa0 // 0xa0-0xbf

	MaxFixInt   = 0x7f // largest PositiveFixInt value
	MaxFixMap   = 0x0f // largest FixMap entry count
	MaxFixArray = 0x0f // largest FixArray element count
	MaxFixStr   = 0x1f // largest FixStr byte length
	MinFixInt   = -32  // smallest NegativeFixInt value
)

// Tag is a classified leading byte. For the fix families Param carries the
// embedded parameter: the integer value for PositiveFixInt and NegativeFixInt
// (negative for the latter), the length or count for FixStr, FixArray and FixMap.
// For every other format Param is zero.
type Tag struct {
	Format Format
	Param  int
}

// Classify decodes a leading tag byte into its format and embedded parameter.
// Every byte value classifies; 0xc1 classifies as FormatReserved.
func Classify(b byte) Tag {
	switch {
	case b <= 0x7f:
		return Tag{Format: FormatPositiveFixInt, Param: int(b)}
	case b <= 0x8f:
		return Tag{Format: FormatFixMap, Param: int(b & 0x0f)}
	case b <= 0x9f:
		return Tag{Format: FormatFixArray, Param: int(b & 0x0f)}
	case b <= 0xbf:
		return Tag{Format: FormatFixStr, Param: int(b & 0x1f)}
	case b >= 0xe0:
		return Tag{Format: FormatNegativeFixInt, Param: int(int8(b))}
	}

	switch b {
	case TagNil:
		return Tag{Format: FormatNil}
	case TagReserved:
		return Tag{Format: FormatReserved}
	case TagFalse:
		return Tag{Format: FormatFalse}
	case TagTrue:
		return Tag{Format: FormatTrue}
	case TagBin8:
		return Tag{Format: FormatBin8}
	case TagBin16:
		return Tag{Format: FormatBin16}
	case TagBin32:
		return Tag{Format: FormatBin32}
	case TagExt8:
		return Tag{Format: FormatExt8}
	case TagExt16:
		return Tag{Format: FormatExt16}
	case TagExt32:
		return Tag{Format: FormatExt32}
	case TagFloat32:
		return Tag{Format: FormatFloat32}
	case TagFloat64:
		return Tag{Format: FormatFloat64}
	case TagUint8:
		return Tag{Format: FormatUint8}
	case TagUint16:
		return Tag{Format: FormatUint16}
	case TagUint32:
		return Tag{Format: FormatUint32}
	case TagUint64:
		return Tag{Format: FormatUint64}
	case TagInt8:
		return Tag{Format: FormatInt8}
	case TagInt16:
		return Tag{Format: FormatInt16}
	case TagInt32:
		return Tag{Format: FormatInt32}
	case TagInt64:
		return Tag{Format: FormatInt64}
	case TagFixExt1:
		return Tag{Format: FormatFixExt1}
	case TagFixExt2:
		return Tag{Format: FormatFixExt2}
	case TagFixExt4:
		return Tag{Format: FormatFixExt4}
	case TagFixExt8:
		return Tag{Format: FormatFixExt8}
	case TagFixExt16:
		return Tag{Format: FormatFixExt16}
	case TagStr8:
		return Tag{Format: FormatStr8}
	case TagStr16:
		return Tag{Format: FormatStr16}
	case TagStr32:
		return Tag{Format: FormatStr32}
	case TagArray16:
		return Tag{Format: FormatArray16}
	case TagArray32:
		return Tag{Format: FormatArray32}
	case TagMap16:
		return Tag{Format: FormatMap16}
	default: // TagMap32
		return Tag{Format: FormatMap32}
	}
}

// Prefix is the inverse of Classify: it reassembles the leading byte from the
// format and embedded parameter. The parameter must be within the family's
// range; out-of-range bits are masked off.
func (t Tag) Prefix() byte {
	switch t.Format {
	case FormatPositiveFixInt:
		return byte(t.Param) & 0x7f
	case FormatFixMap:
		return FixMapBase | (byte(t.Param) & 0x0f)
	case FormatFixArray:
		return FixArrayBase | (byte(t.Param) & 0x0f)
	case FormatFixStr:
		return FixStrBase | (byte(t.Param) & 0x1f)
	case FormatNegativeFixInt:
		return byte(int8(t.Param)) | 0xe0
	case FormatNil:
		return TagNil
	case FormatReserved:
		return TagReserved
	case FormatFalse:
		return TagFalse
	case FormatTrue:
		return TagTrue
	case FormatBin8:
		return TagBin8
	case FormatBin16:
		return TagBin16
	case FormatBin32:
		return TagBin32
	case FormatExt8:
		return TagExt8
	case FormatExt16:
		return TagExt16
	case FormatExt32:
		return TagExt32
	case FormatFloat32:
		return TagFloat32
	case FormatFloat64:
		return TagFloat64
	case FormatUint8:
		return TagUint8
	case FormatUint16:
		return TagUint16
	case FormatUint32:
		return TagUint32
	case FormatUint64:
		return TagUint64
	case FormatInt8:
		return TagInt8
	case FormatInt16:
		return TagInt16
	case FormatInt32:
		return TagInt32
	case FormatInt64:
		return TagInt64
	case FormatFixExt1:
		return TagFixExt1
	case FormatFixExt2:
		return TagFixExt2
	case FormatFixExt4:
		return TagFixExt4
	case FormatFixExt8:
		return TagFixExt8
	case FormatFixExt16:
		return TagFixExt16
	case FormatStr8:
		return TagStr8
	case FormatStr16:
		return TagStr16
	case FormatStr32:
		return TagStr32
	case FormatArray16:
		return TagArray16
	case FormatArray32:
		return TagArray32
	case FormatMap16:
		return TagMap16
	default:
		return TagMap32
	}
}

var formatNames = [...]string{
	FormatPositiveFixInt: "int",
	FormatFixMap:         "map",
	FormatFixArray:       "array",
	FormatFixStr:         "string",
	FormatNil:            "nil",
	FormatReserved:       "reserved",
	FormatFalse:          "bool",
	FormatTrue:           "bool",
	FormatBin8:           "bytes",
	FormatBin16:          "bytes",
	FormatBin32:          "bytes",
	FormatExt8:           "ext",
	FormatExt16:          "ext",
	FormatExt32:          "ext",
	FormatFloat32:        "float32",
	FormatFloat64:        "float64",
	FormatUint8:          "uint8",
	FormatUint16:         "uint16",
	FormatUint32:         "uint32",
	FormatUint64:         "uint64",
	FormatInt8:           "int8",
	FormatInt16:          "int16",
	FormatInt32:          "int32",
	FormatInt64:          "int64",
	FormatFixExt1:        "ext",
	FormatFixExt2:        "ext",
	FormatFixExt4:        "ext",
	FormatFixExt8:        "ext",
	FormatFixExt16:       "ext",
	FormatStr8:           "string",
	FormatStr16:          "string",
	FormatStr32:          "string",
	FormatArray16:        "array",
	FormatArray32:        "array",
	FormatMap16:          "map",
	FormatMap32:          "map",
	FormatNegativeFixInt: "int",
}

// String returns the type name used in shape-mismatch error messages.
// Families that decode to the same kind share a name, so both FixStr and
// Str16 report "string".
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// Name returns the exact format name, distinguishing the members of each
// family. Used by diagnostic tooling rather than error messages.
func (f Format) Name() string {
	switch f {
	case FormatPositiveFixInt:
		return "positive fixint"
	case FormatFixMap:
		return "fixmap"
	case FormatFixArray:
		return "fixarray"
	case FormatFixStr:
		return "fixstr"
	case FormatNil:
		return "nil"
	case FormatReserved:
		return "reserved"
	case FormatFalse:
		return "false"
	case FormatTrue:
		return "true"
	case FormatBin8:
		return "bin8"
	case FormatBin16:
		return "bin16"
	case FormatBin32:
		return "bin32"
	case FormatExt8:
		return "ext8"
	case FormatExt16:
		return "ext16"
	case FormatExt32:
		return "ext32"
	case FormatFloat32:
		return "float32"
	case FormatFloat64:
		return "float64"
	case FormatUint8:
		return "uint8"
	case FormatUint16:
		return "uint16"
	case FormatUint32:
		return "uint32"
	case FormatUint64:
		return "uint64"
	case FormatInt8:
		return "int8"
	case FormatInt16:
		return "int16"
	case FormatInt32:
		return "int32"
	case FormatInt64:
		return "int64"
	case FormatFixExt1:
		return "fixext1"
	case FormatFixExt2:
		return "fixext2"
	case FormatFixExt4:
		return "fixext4"
	case FormatFixExt8:
		return "fixext8"
	case FormatFixExt16:
		return "fixext16"
	case FormatStr8:
		return "str8"
	case FormatStr16:
		return "str16"
	case FormatStr32:
		return "str32"
	case FormatArray16:
		return "array16"
	case FormatArray32:
		return "array32"
	case FormatMap16:
		return "map16"
	case FormatMap32:
		return "map32"
	case FormatNegativeFixInt:
		return "negative fixint"
	default:
		return "unknown"
	}
}
