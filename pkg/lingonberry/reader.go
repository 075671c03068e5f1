package lingonberry

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/blockberries/lingonberry/internal/wire"
)

// Reader provides efficient binary decoding with position tracking.
// Readers are lightweight and can be reused.
//
// Typed reads apply cross-tag coercion: any integer form on the wire decodes
// into any integer target wide enough to hold the value, a Float32 payload
// widens into a float64 target, and a leading nil stands in for the empty
// string, empty bytes, empty array, or empty map.
//
// The zero value is not ready for use; create with NewReader.
type Reader struct {
	data  []byte
	pos   int
	opts  Options
	depth int
	err   error
}

// NewReader creates a new Reader for the given data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		opts: DefaultOptions,
	}
}

// NewReaderWithOptions creates a new Reader with the specified options.
func NewReaderWithOptions(data []byte, opts Options) *Reader {
	return &Reader{
		data: data,
		opts: opts,
	}
}

// Reset resets the reader to read from new data.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
	r.depth = 0
	r.err = nil
}

// SetOptions updates the reader's options.
func (r *Reader) SetOptions(opts Options) {
	r.opts = opts
}

// Options returns the reader's current options.
func (r *Reader) Options() Options {
	return r.opts
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the unread portion of the data.
func (r *Reader) Remaining() []byte {
	if r.pos >= len(r.data) {
		return nil
	}
	return r.data[r.pos:]
}

// EOF returns true if all data has been read.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

// ExpectEOF records ErrTrailingBytes if unread bytes remain.
func (r *Reader) ExpectEOF() {
	if r.err == nil && r.pos < len(r.data) {
		r.setErrorAt(ErrTrailingBytes, fmt.Sprintf("%d trailing bytes", len(r.data)-r.pos))
	}
}

// Err returns the first error that occurred during reading, if any.
func (r *Reader) Err() error {
	return r.err
}

// setError records the first error that occurs.
func (r *Reader) setError(err error) {
	if r.err == nil {
		r.err = err
	}
}

// setErrorAt records an error with position information.
func (r *Reader) setErrorAt(err error, message string) {
	if r.err == nil {
		r.err = NewDecodeErrorAt(r.pos, message, err)
	}
}

// setTypeError records a shape mismatch for the tag at offset.
func (r *Reader) setTypeError(offset int, want error, found wire.Format) {
	if r.err == nil {
		r.err = newTypeError(offset, expectedName(want), found, want)
	}
}

// expectedName maps a shape-mismatch sentinel to the type name used in messages.
func expectedName(sentinel error) string {
	switch sentinel {
	case ErrExpectedBoolean:
		return "bool"
	case ErrExpectedUInteger:
		return "uint"
	case ErrExpectedInteger:
		return "int"
	case ErrExpectedFloat:
		return "float"
	case ErrExpectedString:
		return "string"
	case ErrExpectedChar:
		return "char"
	case ErrExpectedBytes:
		return "bytes"
	case ErrExpectedNil:
		return "nil"
	case ErrExpectedArray:
		return "array"
	case ErrExpectedMap:
		return "map"
	case ErrExpectedExt:
		return "ext"
	case ErrExpectedEnum:
		return "enum"
	default:
		return "value"
	}
}

// checkRead ensures we can read from the buffer.
func (r *Reader) checkRead() bool {
	return r.err == nil
}

// ensure checks that n bytes are available.
func (r *Reader) ensure(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.setErrorAt(ErrUnexpectedEnd, "unexpected end of data")
		return false
	}
	return true
}

// enterNested increases the nesting depth and checks limits.
func (r *Reader) enterNested() bool {
	if r.opts.Limits.MaxDepth > 0 && r.depth >= r.opts.Limits.MaxDepth {
		r.setError(ErrMaxDepthExceeded)
		return false
	}
	r.depth++
	return true
}

// exitNested decreases the nesting depth.
func (r *Reader) exitNested() {
	if r.depth > 0 {
		r.depth--
	}
}

// PeekTag classifies the next tag byte without consuming it.
func (r *Reader) PeekTag() wire.Tag {
	if !r.ensure(1) {
		return wire.Tag{}
	}
	return wire.Classify(r.data[r.pos])
}

// readTag classifies and consumes the next tag byte.
func (r *Reader) readTag() wire.Tag {
	if !r.ensure(1) {
		return wire.Tag{}
	}
	tag := wire.Classify(r.data[r.pos])
	r.pos++
	return tag
}

// take consumes n payload bytes and returns them, or nil on truncation.
func (r *Reader) take(n int) []byte {
	if !r.ensure(n) {
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// takeUint16 consumes a big-endian 16-bit payload.
func (r *Reader) takeUint16() uint16 {
	b := r.take(wire.Uint16Size)
	if b == nil {
		return 0
	}
	v, _ := wire.DecodeUint16(b)
	return v
}

// takeUint32 consumes a big-endian 32-bit payload.
func (r *Reader) takeUint32() uint32 {
	b := r.take(wire.Uint32Size)
	if b == nil {
		return 0
	}
	v, _ := wire.DecodeUint32(b)
	return v
}

// takeUint64 consumes a big-endian 64-bit payload.
func (r *Reader) takeUint64() uint64 {
	b := r.take(wire.Uint64Size)
	if b == nil {
		return 0
	}
	v, _ := wire.DecodeUint64(b)
	return v
}

// ReadNil consumes a nil marker.
func (r *Reader) ReadNil() {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return
	}
	if tag.Format != wire.FormatNil {
		r.setTypeError(start, ErrExpectedNil, tag.Format)
	}
}

// PeekIsNil reports whether the next value is the nil marker.
func (r *Reader) PeekIsNil() bool {
	if r.err != nil || r.pos >= len(r.data) {
		return false
	}
	return r.data[r.pos] == wire.TagNil
}

// TryReadNil consumes a nil marker if one is next and reports whether it did.
func (r *Reader) TryReadNil() bool {
	if r.PeekIsNil() {
		r.pos++
		return true
	}
	return false
}

// ReadBool reads a boolean value.
func (r *Reader) ReadBool() bool {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return false
	}
	switch tag.Format {
	case wire.FormatTrue:
		return true
	case wire.FormatFalse:
		return false
	default:
		r.setTypeError(start, ErrExpectedBoolean, tag.Format)
		return false
	}
}

// readUnsigned decodes any integer form into a uint64, rejecting negatives.
func (r *Reader) readUnsigned() uint64 {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	switch tag.Format {
	case wire.FormatPositiveFixInt:
		return uint64(tag.Param)
	case wire.FormatUint8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		return uint64(b[0])
	case wire.FormatUint16:
		return uint64(r.takeUint16())
	case wire.FormatUint32:
		return uint64(r.takeUint32())
	case wire.FormatUint64:
		return r.takeUint64()
	case wire.FormatNegativeFixInt:
		r.setErrorAt(ErrExpectedUInteger, "unsigned integer cannot be negative")
		return 0
	case wire.FormatInt8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		return r.nonNegative(int64(int8(b[0])))
	case wire.FormatInt16:
		return r.nonNegative(int64(int16(r.takeUint16())))
	case wire.FormatInt32:
		return r.nonNegative(int64(int32(r.takeUint32())))
	case wire.FormatInt64:
		return r.nonNegative(int64(r.takeUint64()))
	default:
		r.setTypeError(start, ErrExpectedUInteger, tag.Format)
		return 0
	}
}

// nonNegative converts a signed payload read into an unsigned context.
func (r *Reader) nonNegative(v int64) uint64 {
	if r.err != nil {
		return 0
	}
	if v < 0 {
		r.setErrorAt(ErrExpectedUInteger, "unsigned integer cannot be negative")
		return 0
	}
	return uint64(v)
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() uint64 {
	return r.readUnsigned()
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() uint32 {
	start := r.pos
	v := r.readUnsigned()
	if r.err == nil && v > math.MaxUint32 {
		r.setError(newUnsignedOverflowError(start, v, 32))
		return 0
	}
	return uint32(v)
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() uint16 {
	start := r.pos
	v := r.readUnsigned()
	if r.err == nil && v > math.MaxUint16 {
		r.setError(newUnsignedOverflowError(start, v, 16))
		return 0
	}
	return uint16(v)
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() uint8 {
	start := r.pos
	v := r.readUnsigned()
	if r.err == nil && v > math.MaxUint8 {
		r.setError(newUnsignedOverflowError(start, v, 8))
		return 0
	}
	return uint8(v)
}

// readSigned decodes any integer form into an int64.
func (r *Reader) readSigned() int64 {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	switch tag.Format {
	case wire.FormatPositiveFixInt, wire.FormatNegativeFixInt:
		return int64(tag.Param)
	case wire.FormatInt8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		return int64(int8(b[0]))
	case wire.FormatInt16:
		return int64(int16(r.takeUint16()))
	case wire.FormatInt32:
		return int64(int32(r.takeUint32()))
	case wire.FormatInt64:
		return int64(r.takeUint64())
	case wire.FormatUint8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		return int64(b[0])
	case wire.FormatUint16:
		return int64(r.takeUint16())
	case wire.FormatUint32:
		return int64(r.takeUint32())
	case wire.FormatUint64:
		v := r.takeUint64()
		if r.err == nil && v > math.MaxInt64 {
			r.setError(newUnsignedOverflowError(start, v, 64))
			return 0
		}
		return int64(v)
	default:
		r.setTypeError(start, ErrExpectedInteger, tag.Format)
		return 0
	}
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() int64 {
	return r.readSigned()
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() int32 {
	start := r.pos
	v := r.readSigned()
	if r.err == nil && (v < math.MinInt32 || v > math.MaxInt32) {
		r.setError(newOverflowError(start, v, 32))
		return 0
	}
	return int32(v)
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() int16 {
	start := r.pos
	v := r.readSigned()
	if r.err == nil && (v < math.MinInt16 || v > math.MaxInt16) {
		r.setError(newOverflowError(start, v, 16))
		return 0
	}
	return int16(v)
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() int8 {
	start := r.pos
	v := r.readSigned()
	if r.err == nil && (v < math.MinInt8 || v > math.MaxInt8) {
		r.setError(newOverflowError(start, v, 8))
		return 0
	}
	return int8(v)
}

// ReadFloat32 reads a 32-bit float. Only the Float32 form is accepted;
// a Float64 payload would lose precision and is rejected.
func (r *Reader) ReadFloat32() float32 {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	if tag.Format != wire.FormatFloat32 {
		r.setTypeError(start, ErrExpectedFloat, tag.Format)
		return 0
	}
	return math.Float32frombits(r.takeUint32())
}

// ReadFloat64 reads a 64-bit float. A Float32 payload widens losslessly.
func (r *Reader) ReadFloat64() float64 {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	switch tag.Format {
	case wire.FormatFloat64:
		return math.Float64frombits(r.takeUint64())
	case wire.FormatFloat32:
		return float64(math.Float32frombits(r.takeUint32()))
	default:
		r.setTypeError(start, ErrExpectedFloat, tag.Format)
		return 0
	}
}

// readStringLength consumes a string header and returns the byte length.
// A leading nil stands in for the empty string, and a fixarray tag is
// accepted as a length for compatibility with historical encoders.
func (r *Reader) readStringLength() int {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	var n int
	switch tag.Format {
	case wire.FormatFixStr, wire.FormatFixArray:
		n = tag.Param
	case wire.FormatStr8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		n = int(b[0])
	case wire.FormatStr16:
		n = int(r.takeUint16())
	case wire.FormatStr32:
		n = int(int64(r.takeUint32()))
	case wire.FormatNil:
		return 0
	default:
		r.setTypeError(start, ErrExpectedString, tag.Format)
		return 0
	}
	if r.err != nil {
		return 0
	}
	if r.opts.Limits.MaxStringLength > 0 && n > r.opts.Limits.MaxStringLength {
		r.setError(ErrMaxStringLength)
		return 0
	}
	return n
}

// ReadString reads a UTF-8 string.
func (r *Reader) ReadString() string {
	n := r.readStringLength()
	if r.err != nil || n == 0 {
		return ""
	}
	b := r.take(n)
	if b == nil {
		return ""
	}
	if r.opts.ValidateUTF8 && !utf8.Valid(b) {
		r.setError(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// ReadRune reads a string holding exactly one code point.
func (r *Reader) ReadRune() rune {
	start := r.pos
	s := r.ReadString()
	if r.err != nil {
		return 0
	}
	if utf8.RuneCountInString(s) != 1 {
		r.setError(NewDecodeErrorAt(start, fmt.Sprintf("expected a single char, found %d chars", utf8.RuneCountInString(s)), ErrExpectedChar))
		return 0
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c
}

// readBytesLength consumes a bytes header and returns the byte length.
// A leading nil stands in for the empty blob.
func (r *Reader) readBytesLength() int {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	var n int
	switch tag.Format {
	case wire.FormatBin8:
		b := r.take(1)
		if b == nil {
			return 0
		}
		n = int(b[0])
	case wire.FormatBin16:
		n = int(r.takeUint16())
	case wire.FormatBin32:
		n = int(int64(r.takeUint32()))
	case wire.FormatNil:
		return 0
	default:
		r.setTypeError(start, ErrExpectedBytes, tag.Format)
		return 0
	}
	if r.err != nil {
		return 0
	}
	if r.opts.Limits.MaxBytesLength > 0 && n > r.opts.Limits.MaxBytesLength {
		r.setError(ErrMaxBytesLength)
		return 0
	}
	return n
}

// ReadBytes reads a byte blob. The result is a copy of the input.
func (r *Reader) ReadBytes() []byte {
	n := r.readBytesLength()
	if r.err != nil || n == 0 {
		return nil
	}
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadArrayHeader consumes an array header and returns the element count.
// A leading nil stands in for the empty array.
func (r *Reader) ReadArrayHeader() int {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	var n int
	switch tag.Format {
	case wire.FormatFixArray:
		n = tag.Param
	case wire.FormatArray16:
		n = int(r.takeUint16())
	case wire.FormatArray32:
		n = int(int64(r.takeUint32()))
	case wire.FormatNil:
		return 0
	default:
		r.setTypeError(start, ErrExpectedArray, tag.Format)
		return 0
	}
	if r.err != nil {
		return 0
	}
	if r.opts.Limits.MaxArrayLength > 0 && n > r.opts.Limits.MaxArrayLength {
		r.setError(ErrMaxArrayLength)
		return 0
	}
	return n
}

// ReadStructHeader consumes a bare map header and returns the field count.
// Structs are bare maps on the wire; no extension envelope is expected.
// A leading nil stands in for the empty struct.
func (r *Reader) ReadStructHeader() int {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	var n int
	switch tag.Format {
	case wire.FormatFixMap:
		n = tag.Param
	case wire.FormatMap16:
		n = int(r.takeUint16())
	case wire.FormatMap32:
		n = int(int64(r.takeUint32()))
	case wire.FormatNil:
		return 0
	default:
		r.setTypeError(start, ErrExpectedMap, tag.Format)
		return 0
	}
	if r.err != nil {
		return 0
	}
	if r.opts.Limits.MaxMapSize > 0 && n > r.opts.Limits.MaxMapSize {
		r.setError(ErrMaxMapSize)
		return 0
	}
	return n
}

// readExtHeader consumes an extension header and returns the payload length
// and extension type.
func (r *Reader) readExtHeader() (int, ExtensionType) {
	start := r.pos
	tag := r.readTag()
	if r.err != nil {
		return 0, 0
	}
	var n int
	switch tag.Format {
	case wire.FormatFixExt1:
		n = 1
	case wire.FormatFixExt2:
		n = 2
	case wire.FormatFixExt4:
		n = 4
	case wire.FormatFixExt8:
		n = 8
	case wire.FormatFixExt16:
		n = 16
	case wire.FormatExt8:
		b := r.take(1)
		if b == nil {
			return 0, 0
		}
		n = int(b[0])
	case wire.FormatExt16:
		n = int(r.takeUint16())
	case wire.FormatExt32:
		n = int(int64(r.takeUint32()))
	default:
		r.setTypeError(start, ErrExpectedExt, tag.Format)
		return 0, 0
	}
	if r.err != nil {
		return 0, 0
	}
	b := r.take(1)
	if b == nil {
		return 0, 0
	}
	return n, ExtensionType(int8(b[0]))
}

// ReadMapHeader consumes a generic map's extension envelope and the bare map
// header inside it, returning the entry count. The extension type byte must
// be the generic map marker. A leading nil stands in for the empty map.
func (r *Reader) ReadMapHeader() int {
	if r.TryReadNil() {
		return 0
	}
	start := r.pos
	_, typ := r.readExtHeader()
	if r.err != nil {
		return 0
	}
	if typ != ExtGenericMap {
		r.setError(NewDecodeErrorAt(start, fmt.Sprintf("extension type must be GenericMap (%d); found %d", int8(ExtGenericMap), int8(typ)), ErrExpectedExt))
		return 0
	}
	return r.ReadStructHeader()
}

// ArrayIter walks the elements of an array.
type ArrayIter struct {
	r         *Reader
	remaining int
}

// ReadArray consumes an array header and returns an element iterator.
func (r *Reader) ReadArray() *ArrayIter {
	n := r.ReadArrayHeader()
	return &ArrayIter{r: r, remaining: n}
}

// Len returns the number of elements not yet visited.
func (it *ArrayIter) Len() int {
	return it.remaining
}

// Next reports whether another element is available and advances the count.
// The caller reads the element value from the Reader after each true return.
func (it *ArrayIter) Next() bool {
	if it.r.err != nil || it.remaining == 0 {
		return false
	}
	it.remaining--
	return true
}

// StructIter walks the fields of a struct (a bare map of name/value pairs).
type StructIter struct {
	r         *Reader
	remaining int
}

// ReadStruct consumes a bare map header and returns a field iterator.
func (r *Reader) ReadStruct() *StructIter {
	n := r.ReadStructHeader()
	return &StructIter{r: r, remaining: n}
}

// Len returns the number of fields not yet visited.
func (it *StructIter) Len() int {
	return it.remaining
}

// Next reports whether another field is available and advances the count.
// The caller reads the field name and then the value after each true return.
func (it *StructIter) Next() bool {
	if it.r.err != nil || it.remaining == 0 {
		return false
	}
	it.remaining--
	return true
}

// MapIter walks the entries of a generic map.
type MapIter struct {
	r         *Reader
	remaining int
}

// ReadMap consumes a generic map envelope and returns an entry iterator.
func (r *Reader) ReadMap() *MapIter {
	n := r.ReadMapHeader()
	return &MapIter{r: r, remaining: n}
}

// Len returns the number of entries not yet visited.
func (it *MapIter) Len() int {
	return it.remaining
}

// Next reports whether another entry is available and advances the count.
// The caller reads the key and then the value after each true return.
func (it *MapIter) Next() bool {
	if it.r.err != nil || it.remaining == 0 {
		return false
	}
	it.remaining--
	return true
}

// ReadEnum decodes an enum as either an unsigned variant index or a variant
// name string, returning the variant index.
func (r *Reader) ReadEnum(variants []string) int {
	start := r.pos
	tag := r.PeekTag()
	if r.err != nil {
		return 0
	}
	switch tag.Format {
	case wire.FormatPositiveFixInt,
		wire.FormatUint8, wire.FormatUint16, wire.FormatUint32, wire.FormatUint64,
		wire.FormatNegativeFixInt,
		wire.FormatInt8, wire.FormatInt16, wire.FormatInt32, wire.FormatInt64:
		idx := r.readUnsigned()
		if r.err != nil {
			return 0
		}
		if idx >= uint64(len(variants)) {
			r.setError(NewDecodeErrorAt(start, fmt.Sprintf("enum index %d out of range; %d variants", idx, len(variants)), ErrExpectedUInteger))
			return 0
		}
		return int(idx)
	case wire.FormatFixStr, wire.FormatStr8, wire.FormatStr16, wire.FormatStr32:
		name := r.ReadString()
		if r.err != nil {
			return 0
		}
		for i, v := range variants {
			if v == name {
				return i
			}
		}
		r.setError(NewDecodeErrorAt(start, fmt.Sprintf("unknown enum variant %q", name), ErrExpectedEnum))
		return 0
	default:
		r.pos++ // consume the offending tag
		r.setTypeError(start, ErrExpectedEnum, tag.Format)
		return 0
	}
}

// ReadAny decodes the next value by its own tag. Integer forms keep their
// wire width: a fixint yields an int8, Uint16 a uint16, and so on. Bare maps
// decode as map[string]any; generic map envelopes decode as map[any]any.
func (r *Reader) ReadAny() any {
	if !r.checkRead() {
		return nil
	}
	start := r.pos
	tag := r.PeekTag()
	if r.err != nil {
		return nil
	}
	switch tag.Format {
	case wire.FormatNil:
		r.pos++
		return nil
	case wire.FormatTrue, wire.FormatFalse:
		return r.ReadBool()
	case wire.FormatPositiveFixInt, wire.FormatNegativeFixInt, wire.FormatInt8:
		return r.ReadInt8()
	case wire.FormatInt16:
		return r.ReadInt16()
	case wire.FormatInt32:
		return r.ReadInt32()
	case wire.FormatInt64:
		return r.ReadInt64()
	case wire.FormatUint8:
		return r.ReadUint8()
	case wire.FormatUint16:
		return r.ReadUint16()
	case wire.FormatUint32:
		return r.ReadUint32()
	case wire.FormatUint64:
		return r.ReadUint64()
	case wire.FormatFloat32:
		return r.ReadFloat32()
	case wire.FormatFloat64:
		return r.ReadFloat64()
	case wire.FormatFixStr, wire.FormatStr8, wire.FormatStr16, wire.FormatStr32:
		return r.ReadString()
	case wire.FormatBin8, wire.FormatBin16, wire.FormatBin32:
		return r.ReadBytes()
	case wire.FormatFixArray, wire.FormatArray16, wire.FormatArray32:
		if !r.enterNested() {
			return nil
		}
		defer r.exitNested()
		n := r.ReadArrayHeader()
		out := make([]any, 0, minInt(n, 1024))
		for i := 0; i < n && r.err == nil; i++ {
			out = append(out, r.ReadAny())
		}
		return out
	case wire.FormatFixMap, wire.FormatMap16, wire.FormatMap32:
		// A bare map at a self-describing position is a struct body.
		if !r.enterNested() {
			return nil
		}
		defer r.exitNested()
		n := r.ReadStructHeader()
		out := make(map[string]any, minInt(n, 1024))
		for i := 0; i < n && r.err == nil; i++ {
			k := r.ReadString()
			out[k] = r.ReadAny()
		}
		return out
	case wire.FormatExt8, wire.FormatExt16, wire.FormatExt32,
		wire.FormatFixExt1, wire.FormatFixExt2, wire.FormatFixExt4,
		wire.FormatFixExt8, wire.FormatFixExt16:
		if !r.enterNested() {
			return nil
		}
		defer r.exitNested()
		extLen, typ := r.readExtHeader()
		if r.err != nil {
			return nil
		}
		if typ != ExtGenericMap {
			r.setError(NewDecodeErrorAt(start, fmt.Sprintf("extension type must be GenericMap (%d); found %d", int8(ExtGenericMap), int8(typ)), ErrExpectedExt))
			return nil
		}
		end := r.pos + extLen
		n := r.ReadStructHeader()
		out := make(map[any]any, minInt(n, 1024))
		for i := 0; i < n && r.err == nil; i++ {
			kStart := r.pos
			k := r.ReadAny()
			v := r.ReadAny()
			if r.err != nil {
				break
			}
			switch k.(type) {
			case []any, []byte, map[string]any, map[any]any:
				r.setError(NewDecodeErrorAt(kStart, "map key is not hashable", ErrExpectedMap))
			default:
				out[k] = v
			}
		}
		if r.err == nil && r.pos != end {
			r.setError(NewDecodeErrorAt(start, fmt.Sprintf("extension length %d does not match map contents", extLen), ErrExpectedMap))
			return nil
		}
		return out
	default: // FormatReserved
		r.pos++
		r.setError(NewDecodeErrorAt(start, "reserved format byte 0xc1", ErrReservedFormat))
		return nil
	}
}

// Skip discards the next value, descending into aggregates.
func (r *Reader) Skip() {
	if !r.checkRead() {
		return
	}
	start := r.pos
	tag := r.PeekTag()
	if r.err != nil {
		return
	}
	switch tag.Format {
	case wire.FormatNil, wire.FormatTrue, wire.FormatFalse,
		wire.FormatPositiveFixInt, wire.FormatNegativeFixInt:
		r.pos++
	case wire.FormatInt8, wire.FormatUint8:
		r.pos++
		r.take(1)
	case wire.FormatInt16, wire.FormatUint16:
		r.pos++
		r.take(wire.Uint16Size)
	case wire.FormatInt32, wire.FormatUint32, wire.FormatFloat32:
		r.pos++
		r.take(wire.Uint32Size)
	case wire.FormatInt64, wire.FormatUint64, wire.FormatFloat64:
		r.pos++
		r.take(wire.Uint64Size)
	case wire.FormatFixStr, wire.FormatStr8, wire.FormatStr16, wire.FormatStr32:
		n := r.readStringLength()
		r.take(n)
	case wire.FormatBin8, wire.FormatBin16, wire.FormatBin32:
		n := r.readBytesLength()
		r.take(n)
	case wire.FormatFixArray, wire.FormatArray16, wire.FormatArray32:
		if !r.enterNested() {
			return
		}
		defer r.exitNested()
		n := r.ReadArrayHeader()
		for i := 0; i < n && r.err == nil; i++ {
			r.Skip()
		}
	case wire.FormatFixMap, wire.FormatMap16, wire.FormatMap32:
		if !r.enterNested() {
			return
		}
		defer r.exitNested()
		n := r.ReadStructHeader()
		for i := 0; i < n && r.err == nil; i++ {
			r.Skip()
			r.Skip()
		}
	case wire.FormatExt8, wire.FormatExt16, wire.FormatExt32,
		wire.FormatFixExt1, wire.FormatFixExt2, wire.FormatFixExt4,
		wire.FormatFixExt8, wire.FormatFixExt16:
		// The envelope length covers the whole payload; no need to descend.
		n, _ := r.readExtHeader()
		r.take(n)
	default:
		r.pos++
		r.setError(NewDecodeErrorAt(start, "reserved format byte 0xc1", ErrReservedFormat))
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
