package lingonberry

import (
	"math"
	"sync"
	"unicode/utf8"

	"github.com/blockberries/lingonberry/internal/wire"
)

// Writer provides efficient binary encoding with buffer management.
// Writers can be reused to reduce allocations.
//
// Every value is emitted in its shortest valid wire form: an integer that
// fits a fixint never takes a wider tag, a float64 that survives the round
// trip through float32 is narrowed, and so on.
//
// The zero value is ready to use, but for better performance,
// use NewWriter or a sync.Pool of writers.
type Writer struct {
	buf    []byte
	opts   Options
	depth  int
	err    error
	frozen bool // prevents further writes after Bytes() is called
}

// writerPool provides pooled writers for reduced allocations.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf:  make([]byte, 0, 256),
			opts: DefaultOptions,
		}
	},
}

// NewWriter creates a new Writer with default options.
func NewWriter() *Writer {
	return &Writer{
		buf:  make([]byte, 0, 256),
		opts: DefaultOptions,
	}
}

// NewWriterWithOptions creates a new Writer with the specified options.
func NewWriterWithOptions(opts Options) *Writer {
	return &Writer{
		buf:  make([]byte, 0, 256),
		opts: opts,
	}
}

// GetWriter gets a Writer from the pool.
// The Writer should be returned with PutWriter when done.
func GetWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// PutWriter returns a Writer to the pool.
// The Writer must not be used after calling this.
func PutWriter(w *Writer) {
	if w == nil {
		return
	}
	// Don't pool large buffers to avoid memory bloat
	if cap(w.buf) > 64*1024 {
		return
	}
	w.Reset()
	w.opts = DefaultOptions
	writerPool.Put(w)
}

// Reset clears the writer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.depth = 0
	w.err = nil
	w.frozen = false
}

// SetOptions updates the writer's options.
func (w *Writer) SetOptions(opts Options) {
	w.opts = opts
}

// Options returns the writer's current options.
func (w *Writer) Options() Options {
	return w.opts
}

// Len returns the current length of the encoded data.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the encoded data.
// The returned slice is only valid until the next call to Reset.
// To get a copy, use BytesCopy.
func (w *Writer) Bytes() []byte {
	w.frozen = true
	return w.buf
}

// BytesCopy returns a copy of the encoded data.
// This is safe to use after Reset or further writes.
func (w *Writer) BytesCopy() []byte {
	result := make([]byte, len(w.buf))
	copy(result, w.buf)
	return result
}

// Err returns the first error that occurred during writing, if any.
func (w *Writer) Err() error {
	return w.err
}

// setError records the first error that occurs.
func (w *Writer) setError(err error) {
	if w.err == nil {
		w.err = err
	}
}

// checkWrite ensures we can write to the buffer.
func (w *Writer) checkWrite() bool {
	if w.frozen {
		w.setError(NewEncodeError("writer is frozen after Bytes() call", nil))
		return false
	}
	return w.err == nil
}

// grow ensures the buffer has room for n more bytes.
func (w *Writer) grow(n int) {
	if len(w.buf)+n <= cap(w.buf) {
		return
	}
	newCap := cap(w.buf) * 2
	if newCap < len(w.buf)+n {
		newCap = len(w.buf) + n
	}
	if newCap > 256*1024*1024 {
		newCap = len(w.buf) + n
	}
	newBuf := make([]byte, len(w.buf), newCap)
	copy(newBuf, w.buf)
	w.buf = newBuf
}

// enterNested increases the nesting depth and checks limits.
func (w *Writer) enterNested() bool {
	if w.opts.Limits.MaxDepth > 0 && w.depth >= w.opts.Limits.MaxDepth {
		w.setError(ErrMaxDepthExceeded)
		return false
	}
	w.depth++
	return true
}

// exitNested decreases the nesting depth.
func (w *Writer) exitNested() {
	if w.depth > 0 {
		w.depth--
	}
}

// WriteNil writes the nil marker.
func (w *Writer) WriteNil() {
	if !w.checkWrite() {
		return
	}
	w.grow(1)
	w.buf = append(w.buf, wire.TagNil)
}

// WriteBool writes a boolean value.
func (w *Writer) WriteBool(v bool) {
	if !w.checkWrite() {
		return
	}
	w.grow(1)
	if v {
		w.buf = append(w.buf, wire.TagTrue)
	} else {
		w.buf = append(w.buf, wire.TagFalse)
	}
}

// WriteUint writes an unsigned integer in its shortest form.
func (w *Writer) WriteUint(v uint64) {
	if !w.checkWrite() {
		return
	}
	switch {
	case v <= wire.MaxFixInt:
		w.grow(1)
		w.buf = append(w.buf, byte(v))
	case v <= math.MaxUint8:
		w.grow(2)
		w.buf = append(w.buf, wire.TagUint8, byte(v))
	case v <= math.MaxUint16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagUint16)
		w.buf = wire.AppendUint16(w.buf, uint16(v))
	case v <= math.MaxUint32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagUint32)
		w.buf = wire.AppendUint32(w.buf, uint32(v))
	default:
		w.grow(9)
		w.buf = append(w.buf, wire.TagUint64)
		w.buf = wire.AppendUint64(w.buf, v)
	}
}

// WriteUint8 writes an unsigned 8-bit integer in its shortest form.
func (w *Writer) WriteUint8(v uint8) { w.WriteUint(uint64(v)) }

// WriteUint16 writes an unsigned 16-bit integer in its shortest form.
func (w *Writer) WriteUint16(v uint16) { w.WriteUint(uint64(v)) }

// WriteUint32 writes an unsigned 32-bit integer in its shortest form.
func (w *Writer) WriteUint32(v uint32) { w.WriteUint(uint64(v)) }

// WriteUint64 writes an unsigned 64-bit integer in its shortest form.
func (w *Writer) WriteUint64(v uint64) { w.WriteUint(v) }

// WriteInt writes a signed integer in its shortest form.
// Non-negative values take the unsigned encoding.
func (w *Writer) WriteInt(v int64) {
	if v >= 0 {
		w.WriteUint(uint64(v))
		return
	}
	if !w.checkWrite() {
		return
	}
	switch {
	case v >= wire.MinFixInt:
		w.grow(1)
		w.buf = append(w.buf, byte(int8(v)))
	case v >= math.MinInt8:
		w.grow(2)
		w.buf = append(w.buf, wire.TagInt8, byte(int8(v)))
	case v >= math.MinInt16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagInt16)
		w.buf = wire.AppendUint16(w.buf, uint16(int16(v)))
	case v >= math.MinInt32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagInt32)
		w.buf = wire.AppendUint32(w.buf, uint32(int32(v)))
	default:
		w.grow(9)
		w.buf = append(w.buf, wire.TagInt64)
		w.buf = wire.AppendUint64(w.buf, uint64(v))
	}
}

// WriteInt8 writes a signed 8-bit integer in its shortest form.
func (w *Writer) WriteInt8(v int8) { w.WriteInt(int64(v)) }

// WriteInt16 writes a signed 16-bit integer in its shortest form.
func (w *Writer) WriteInt16(v int16) { w.WriteInt(int64(v)) }

// WriteInt32 writes a signed 32-bit integer in its shortest form.
func (w *Writer) WriteInt32(v int32) { w.WriteInt(int64(v)) }

// WriteInt64 writes a signed 64-bit integer in its shortest form.
func (w *Writer) WriteInt64(v int64) { w.WriteInt(v) }

// WriteFloat32 writes a 32-bit floating point number.
func (w *Writer) WriteFloat32(v float32) {
	if !w.checkWrite() {
		return
	}
	w.grow(1 + wire.Float32Size)
	w.buf = append(w.buf, wire.TagFloat32)
	w.buf = wire.AppendFloat32(w.buf, v)
}

// WriteFloat64 writes a 64-bit floating point number. Values that survive
// the round trip through float32 are narrowed to the 32-bit form.
func (w *Writer) WriteFloat64(v float64) {
	if !w.checkWrite() {
		return
	}
	if wire.FitsFloat32(v) {
		w.WriteFloat32(float32(v))
		return
	}
	w.grow(1 + wire.Float64Size)
	w.buf = append(w.buf, wire.TagFloat64)
	w.buf = wire.AppendFloat64(w.buf, v)
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	if !w.checkWrite() {
		return
	}
	if w.opts.Limits.MaxStringLength > 0 && len(s) > w.opts.Limits.MaxStringLength {
		w.setError(ErrMaxStringLength)
		return
	}
	if w.opts.ValidateUTF8 && !utf8.ValidString(s) {
		w.setError(ErrInvalidUTF8)
		return
	}
	w.writeStringHeader(len(s))
	if w.err != nil {
		return
	}
	w.grow(len(s))
	w.buf = append(w.buf, s...)
}

// WriteRune writes a single code point as a one-character string.
func (w *Writer) WriteRune(r rune) {
	if !w.checkWrite() {
		return
	}
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	w.writeStringHeader(n)
	w.grow(n)
	w.buf = append(w.buf, tmp[:n]...)
}

// writeStringHeader writes the shortest string header for n bytes of data.
func (w *Writer) writeStringHeader(n int) {
	switch {
	case n <= wire.MaxFixStr:
		w.grow(1)
		w.buf = append(w.buf, wire.FixStrBase|byte(n))
	case n <= math.MaxUint8:
		w.grow(2)
		w.buf = append(w.buf, wire.TagStr8, byte(n))
	case n <= math.MaxUint16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagStr16)
		w.buf = wire.AppendUint16(w.buf, uint16(n))
	case int64(n) <= math.MaxUint32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagStr32)
		w.buf = wire.AppendUint32(w.buf, uint32(n))
	default:
		w.setError(NewEncodeError("string exceeds 4 GiB", nil))
	}
}

// WriteBytes writes a length-prefixed byte blob.
// An empty or nil slice is written as the nil marker.
func (w *Writer) WriteBytes(b []byte) {
	if !w.checkWrite() {
		return
	}
	if len(b) == 0 {
		w.WriteNil()
		return
	}
	if w.opts.Limits.MaxBytesLength > 0 && len(b) > w.opts.Limits.MaxBytesLength {
		w.setError(ErrMaxBytesLength)
		return
	}
	switch {
	case len(b) <= math.MaxUint8:
		w.grow(2)
		w.buf = append(w.buf, wire.TagBin8, byte(len(b)))
	case len(b) <= math.MaxUint16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagBin16)
		w.buf = wire.AppendUint16(w.buf, uint16(len(b)))
	case int64(len(b)) <= math.MaxUint32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagBin32)
		w.buf = wire.AppendUint32(w.buf, uint32(len(b)))
	default:
		w.setError(NewEncodeError("byte blob exceeds 4 GiB", nil))
		return
	}
	w.grow(len(b))
	w.buf = append(w.buf, b...)
}

// WriteArrayHeader writes the shortest array header for n elements.
// The caller must write exactly n values afterwards.
func (w *Writer) WriteArrayHeader(n int) {
	if !w.checkWrite() {
		return
	}
	if n < 0 {
		w.setError(NewEncodeError("negative array length", nil))
		return
	}
	if w.opts.Limits.MaxArrayLength > 0 && n > w.opts.Limits.MaxArrayLength {
		w.setError(ErrMaxArrayLength)
		return
	}
	switch {
	case n <= wire.MaxFixArray:
		w.grow(1)
		w.buf = append(w.buf, wire.FixArrayBase|byte(n))
	case n <= math.MaxUint16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagArray16)
		w.buf = wire.AppendUint16(w.buf, uint16(n))
	case int64(n) <= math.MaxUint32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagArray32)
		w.buf = wire.AppendUint32(w.buf, uint32(n))
	default:
		w.setError(NewEncodeError("array exceeds 4294967295 elements", nil))
	}
}

// WriteMapHeader writes the shortest bare map header for n entries.
// Bare maps are the struct representation; generic maps must go through
// BeginMap so they carry the extension envelope.
func (w *Writer) WriteMapHeader(n int) {
	if !w.checkWrite() {
		return
	}
	if n < 0 {
		w.setError(NewEncodeError("negative map size", nil))
		return
	}
	if w.opts.Limits.MaxMapSize > 0 && n > w.opts.Limits.MaxMapSize {
		w.setError(ErrMaxMapSize)
		return
	}
	switch {
	case n <= wire.MaxFixMap:
		w.grow(1)
		w.buf = append(w.buf, wire.FixMapBase|byte(n))
	case n <= math.MaxUint16:
		w.grow(3)
		w.buf = append(w.buf, wire.TagMap16)
		w.buf = wire.AppendUint16(w.buf, uint16(n))
	case int64(n) <= math.MaxUint32:
		w.grow(5)
		w.buf = append(w.buf, wire.TagMap32)
		w.buf = wire.AppendUint32(w.buf, uint32(n))
	default:
		w.setError(NewEncodeError("map exceeds 4294967295 entries", nil))
	}
}

// WriteExtHeader writes the shortest extension header: a byte length and the
// extension type byte. The caller must write exactly n payload bytes after.
func (w *Writer) WriteExtHeader(n int, typ ExtensionType) {
	if !w.checkWrite() {
		return
	}
	if n < 0 {
		w.setError(NewEncodeError("negative extension length", nil))
		return
	}
	switch {
	case n <= math.MaxUint8:
		w.grow(3)
		w.buf = append(w.buf, wire.TagExt8, byte(n))
	case n <= math.MaxUint16:
		w.grow(4)
		w.buf = append(w.buf, wire.TagExt16)
		w.buf = wire.AppendUint16(w.buf, uint16(n))
	case int64(n) <= math.MaxUint32:
		w.grow(6)
		w.buf = append(w.buf, wire.TagExt32)
		w.buf = wire.AppendUint32(w.buf, uint32(n))
	default:
		w.setError(NewEncodeError("extension exceeds 4 GiB", nil))
		return
	}
	w.buf = append(w.buf, byte(typ))
}

// WriteRaw appends already-encoded bytes without interpretation.
func (w *Writer) WriteRaw(b []byte) {
	if !w.checkWrite() {
		return
	}
	w.grow(len(b))
	w.buf = append(w.buf, b...)
}

// ArrayEncoder buffers array elements whose count is not known up front.
// The header and body are flushed to the parent writer on End.
type ArrayEncoder struct {
	parent *Writer
	body   *Writer
	count  int
}

// BeginArray starts an array of unknown length.
// Call Element before each value, then End exactly once.
func (w *Writer) BeginArray() *ArrayEncoder {
	if !w.enterNested() {
		return &ArrayEncoder{parent: w, body: w}
	}
	body := GetWriter()
	body.opts = w.opts
	body.depth = w.depth
	return &ArrayEncoder{parent: w, body: body}
}

// Element returns the writer for the next array element.
func (e *ArrayEncoder) Element() *Writer {
	e.count++
	return e.body
}

// End writes the array header followed by the buffered elements.
func (e *ArrayEncoder) End() {
	if e.body == e.parent {
		return // BeginArray already failed
	}
	e.parent.exitNested()
	if err := e.body.Err(); err != nil {
		e.parent.setError(err)
	} else {
		e.parent.WriteArrayHeader(e.count)
		e.parent.WriteRaw(e.body.buf)
	}
	PutWriter(e.body)
	e.body = nil
}

// StructEncoder buffers the fields of a struct. Structs appear on the wire
// as bare maps keyed by field-name strings, with no extension envelope.
type StructEncoder struct {
	parent *Writer
	body   *Writer
	count  int
}

// BeginStruct starts a struct value.
// Call Field once per field, then End exactly once.
func (w *Writer) BeginStruct() *StructEncoder {
	if !w.enterNested() {
		return &StructEncoder{parent: w, body: w}
	}
	body := GetWriter()
	body.opts = w.opts
	body.depth = w.depth
	return &StructEncoder{parent: w, body: body}
}

// Field writes the field name and returns the writer for its value.
func (e *StructEncoder) Field(name string) *Writer {
	e.count++
	e.body.WriteString(name)
	return e.body
}

// End writes the bare map header followed by the buffered fields.
func (e *StructEncoder) End() {
	if e.body == e.parent {
		return
	}
	e.parent.exitNested()
	if err := e.body.Err(); err != nil {
		e.parent.setError(err)
	} else {
		e.parent.WriteMapHeader(e.count)
		e.parent.WriteRaw(e.body.buf)
	}
	PutWriter(e.body)
	e.body = nil
}

// MapEncoder buffers the entries of a generic key/value map. On End the
// bare map (header plus entries) is wrapped in an extension envelope whose
// length is the byte length of that body, so maps are buffered even when
// the entry count is known in advance.
type MapEncoder struct {
	parent *Writer
	body   *Writer
	count  int
}

// BeginMap starts a generic map value.
// Call Key then Value for each entry, then End exactly once.
func (w *Writer) BeginMap() *MapEncoder {
	if !w.enterNested() {
		return &MapEncoder{parent: w, body: w}
	}
	body := GetWriter()
	body.opts = w.opts
	body.depth = w.depth
	return &MapEncoder{parent: w, body: body}
}

// Key returns the writer for the next entry's key.
func (e *MapEncoder) Key() *Writer {
	e.count++
	return e.body
}

// Value returns the writer for the next entry's value.
func (e *MapEncoder) Value() *Writer {
	return e.body
}

// End wraps the buffered entries in the extension envelope and flushes them
// to the parent writer.
func (e *MapEncoder) End() {
	if e.body == e.parent {
		return
	}
	e.parent.exitNested()
	if err := e.body.Err(); err != nil {
		e.parent.setError(err)
		PutWriter(e.body)
		e.body = nil
		return
	}
	if lim := e.parent.opts.Limits.MaxMapSize; lim > 0 && e.count > lim {
		e.parent.setError(ErrMaxMapSize)
		PutWriter(e.body)
		e.body = nil
		return
	}

	// The envelope length covers the bare map header and all entries.
	var tmp [5]byte
	hdr := appendMapHeader(tmp[:0], e.count)
	e.parent.WriteExtHeader(len(hdr)+len(e.body.buf), ExtGenericMap)
	e.parent.WriteRaw(hdr)
	e.parent.WriteRaw(e.body.buf)
	PutWriter(e.body)
	e.body = nil
}

// appendMapHeader appends the shortest bare map header for n entries.
func appendMapHeader(buf []byte, n int) []byte {
	switch {
	case n <= wire.MaxFixMap:
		return append(buf, wire.FixMapBase|byte(n))
	case n <= math.MaxUint16:
		return wire.AppendUint16(append(buf, wire.TagMap16), uint16(n))
	default:
		return wire.AppendUint32(append(buf, wire.TagMap32), uint32(n))
	}
}
