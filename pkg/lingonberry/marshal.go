package lingonberry

import (
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Marshaler is implemented by types that encode themselves.
type Marshaler interface {
	MarshalLingonberry(w *Writer) error
}

// Unmarshaler is implemented by types that decode themselves.
type Unmarshaler interface {
	UnmarshalLingonberry(r *Reader) error
}

// Enum is implemented by integer types with named variants. Values encode as
// their unsigned variant index and decode from either the index or the
// variant name string.
type Enum interface {
	EnumVariants() []string
}

// Marshal encodes a Go value into the binary format.
//
// Structs become bare maps keyed by field name; generic Go maps are wrapped
// in the extension envelope that distinguishes them from structs on the wire.
func Marshal(v any) ([]byte, error) {
	return MarshalWithOptions(v, DefaultOptions)
}

// MarshalWithOptions encodes a Go value with the specified options.
func MarshalWithOptions(v any, opts Options) ([]byte, error) {
	w := GetWriter()
	defer PutWriter(w)
	w.SetOptions(opts)

	if err := encodeValue(w, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	if w.Err() != nil {
		return nil, w.Err()
	}
	return w.BytesCopy(), nil
}

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	enumType        = reflect.TypeOf((*Enum)(nil)).Elem()
)

// encodeValue encodes a reflect.Value to the writer.
func encodeValue(w *Writer, v reflect.Value) error {
	// Handle nil interface or invalid values
	if !v.IsValid() {
		w.WriteNil()
		return w.Err()
	}

	if v.Type().Implements(marshalerType) {
		if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
			w.WriteNil()
			return w.Err()
		}
		return v.Interface().(Marshaler).MarshalLingonberry(w)
	}
	if v.CanAddr() && v.Addr().Type().Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalLingonberry(w)
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			w.WriteNil()
			return w.Err()
		}
		return encodeValue(w, v.Elem())
	}

	// Dereference pointers
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			w.WriteNil()
			return w.Err()
		}
		v = v.Elem()
	}

	if variants := enumVariants(v.Type()); variants != nil {
		return encodeEnum(w, v, variants)
	}

	switch v.Kind() {
	case reflect.Bool:
		w.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.WriteInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.WriteUint(v.Uint())
	case reflect.Float32:
		w.WriteFloat32(float32(v.Float()))
	case reflect.Float64:
		w.WriteFloat64(v.Float())
	case reflect.String:
		w.WriteString(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			w.WriteBytes(v.Bytes())
		} else {
			return encodeArrayLike(w, v)
		}
	case reflect.Array:
		return encodeArrayLike(w, v)
	case reflect.Map:
		return encodeMap(w, v)
	case reflect.Struct:
		return encodeStruct(w, v)
	default:
		return NewEncodeError("unsupported type: "+v.Type().String(), nil)
	}
	return w.Err()
}

// encodeEnum writes an enum value as its unsigned variant index.
func encodeEnum(w *Writer, v reflect.Value, variants []string) error {
	var idx uint64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < 0 {
			return NewEncodeError("negative enum index", nil)
		}
		idx = uint64(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		idx = v.Uint()
	default:
		return NewEncodeError("enum type must have an integer kind: "+v.Type().String(), nil)
	}
	if idx >= uint64(len(variants)) {
		return NewEncodeError("enum index out of range: "+v.Type().String(), nil)
	}
	w.WriteUint(idx)
	return w.Err()
}

// enumVariants returns the variant names when t implements Enum, else nil.
func enumVariants(t reflect.Type) []string {
	if cached, ok := enumCache.Load(t); ok {
		if cached == nil {
			return nil
		}
		return cached.([]string)
	}
	var variants []string
	if t.Implements(enumType) {
		variants = reflect.Zero(t).Interface().(Enum).EnumVariants()
	} else if reflect.PtrTo(t).Implements(enumType) {
		variants = reflect.New(t).Interface().(Enum).EnumVariants()
	}
	if variants == nil {
		enumCache.Store(t, nil)
		return nil
	}
	enumCache.Store(t, variants)
	return variants
}

// encodeArrayLike encodes a slice or array as an array value.
func encodeArrayLike(w *Writer, v reflect.Value) error {
	if !w.enterNested() {
		return w.Err()
	}
	defer w.exitNested()

	n := v.Len()
	w.WriteArrayHeader(n)
	if w.Err() != nil {
		return w.Err()
	}
	for i := 0; i < n; i++ {
		if err := encodeValue(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.Err()
}

// encodeMap encodes a Go map as a generic map with the extension envelope.
// If Deterministic option is enabled, keys are sorted for reproducible output.
func encodeMap(w *Writer, v reflect.Value) error {
	if v.IsNil() {
		w.WriteNil()
		return w.Err()
	}

	keyType := v.Type().Key()
	if !isValidMapKeyType(keyType) {
		return NewEncodeError("unsupported map key type "+keyType.String()+"; map keys must be string, integer, float, or bool", nil)
	}

	keys := v.MapKeys()
	if w.Options().Deterministic {
		keys = sortMapKeys(keys)
	}

	enc := w.BeginMap()
	for _, key := range keys {
		if err := encodeValue(enc.Key(), key); err != nil {
			return err
		}
		if err := encodeValue(enc.Value(), v.MapIndex(key)); err != nil {
			return err
		}
	}
	enc.End()
	return w.Err()
}

// encodeStruct encodes a struct as a bare map of field-name/value pairs.
func encodeStruct(w *Writer, v reflect.Value) error {
	if !w.enterNested() {
		return w.Err()
	}
	defer w.exitNested()

	info := getStructInfo(v.Type())

	// The field count is known up front, so no body buffering is needed.
	count := 0
	omit := make([]bool, len(info.fields))
	for i, field := range info.fields {
		if field.omitEmpty && w.Options().OmitEmpty && isZeroValue(v.Field(field.index)) {
			omit[i] = true
			continue
		}
		count++
	}

	w.WriteMapHeader(count)
	if w.Err() != nil {
		return w.Err()
	}
	for i, field := range info.fields {
		if omit[i] {
			continue
		}
		w.WriteString(field.name)
		if err := encodeValue(w, v.Field(field.index)); err != nil {
			return err
		}
	}
	return w.Err()
}

// fieldInfo holds metadata about a struct field.
type fieldInfo struct {
	name      string
	index     int
	omitEmpty bool
}

// structInfo holds cached metadata about a struct type.
type structInfo struct {
	fields []fieldInfo
	byName map[string]*fieldInfo
}

// structInfoCache caches struct metadata for performance.
var structInfoCache sync.Map

// enumCache caches enum variant lists by type.
var enumCache sync.Map

// getStructInfo returns cached struct metadata.
func getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := structInfoCache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		fields: make([]fieldInfo, 0, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fi := fieldInfo{
			name:  f.Name,
			index: i,
		}

		tag := f.Tag.Get("lingonberry")
		if tag == "-" {
			continue
		}
		if tag != "" {
			fi = parseFieldTag(tag, fi)
		}

		info.fields = append(info.fields, fi)
	}

	info.byName = make(map[string]*fieldInfo, len(info.fields))
	for i := range info.fields {
		info.byName[info.fields[i].name] = &info.fields[i]
	}

	structInfoCache.Store(t, info)
	return info
}

// parseFieldTag parses a lingonberry struct tag.
// Format: "name,option,..."
// Options: omitempty
func parseFieldTag(tag string, fi fieldInfo) fieldInfo {
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		fi.name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			fi.omitEmpty = true
		}
	}
	return fi
}

// isZeroValue returns true if the value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Struct:
		return v.IsZero()
	default:
		return false
	}
}

// sortMapKeys sorts map keys for deterministic encoding.
func sortMapKeys(keys []reflect.Value) []reflect.Value {
	if len(keys) <= 1 {
		return keys
	}

	switch keys[0].Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].Int() < keys[j].Int()
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].Uint() < keys[j].Uint()
		})
	case reflect.Float32, reflect.Float64:
		sort.Slice(keys, func(i, j int) bool {
			return compareFloatKeys(keys[i].Float(), keys[j].Float())
		})
	case reflect.Bool:
		sort.Slice(keys, func(i, j int) bool {
			return !keys[i].Bool() && keys[j].Bool()
		})
	}
	return keys
}

// compareFloatKeys orders float keys with NaN values sorted to the end by
// raw bit pattern, keeping the output deterministic.
func compareFloatKeys(a, b float64) bool {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	if aNaN && bNaN {
		return math.Float64bits(a) < math.Float64bits(b)
	}
	if aNaN {
		return false
	}
	if bNaN {
		return true
	}
	return a < b
}

// isValidMapKeyType checks if a type can serve as a generic map key.
func isValidMapKeyType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Bool:
		return true
	default:
		return false
	}
}
