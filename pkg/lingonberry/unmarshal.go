package lingonberry

import (
	"reflect"
)

// Unmarshal decodes binary data into the value pointed to by v.
// The entire input must be consumed; leftover bytes are an error.
func Unmarshal(data []byte, v any) error {
	return UnmarshalWithOptions(data, v, DefaultOptions)
}

// UnmarshalWithOptions decodes with the specified options.
func UnmarshalWithOptions(data []byte, v any, opts Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return ErrNotPointer
	}
	if rv.IsNil() {
		return ErrNilPointer
	}

	r := NewReaderWithOptions(data, opts)
	if err := decodeValue(r, rv.Elem()); err != nil {
		return err
	}
	r.ExpectEOF()
	return r.Err()
}

// decodeValue decodes the next wire value into the given reflect.Value.
func decodeValue(r *Reader, v reflect.Value) error {
	if v.CanAddr() && v.Addr().Type().Implements(unmarshalerType) {
		return v.Addr().Interface().(Unmarshaler).UnmarshalLingonberry(r)
	}

	if v.Kind() == reflect.Ptr {
		if r.TryReadNil() {
			v.Set(reflect.Zero(v.Type()))
			return r.Err()
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(r, v.Elem())
	}

	if variants := enumVariants(v.Type()); variants != nil {
		return decodeEnum(r, v, variants)
	}

	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(r.ReadBool())
	case reflect.Int8:
		v.SetInt(int64(r.ReadInt8()))
	case reflect.Int16:
		v.SetInt(int64(r.ReadInt16()))
	case reflect.Int32:
		v.SetInt(int64(r.ReadInt32()))
	case reflect.Int64, reflect.Int:
		v.SetInt(r.ReadInt64())
	case reflect.Uint8:
		v.SetUint(uint64(r.ReadUint8()))
	case reflect.Uint16:
		v.SetUint(uint64(r.ReadUint16()))
	case reflect.Uint32:
		v.SetUint(uint64(r.ReadUint32()))
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		v.SetUint(r.ReadUint64())
	case reflect.Float32:
		v.SetFloat(float64(r.ReadFloat32()))
	case reflect.Float64:
		v.SetFloat(r.ReadFloat64())
	case reflect.String:
		v.SetString(r.ReadString())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			v.SetBytes(r.ReadBytes())
		} else {
			return decodeSlice(r, v)
		}
	case reflect.Array:
		return decodeArray(r, v)
	case reflect.Map:
		return decodeMap(r, v)
	case reflect.Struct:
		return decodeStruct(r, v)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return NewDecodeError("cannot decode into non-empty interface "+v.Type().String(), nil)
		}
		val := r.ReadAny()
		if r.Err() != nil {
			return r.Err()
		}
		if val == nil {
			v.Set(reflect.Zero(v.Type()))
		} else {
			v.Set(reflect.ValueOf(val))
		}
	default:
		return NewDecodeError("unsupported type: "+v.Type().String(), nil)
	}
	return r.Err()
}

// decodeEnum reads an enum by unsigned index or variant name.
func decodeEnum(r *Reader, v reflect.Value, variants []string) error {
	idx := r.ReadEnum(variants)
	if r.Err() != nil {
		return r.Err()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(idx))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(idx))
	default:
		return NewDecodeError("enum type must have an integer kind: "+v.Type().String(), nil)
	}
	return nil
}

// decodeSlice decodes an array value into a slice.
func decodeSlice(r *Reader, v reflect.Value) error {
	if !r.enterNested() {
		return r.Err()
	}
	defer r.exitNested()

	n := r.ReadArrayHeader()
	if r.Err() != nil {
		return r.Err()
	}

	// Grow incrementally so a corrupt length cannot force a huge allocation.
	out := reflect.MakeSlice(v.Type(), 0, minInt(n, 1024))
	elemType := v.Type().Elem()
	for i := 0; i < n; i++ {
		elem := reflect.New(elemType).Elem()
		if err := decodeValue(r, elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	v.Set(out)
	return r.Err()
}

// decodeArray decodes an array value into a fixed-length Go array.
func decodeArray(r *Reader, v reflect.Value) error {
	if !r.enterNested() {
		return r.Err()
	}
	defer r.exitNested()

	n := r.ReadArrayHeader()
	if r.Err() != nil {
		return r.Err()
	}
	if n > v.Len() {
		return NewDecodeError("array too long for "+v.Type().String(), ErrExpectedArray)
	}
	for i := 0; i < n; i++ {
		if err := decodeValue(r, v.Index(i)); err != nil {
			return err
		}
	}
	for i := n; i < v.Len(); i++ {
		v.Index(i).Set(reflect.Zero(v.Type().Elem()))
	}
	return r.Err()
}

// decodeMap decodes a generic map envelope into a Go map.
func decodeMap(r *Reader, v reflect.Value) error {
	if !r.enterNested() {
		return r.Err()
	}
	defer r.exitNested()

	n := r.ReadMapHeader()
	if r.Err() != nil {
		return r.Err()
	}

	out := reflect.MakeMapWithSize(v.Type(), minInt(n, 1024))
	keyType := v.Type().Key()
	elemType := v.Type().Elem()
	for i := 0; i < n; i++ {
		key := reflect.New(keyType).Elem()
		if err := decodeValue(r, key); err != nil {
			return err
		}
		elem := reflect.New(elemType).Elem()
		if err := decodeValue(r, elem); err != nil {
			return err
		}
		out.SetMapIndex(key, elem)
	}
	v.Set(out)
	return r.Err()
}

// decodeStruct decodes a bare map of field-name/value pairs into a struct.
// Unknown field names are skipped unless StrictMode is set.
func decodeStruct(r *Reader, v reflect.Value) error {
	if !r.enterNested() {
		return r.Err()
	}
	defer r.exitNested()

	n := r.ReadStructHeader()
	if r.Err() != nil {
		return r.Err()
	}

	info := getStructInfo(v.Type())
	for i := 0; i < n; i++ {
		name := r.ReadString()
		if r.Err() != nil {
			return r.Err()
		}
		field, ok := info.byName[name]
		if !ok {
			if r.Options().StrictMode {
				return NewDecodeErrorAt(r.Pos(), "unknown field "+name+" in "+v.Type().String(), ErrUnknownField)
			}
			r.Skip()
			if r.Err() != nil {
				return r.Err()
			}
			continue
		}
		if err := decodeValue(r, v.Field(field.index)); err != nil {
			return err
		}
	}
	return r.Err()
}
