package slacknet

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var (
	timeType        = reflect.TypeFor[time.Time]()
	durationType    = reflect.TypeFor[time.Duration]()
	marshalerType   = reflect.TypeFor[json.Marshaler]()
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textMarshalType = reflect.TypeFor[encoding.TextMarshaler]()
	enumType        = reflect.TypeFor[Enum]()
)

func (s *JSONSettings) encode(buf *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		buf.WriteString("null")
		return nil
	}

	t := v.Type()

	switch {
	case t == timeType:
		buf.WriteString(strconv.Quote(v.Interface().(time.Time).Format(DateFormat)))
		return nil

	case t == durationType:
		buf.WriteString(strconv.FormatInt(int64(v.Interface().(time.Duration)/time.Second), 10))
		return nil

	case t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(marshalerType):
		return s.encodeMarshaler(buf, v)

	case t.Kind() != reflect.Pointer && v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType):
		return s.encodeMarshaler(buf, v.Addr())

	case t.Implements(enumType) && isInteger(t.Kind()):
		return s.encodeEnum(buf, v)
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return s.encode(buf, v.Elem())

	case reflect.Struct:
		return s.encodeStruct(buf, v)

	case reflect.Map:
		return s.encodeMap(buf, v)

	case reflect.Slice:
		if v.IsNil() {
			buf.WriteString("null")
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return s.encodeScalar(buf, v)
		}
		return s.encodeList(buf, v)

	case reflect.Array:
		return s.encodeList(buf, v)

	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return errors.Errorf("unsupported type %s", t)

	default:
		return s.encodeScalar(buf, v)
	}
}

func (s *JSONSettings) encodeMarshaler(buf *bytes.Buffer, v reflect.Value) error {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		buf.WriteString("null")
		return nil
	}

	b, err := v.Interface().(json.Marshaler).MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", v.Type())
	}

	buf.Write(b)
	return nil
}

func (s *JSONSettings) encodeEnum(buf *bytes.Buffer, v reflect.Value) error {
	names := v.Interface().(Enum).EnumNames()

	idx, ok := enumIndex(v)
	if !ok || idx >= len(names) {
		s.log.Debug("Enum value has no name, writing number", "Type", v.Type().String())
		return s.encodeScalar(buf, v)
	}

	buf.WriteString(strconv.Quote(s.naming.Name(names[idx])))
	return nil
}

func (s *JSONSettings) encodeStruct(buf *bytes.Buffer, v reflect.Value) error {
	buf.WriteByte('{')

	first := true
	for _, f := range s.fields(v.Type()) {
		fv := v.FieldByIndex(f.index)

		if isNull(fv) || (f.omitEmpty && isEmpty(fv)) {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false

		buf.WriteString(strconv.Quote(f.name))
		buf.WriteByte(':')

		if err := s.encode(buf, fv); err != nil {
			return errors.Wrapf(err, "field %q", f.name)
		}
	}

	buf.WriteByte('}')
	return nil
}

func (s *JSONSettings) encodeMap(buf *bytes.Buffer, v reflect.Value) error {
	if v.IsNil() {
		buf.WriteString("null")
		return nil
	}

	keys := make([]string, 0, v.Len())
	values := make(map[string]reflect.Value, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		if isNull(iter.Value()) {
			continue
		}
		keys = append(keys, key)
		values[key] = iter.Value()
	}

	sort.Strings(keys)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')

		if err := s.encode(buf, values[key]); err != nil {
			return errors.Wrapf(err, "key %q", key)
		}
	}
	buf.WriteByte('}')

	return nil
}

func (s *JSONSettings) encodeList(buf *bytes.Buffer, v reflect.Value) error {
	buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := s.encode(buf, v.Index(i)); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}
	buf.WriteByte(']')

	return nil
}

func (s *JSONSettings) encodeScalar(buf *bytes.Buffer, v reflect.Value) error {
	b, err := json.Marshal(v.Interface())
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", v.Type())
	}

	buf.Write(b)
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}

	if k.Type().Implements(textMarshalType) {
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}

	switch {
	case isInteger(k.Kind()) && k.CanInt():
		return strconv.FormatInt(k.Int(), 10), nil
	case isInteger(k.Kind()):
		return strconv.FormatUint(k.Uint(), 10), nil
	}

	return "", errors.Errorf("unsupported map key type %s", k.Type())
}

// isNull reports whether v would be written as null. An interface holding
// a nil pointer, map or slice counts as null.
func isNull(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		return v.IsNil() || isNull(v.Elem())
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.String, reflect.Array:
		return v.Len() == 0
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).IsZero()
		}
		return false
	}
	return v.IsZero()
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func enumIndex(v reflect.Value) (int, bool) {
	if v.CanInt() {
		i := v.Int()
		return int(i), i >= 0
	}
	return int(v.Uint()), true
}
