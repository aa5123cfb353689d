package slacknet

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()

// decode stores r in v, which must be settable. Null and missing values
// leave v at its zero value.
func (s *JSONSettings) decode(r gjson.Result, v reflect.Value) error {
	t := v.Type()

	if !r.Exists() || r.Type == gjson.Null {
		v.SetZero()
		return nil
	}

	switch {
	case t.Kind() == reflect.Interface:
		return s.decodeInterface(r, v)

	case t.Kind() == reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return s.decode(r, v.Elem())

	case t == timeType:
		return decodeTime(r, v)

	case t == durationType:
		v.SetInt(int64(time.Duration(r.Float() * float64(time.Second))))
		return nil

	case reflect.PointerTo(t).Implements(unmarshalerType):
		return v.Addr().Interface().(json.Unmarshaler).UnmarshalJSON([]byte(r.Raw))

	case t.Implements(enumType) && isInteger(t.Kind()):
		return s.decodeEnum(r, v)
	}

	switch t.Kind() {
	case reflect.Struct:
		return s.decodeStruct(r, v)
	case reflect.Map:
		return s.decodeMap(r, v)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && r.Type == gjson.String {
			return json.Unmarshal([]byte(r.Raw), v.Addr().Interface())
		}
		return s.decodeSlice(r, v)
	case reflect.Array:
		return s.decodeArray(r, v)
	case reflect.String:
		if r.IsObject() || r.IsArray() {
			return errors.Errorf("cannot decode JSON %s into %s", r.Type, t)
		}
		v.SetString(r.String())
		return nil
	case reflect.Bool:
		if r.IsObject() || r.IsArray() {
			return errors.Errorf("cannot decode JSON %s into %s", r.Type, t)
		}
		v.SetBool(r.Bool())
		return nil
	case reflect.Float32, reflect.Float64:
		return decodeFloat(r, v)
	}

	if isInteger(t.Kind()) {
		return decodeInteger(r, v)
	}

	return errors.Errorf("cannot decode JSON %s into %s", r.Type, t)
}

func (s *JSONSettings) decodeInterface(r gjson.Result, v reflect.Value) error {
	t := v.Type()

	if s.resolver.Registered(t) {
		return s.decodeVariant(r, v)
	}

	if t.NumMethod() > 0 {
		return errors.Errorf("no concrete type registered for %s", t)
	}

	var out any
	if err := json.Unmarshal([]byte(r.Raw), &out); err != nil {
		return err
	}
	v.Set(reflect.ValueOf(out))

	return nil
}

func (s *JSONSettings) decodeStruct(r gjson.Result, v reflect.Value) error {
	if !r.IsObject() {
		return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
	}

	values := make(map[string]gjson.Result)
	folded := make(map[string]gjson.Result)
	r.ForEach(func(key, value gjson.Result) bool {
		values[key.Str] = value
		folded[strings.ToLower(key.Str)] = value
		return true
	})

	for _, f := range s.fields(v.Type()) {
		value, ok := values[f.name]
		if !ok {
			if value, ok = folded[strings.ToLower(f.name)]; !ok {
				continue
			}
		}

		if err := s.decode(value, v.FieldByIndex(f.index)); err != nil {
			return errors.Wrapf(err, "field %q", f.name)
		}
	}

	return nil
}

func (s *JSONSettings) decodeMap(r gjson.Result, v reflect.Value) error {
	if !r.IsObject() {
		return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
	}

	t := v.Type()
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}

	var err error
	r.ForEach(func(key, value gjson.Result) bool {
		var k reflect.Value
		if k, err = decodeMapKey(key.Str, t.Key()); err != nil {
			return false
		}

		elem := reflect.New(t.Elem()).Elem()
		if err = s.decode(value, elem); err != nil {
			err = errors.Wrapf(err, "key %q", key.Str)
			return false
		}

		v.SetMapIndex(k, elem)
		return true
	})

	return err
}

func (s *JSONSettings) decodeSlice(r gjson.Result, v reflect.Value) error {
	if !r.IsArray() {
		return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
	}

	items := r.Array()
	out := reflect.MakeSlice(v.Type(), len(items), len(items))

	for i, item := range items {
		if err := s.decode(item, out.Index(i)); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}

	v.Set(out)
	return nil
}

func (s *JSONSettings) decodeArray(r gjson.Result, v reflect.Value) error {
	if !r.IsArray() {
		return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
	}

	items := r.Array()
	for i := 0; i < v.Len(); i++ {
		if i >= len(items) {
			v.Index(i).SetZero()
			continue
		}
		if err := s.decode(items[i], v.Index(i)); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}

	return nil
}

func (s *JSONSettings) decodeEnum(r gjson.Result, v reflect.Value) error {
	if r.Type == gjson.Number {
		return decodeInteger(r, v)
	}

	if r.Type != gjson.String {
		return errors.Errorf("cannot decode JSON %s into enum %s", r.Type, v.Type())
	}

	for i, name := range v.Interface().(Enum).EnumNames() {
		if r.Str == s.naming.Name(name) || strings.EqualFold(r.Str, name) {
			if v.CanInt() {
				v.SetInt(int64(i))
			} else {
				v.SetUint(uint64(i))
			}
			return nil
		}
	}

	// new enum values appear over time, so an unknown name is not an error
	s.log.Debug("Unknown enum name", "Type", v.Type().String(), "Name", r.Str)
	v.SetZero()

	return nil
}

func decodeTime(r gjson.Result, v reflect.Value) error {
	var (
		tm  time.Time
		err error
	)

	switch r.Type {
	case gjson.Number:
		tm = unixTime(r.Float())
	case gjson.String:
		tm, err = parseTime(r.Str)
	default:
		err = errors.Errorf("cannot decode JSON %s into time", r.Type)
	}

	if err != nil {
		return err
	}

	v.Set(reflect.ValueOf(tm))
	return nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if tm, err := time.Parse(DateFormat, s); err == nil {
		return tm, nil
	}

	if tm, err := time.Parse(time.RFC3339, s); err == nil {
		return tm, nil
	}

	// message timestamps such as "1355517523.000005"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return unixTime(f), nil
	}

	return time.Time{}, errors.Errorf("unrecognised time %q", s)
}

func unixTime(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

func decodeInteger(r gjson.Result, v reflect.Value) error {
	raw := r.Raw
	switch r.Type {
	case gjson.String:
		raw = r.Str
	case gjson.Number:
	default:
		return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
	}

	if v.CanInt() {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return errors.Wrapf(err, "cannot decode %q into %s", raw, v.Type())
			}
			i = int64(f)
		}
		if v.OverflowInt(i) {
			return errors.Errorf("value %d overflows %s", i, v.Type())
		}
		v.SetInt(i)
		return nil
	}

	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f < 0 {
			return errors.Wrapf(err, "cannot decode %q into %s", raw, v.Type())
		}
		u = uint64(f)
	}
	if v.OverflowUint(u) {
		return errors.Errorf("value %d overflows %s", u, v.Type())
	}
	v.SetUint(u)

	return nil
}

func decodeFloat(r gjson.Result, v reflect.Value) error {
	switch r.Type {
	case gjson.Number, gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return errors.Wrapf(err, "cannot decode %q into %s", r.String(), v.Type())
		}
		v.SetFloat(f)
		return nil
	}

	return errors.Errorf("cannot decode JSON %s into %s", r.Type, v.Type())
}

func decodeMapKey(key string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(key).Convert(t), nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalType) {
		k := reflect.New(t)
		if err := k.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, err
		}
		return k.Elem(), nil
	}

	k := reflect.New(t).Elem()
	if isInteger(t.Kind()) {
		if err := decodeInteger(gjson.Result{Type: gjson.String, Str: key}, k); err != nil {
			return reflect.Value{}, err
		}
		return k, nil
	}

	return reflect.Value{}, errors.Errorf("unsupported map key type %s", t)
}
