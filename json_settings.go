package slacknet

import (
	"bytes"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DateFormat is the layout dates are written in.
const DateFormat = "2006-01-02"

// JSONSettings is the serialization configuration shared by every request
// and response: the naming strategy, date and enum handling, nil
// suppression, serialization tracing, and polymorphic type resolution.
//
// A JSONSettings is immutable once built and safe for concurrent use.
type JSONSettings struct {
	naming   NamingStrategy
	resolver TypeResolver
	log      Logger

	plans sync.Map // reflect.Type -> []field
}

type SettingsOption func(*JSONSettings)

// WithTypeResolver replaces the resolver used for polymorphic fields.
func WithTypeResolver(resolver TypeResolver) SettingsOption {
	return func(s *JSONSettings) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithNamingStrategy replaces the snake_case naming strategy.
func WithNamingStrategy(strategy NamingStrategy) SettingsOption {
	return func(s *JSONSettings) {
		if strategy != nil {
			s.naming = strategy
		}
	}
}

// WithSerializationLogger sets the logger receiving serialization trace
// events at debug level.
func WithSerializationLogger(logger Logger) SettingsOption {
	return func(s *JSONSettings) {
		if logger != nil {
			s.log = newSafeLogger(logger)
		}
	}
}

// NewJSONSettings builds settings with snake_case naming, the default type
// resolver and no logging, then applies opts.
func NewJSONSettings(opts ...SettingsOption) *JSONSettings {
	s := &JSONSettings{
		naming: SnakeCaseNaming{},
		log:    &NoopLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.resolver == nil {
		s.resolver = DefaultTypeResolver()
	}

	return s
}

var (
	defaultSettingsOnce sync.Once
	defaultSettings     *JSONSettings
)

// DefaultJSONSettings returns a shared instance of NewJSONSettings().
func DefaultJSONSettings() *JSONSettings {
	defaultSettingsOnce.Do(func() {
		defaultSettings = NewJSONSettings()
	})
	return defaultSettings
}

// Marshal encodes v, omitting nil values.
func (s *JSONSettings) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	if err := s.encode(&buf, reflect.ValueOf(v)); err != nil {
		return nil, err
	}

	s.log.Debug("Serialized value", "Type", typeName(reflect.TypeOf(v)), "Length", buf.Len())

	return buf.Bytes(), nil
}

// Unmarshal decodes data into the value pointed to by v. Fields are matched
// by their wire names; unknown fields are ignored.
func (s *JSONSettings) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Errorf("unmarshal target must be a non-nil pointer, got %s", typeName(reflect.TypeOf(v)))
	}

	if !gjson.ValidBytes(data) {
		return errors.Errorf("invalid JSON for %s", typeName(rv.Type().Elem()))
	}

	if err := s.decode(gjson.ParseBytes(data), rv.Elem()); err != nil {
		return errors.Wrapf(err, "failed to decode %s", typeName(rv.Type().Elem()))
	}

	s.log.Debug("Deserialized value", "Type", typeName(rv.Type().Elem()))

	return nil
}

// Name applies the naming strategy.
func (s *JSONSettings) Name(goName string) string {
	return s.naming.Name(goName)
}

// Resolver returns the type resolver in use.
func (s *JSONSettings) Resolver() TypeResolver {
	return s.resolver
}

type field struct {
	name      string
	index     []int
	typ       reflect.Type
	omitEmpty bool
}

// fields returns the encoding plan for a struct type. Embedded structs
// without a tag name are flattened; shallower fields win name conflicts.
func (s *JSONSettings) fields(t reflect.Type) []field {
	if cached, ok := s.plans.Load(t); ok {
		return cached.([]field)
	}

	plan := s.collectFields(t, nil, map[reflect.Type]bool{})

	depth := make(map[string]int, len(plan))
	for _, f := range plan {
		if d, ok := depth[f.name]; !ok || len(f.index) < d {
			depth[f.name] = len(f.index)
		}
	}

	out := plan[:0]
	for _, f := range plan {
		if depth[f.name] == len(f.index) {
			out = append(out, f)
			depth[f.name] = -1
		}
	}

	cached, _ := s.plans.LoadOrStore(t, out)
	return cached.([]field)
}

func (s *JSONSettings) collectFields(t reflect.Type, parent []int, visited map[reflect.Type]bool) []field {
	if visited[t] {
		return nil
	}
	visited[t] = true

	var out []field

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), parent...), i)

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			out = append(out, s.collectFields(sf.Type, index, visited)...)
			continue
		}

		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = s.naming.Name(sf.Name)
		}

		out = append(out, field{
			name:      name,
			index:     index,
			typ:       sf.Type,
			omitEmpty: strings.Contains(opts, "omitempty"),
		})
	}

	return out
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
