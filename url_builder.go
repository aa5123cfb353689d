package slacknet

import (
	"encoding/json"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Args are the named arguments of a Web API call. A nil value, a nil
// pointer, or an empty slice or map is absent and never sent.
type Args map[string]any

// present returns the arguments that have a value, with keys passed
// through the naming strategy, in sorted key order.
func (a Args) present(settings *JSONSettings) ([]string, map[string]any) {
	keys := make([]string, 0, len(a))
	values := make(map[string]any, len(a))

	for key, value := range a {
		if isAbsent(value) {
			continue
		}
		name := settings.Name(key)
		keys = append(keys, name)
		values[name] = value
	}

	sort.Strings(keys)

	return keys, values
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	if isNull(rv) {
		return true
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// URLBuilder composes Web API method URLs.
type URLBuilder struct {
	baseURL  string
	settings *JSONSettings
}

func NewURLBuilder(baseURL string, settings *JSONSettings) *URLBuilder {
	if settings == nil {
		settings = DefaultJSONSettings()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &URLBuilder{baseURL: baseURL, settings: settings}
}

// URL returns the URL for method with args encoded into the query string.
func (b *URLBuilder) URL(method string, args Args) (string, error) {
	query, err := b.Values(args)
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode arguments for %s", method)
	}

	u := b.baseURL + method
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u, nil
}

// Values encodes args as form values. Strings are sent as is, lists are
// joined with commas, and everything else is written with the JSON
// settings, with surrounding quotes removed.
func (b *URLBuilder) Values(args Args) (url.Values, error) {
	keys, values := args.present(b.settings)

	query := make(url.Values, len(keys))
	for _, key := range keys {
		value, err := b.argValue(reflect.ValueOf(values[key]))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", key)
		}
		query.Set(key, value)
	}

	return query, nil
}

func (b *URLBuilder) argValue(v reflect.Value) (string, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if !v.IsValid() {
		return "", nil
	}

	if v.Kind() == reflect.String {
		return v.String(), nil
	}

	if (v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8) || v.Kind() == reflect.Array {
		items := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := b.argValue(v.Index(i))
			if err != nil {
				return "", err
			}
			items = append(items, item)
		}
		return strings.Join(items, ","), nil
	}

	raw, err := b.settings.Marshal(v.Interface())
	if err != nil {
		return "", err
	}

	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s, nil
	}

	return string(raw), nil
}
