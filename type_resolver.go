package slacknet

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// TypeResolver picks the concrete type to decode a polymorphic value into.
type TypeResolver interface {
	// Resolve returns the concrete type for raw, which is about to be
	// decoded into a value of interface type iface. When no variant
	// matches, the registered fallback type is returned; for interfaces
	// that were never registered, iface itself is returned.
	Resolve(iface reflect.Type, raw gjson.Result) reflect.Type

	// Registered reports whether iface has variants.
	Registered(iface reflect.Type) bool
}

// Discriminator derives lookup keys from a raw JSON object, most specific
// key first.
type Discriminator func(raw gjson.Result) []string

// FieldDiscriminator reads the named string fields in order and joins them
// with '.'. For fields "type" and "subtype", a bot message yields the keys
// "message.bot_message" and "message"; a missing field ends the chain.
func FieldDiscriminator(fields ...string) Discriminator {
	return func(raw gjson.Result) []string {
		parts := make([]string, 0, len(fields))
		for _, name := range fields {
			value := raw.Get(name)
			if value.Type != gjson.String || value.Str == "" {
				break
			}
			parts = append(parts, value.Str)
		}

		keys := make([]string, 0, len(parts))
		for i := len(parts); i > 0; i-- {
			keys = append(keys, strings.Join(parts[:i], "."))
		}

		return keys
	}
}

// Variant associates a discriminator value with a concrete type.
type Variant struct {
	Value string
	Type  reflect.Type
}

// VariantFor registers T under discriminator value.
func VariantFor[T any](value string) Variant {
	return Variant{Value: value, Type: reflect.TypeFor[T]()}
}

// TypeSet groups the variants of one interface type. Several sets may name
// the same interface; their variants are merged and the first non-nil
// Discriminator and Fallback win.
type TypeSet struct {
	Interface     reflect.Type
	Discriminator Discriminator
	Fallback      reflect.Type
	Variants      []Variant
}

// NewTypeSet describes the variants of interface I. Payloads matching no
// variant are decoded into F.
func NewTypeSet[I any, F any](d Discriminator, variants ...Variant) TypeSet {
	return TypeSet{
		Interface:     reflect.TypeFor[I](),
		Discriminator: d,
		Fallback:      reflect.TypeFor[F](),
		Variants:      variants,
	}
}

type union struct {
	discriminate Discriminator
	fallback     reflect.Type
	variants     map[string]reflect.Type
}

type typeRegistry struct {
	unions map[reflect.Type]*union
}

// NewTypeResolver indexes sets once. The result is read-only and safe for
// concurrent use.
func NewTypeResolver(sets ...TypeSet) (TypeResolver, error) {
	r := &typeRegistry{unions: make(map[reflect.Type]*union)}

	for _, set := range sets {
		if set.Interface == nil || set.Interface.Kind() != reflect.Interface {
			return nil, errors.Errorf("type set must name an interface type, got %s", typeName(set.Interface))
		}

		u, ok := r.unions[set.Interface]
		if !ok {
			u = &union{variants: make(map[string]reflect.Type)}
			r.unions[set.Interface] = u
		}

		if u.discriminate == nil {
			u.discriminate = set.Discriminator
		}

		if u.fallback == nil && set.Fallback != nil {
			if !implements(set.Fallback, set.Interface) {
				return nil, errors.Errorf("fallback %s does not implement %s", set.Fallback, set.Interface)
			}
			u.fallback = set.Fallback
		}

		for _, v := range set.Variants {
			if v.Type == nil || !implements(v.Type, set.Interface) {
				return nil, errors.Errorf("variant %q (%s) does not implement %s", v.Value, typeName(v.Type), set.Interface)
			}
			if existing, dup := u.variants[v.Value]; dup {
				return nil, errors.Errorf("discriminator %q for %s registered twice (%s and %s)", v.Value, set.Interface, existing, v.Type)
			}
			u.variants[v.Value] = v.Type
		}
	}

	for iface, u := range r.unions {
		if u.discriminate == nil {
			return nil, errors.Errorf("no discriminator registered for %s", iface)
		}
		if u.fallback == nil {
			return nil, errors.Errorf("no fallback type registered for %s", iface)
		}
	}

	return r, nil
}

// MustTypeResolver is like NewTypeResolver but panics on a misconfigured set.
func MustTypeResolver(sets ...TypeSet) TypeResolver {
	r, err := NewTypeResolver(sets...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultTypeResolver = MustTypeResolver(DefaultTypeSets()...)

// DefaultTypeResolver resolves the variants declared by this package.
func DefaultTypeResolver() TypeResolver {
	return defaultTypeResolver
}

func (r *typeRegistry) Registered(iface reflect.Type) bool {
	_, ok := r.unions[iface]
	return ok
}

func (r *typeRegistry) Resolve(iface reflect.Type, raw gjson.Result) reflect.Type {
	u, ok := r.unions[iface]
	if !ok {
		return iface
	}

	if raw.IsObject() {
		for _, key := range u.discriminate(raw) {
			if t, ok := u.variants[key]; ok {
				return t
			}
		}
	}

	return u.fallback
}

// implements reports whether T or *T satisfies iface.
func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface))
}
