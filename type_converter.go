package slacknet

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// decodeVariant decodes a value whose static type is a registered
// interface. The discriminator is read from the already parsed object, the
// concrete type is decoded with the same settings, and nested polymorphic
// fields go through here again. Writing needs no counterpart: the encoder
// always sees the runtime type.
func (s *JSONSettings) decodeVariant(r gjson.Result, v reflect.Value) error {
	iface := v.Type()
	concrete := s.resolver.Resolve(iface, r)

	if concrete == nil || concrete.Kind() == reflect.Interface {
		return errors.Errorf("no concrete type for %s", iface)
	}

	target := reflect.New(concrete)
	if err := s.decode(r, target.Elem()); err != nil {
		return err
	}

	s.log.Debug("Resolved polymorphic value", "Interface", iface.String(), "Type", concrete.String())

	switch {
	case target.Type().Implements(iface):
		v.Set(target)
	case concrete.Implements(iface):
		v.Set(target.Elem())
	default:
		return errors.Errorf("%s does not implement %s", concrete, iface)
	}

	return nil
}
