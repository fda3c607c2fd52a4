package message

import (
	"reflect"
	"slices"

	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

// Fields projects m onto its wire fields in declaration order.
func Fields(m Message) (serialization.Map, error) {
	s, err := SchemaOf(m)
	if err != nil {
		return nil, errors.NewEncodeError(messageCaller, "%v", err)
	}
	rv := reflect.ValueOf(m).Elem()
	out := make(serialization.Map, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Marker {
			out = append(out, serialization.Entry{Key: f.Name, Value: true})
			continue
		}
		v, err := f.conv.toWire(rv.FieldByIndex(f.index))
		if err != nil {
			return nil, errors.NewEncodeError(messageCaller, "%s.%s: %v", s.Name(), f.Name, err)
		}
		out = append(out, serialization.Entry{Key: f.Name, Value: v})
	}
	return out, nil
}

// FromFields builds a variant from a decoded field mapping. Fields absent from
// the mapping keep the factory defaults when optional; a missing required
// field fails with a MissingFieldError.
func FromFields(factory Factory, h Header, fields serialization.Map) (Message, error) {
	m := factory()
	s, err := SchemaOf(m)
	if err != nil {
		return nil, errors.NewDecodeError(messageCaller, "%v", err)
	}
	rv := reflect.ValueOf(m).Elem()
	present := make([]bool, len(s.Fields))
	for _, e := range fields {
		name, ok := e.Key.(string)
		if !ok {
			return nil, errors.NewDecodeError(messageCaller, "%s: field name of kind %s", s.Name(), serialization.KindOf(e.Key))
		}
		i, ok := s.byName[name]
		if !ok {
			return nil, errors.NewDecodeError(messageCaller, "%s: unknown field %q", s.Name(), name)
		}
		f := s.Fields[i]
		present[i] = true
		if f.Marker {
			if b, ok := e.Value.(bool); !ok || !b {
				return nil, errors.NewDecodeError(messageCaller, "%s.%s: marker must be true", s.Name(), name)
			}
			continue
		}
		if err := f.conv.fromWire(e.Value, rv.FieldByIndex(f.index)); err != nil {
			return nil, errors.WrapDecodeError(messageCaller, err, "%s.%s", s.Name(), name)
		}
	}
	for i, f := range s.Fields {
		if !present[i] && !f.Optional {
			return nil, errors.NewMissingFieldError(messageCaller, int(m.Type()), f.Name)
		}
	}
	env := m.envelope()
	env.signature = slices.Clone(h.Signature)
	env.timestamp = h.Timestamp
	env.encrypted = h.Encrypted
	return m, nil
}

// WithSignature returns a copy of m carrying sig. m itself is left untouched.
func WithSignature(m Message, sig []byte) Message {
	src := reflect.ValueOf(m).Elem()
	cp := reflect.New(src.Type())
	cp.Elem().Set(src)
	out := cp.Interface().(Message)
	out.envelope().signature = slices.Clone(sig)
	return out
}

// Equal reports whether a and b are the same variant with identical fields.
// Envelope state is ignored.
func Equal(a, b Message) bool {
	if a.Type() != b.Type() {
		return false
	}
	fa, errA := Fields(a)
	fb, errB := Fields(b)
	if errA != nil || errB != nil {
		return false
	}
	return serialization.Equal(fa, fb)
}
