package message

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/nm-morais/go-golem/pkg/serialization"
)

// Marker types a field that always carries true, e.g.
//
//	_ message.Marker `wire:"PING"`
type Marker struct{}

type Field struct {
	Name     string
	Optional bool
	Marker   bool
	GoType   reflect.Type
	index    []int
	conv     converter
}

// Schema is the ordered field list of a variant, derived once from its
// `wire` struct tags.
type Schema struct {
	Type   reflect.Type
	Fields []Field
	byName map[string]int
}

func (s *Schema) Name() string {
	return s.Type.Name()
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

type schemaResult struct {
	schema *Schema
	err    error
}

var (
	schemas        sync.Map
	markerType     = reflect.TypeOf(Marker{})
	mapType        = reflect.TypeOf(serialization.Map(nil))
	valueType      = reflect.TypeOf((*serialization.Value)(nil)).Elem()
	marshalerType  = reflect.TypeOf((*serialization.Marshaler)(nil)).Elem()
	unmarshalerTyp = reflect.TypeOf((*serialization.Unmarshaler)(nil)).Elem()
)

func SchemaOf(m Message) (*Schema, error) {
	t := reflect.TypeOf(m)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("message: %T is not a pointer to a struct", m)
	}
	if cached, ok := schemas.Load(t.Elem()); ok {
		r := cached.(schemaResult)
		return r.schema, r.err
	}
	s, err := buildSchema(t.Elem())
	schemas.Store(t.Elem(), schemaResult{schema: s, err: err})
	return s, err
}

func buildSchema(t reflect.Type) (*Schema, error) {
	s := &Schema{Type: t, byName: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("wire")
		if !ok || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		f := Field{Name: parts[0], GoType: sf.Type, index: sf.Index}
		for _, opt := range parts[1:] {
			switch opt {
			case "optional":
				f.Optional = true
			default:
				return nil, fmt.Errorf("message: %s.%s: unknown wire option %q", t.Name(), sf.Name, opt)
			}
		}
		if f.Name == "" {
			return nil, fmt.Errorf("message: %s.%s: empty wire name", t.Name(), sf.Name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("message: %s: duplicate wire name %q", t.Name(), f.Name)
		}
		if sf.Type == markerType {
			f.Marker = true
		} else {
			if !sf.IsExported() {
				return nil, fmt.Errorf("message: %s.%s: wire fields must be exported", t.Name(), sf.Name)
			}
			conv, err := converterFor(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("message: %s.%s: %w", t.Name(), sf.Name, err)
			}
			f.conv = conv
		}
		s.byName[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

// converter moves one Go field to and from the serialization value model.
type converter struct {
	toWire   func(reflect.Value) (serialization.Value, error)
	fromWire func(serialization.Value, reflect.Value) error
}

func converterFor(t reflect.Type) (converter, error) {
	switch {
	case t == valueType:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) {
				if rv.IsNil() {
					return nil, nil
				}
				return serialization.Normalize(rv.Interface())
			},
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				if v == nil {
					rv.SetZero()
					return nil
				}
				rv.Set(reflect.ValueOf(v))
				return nil
			},
		}, nil
	case t == mapType:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) {
				return serialization.Normalize(rv.Interface())
			},
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				m, ok := v.(serialization.Map)
				if !ok {
					return kindError("map", v)
				}
				rv.Set(reflect.ValueOf(m))
				return nil
			},
		}, nil
	case t.Kind() == reflect.Pointer && t.Implements(marshalerType) && t.Implements(unmarshalerTyp):
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) {
				if rv.IsNil() {
					return nil, nil
				}
				return serialization.Normalize(rv.Interface())
			},
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				if v == nil {
					rv.SetZero()
					return nil
				}
				n := reflect.New(t.Elem())
				if err := n.Interface().(serialization.Unmarshaler).UnmarshalCanonical(v); err != nil {
					return err
				}
				rv.Set(n)
				return nil
			},
		}, nil
	case t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(marshalerType) && reflect.PointerTo(t).Implements(unmarshalerTyp):
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) {
				return serialization.Normalize(rv.Interface())
			},
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				return rv.Addr().Interface().(serialization.Unmarshaler).UnmarshalCanonical(v)
			},
		}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) { return rv.Bool(), nil },
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				b, ok := v.(bool)
				if !ok {
					return kindError("bool", v)
				}
				rv.SetBool(b)
				return nil
			},
		}, nil
	case reflect.String:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) { return rv.String(), nil },
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				s, ok := v.(string)
				if !ok {
					return kindError("string", v)
				}
				rv.SetString(s)
				return nil
			},
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) { return rv.Int(), nil },
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				i, ok := v.(int64)
				if !ok {
					return kindError("int", v)
				}
				if rv.OverflowInt(i) {
					return fmt.Errorf("%d overflows %s", i, rv.Type())
				}
				rv.SetInt(i)
				return nil
			},
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) { return serialization.Normalize(rv.Interface()) },
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				i, ok := v.(int64)
				if !ok {
					return kindError("int", v)
				}
				if i < 0 || rv.OverflowUint(uint64(i)) {
					return fmt.Errorf("%d overflows %s", i, rv.Type())
				}
				rv.SetUint(uint64(i))
				return nil
			},
		}, nil
	case reflect.Float32, reflect.Float64:
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) { return rv.Float(), nil },
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				switch f := v.(type) {
				case float64:
					rv.SetFloat(f)
				case int64:
					rv.SetFloat(float64(f))
				default:
					return kindError("float", v)
				}
				return nil
			},
		}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return converter{
				toWire: func(rv reflect.Value) (serialization.Value, error) { return serialization.Normalize(rv.Interface()) },
				fromWire: func(v serialization.Value, rv reflect.Value) error {
					b, ok := v.([]byte)
					if !ok {
						return kindError("bytes", v)
					}
					rv.SetBytes(append([]byte{}, b...))
					return nil
				},
			}, nil
		}
		elem, err := converterFor(t.Elem())
		if err != nil {
			return converter{}, err
		}
		return converter{
			toWire: func(rv reflect.Value) (serialization.Value, error) {
				out := make([]serialization.Value, rv.Len())
				for i := range out {
					e, err := elem.toWire(rv.Index(i))
					if err != nil {
						return nil, err
					}
					out[i] = e
				}
				return out, nil
			},
			fromWire: func(v serialization.Value, rv reflect.Value) error {
				if v == nil {
					rv.SetZero()
					return nil
				}
				l, ok := v.([]serialization.Value)
				if !ok {
					return kindError("list", v)
				}
				out := reflect.MakeSlice(t, len(l), len(l))
				for i, e := range l {
					if err := elem.fromWire(e, out.Index(i)); err != nil {
						return fmt.Errorf("element %d: %w", i, err)
					}
				}
				rv.Set(out)
				return nil
			},
		}, nil
	}
	return converter{}, fmt.Errorf("unsupported field type %s", t)
}

func kindError(want string, got serialization.Value) error {
	return fmt.Errorf("expected %s, got %s", want, serialization.KindOf(got))
}
