package serialization

import (
	"bytes"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/nm-morais/go-golem/pkg/errors"
)

const (
	majorArray = 4
	majorMap   = 5
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		TagsMd:           cbor.TagsForbidden,
		IntDec:           cbor.IntDecConvertSigned,
		MaxNestedLevels:  MaxDepth + 1,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode returns the canonical bytes of v. Map entries are written in the
// order given.
func Encode(v Value) ([]byte, error) {
	n, err := normalize(v, 0)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := write(buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Normalize converts v to the decoded value model, so that
// Normalize(v) deep-equals Decode(Encode(v)).
func Normalize(v Value) (Value, error) {
	return normalize(v, 0)
}

func normalize(v Value, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, errors.NewEncodeError(serializationCaller, "nesting deeper than %d", MaxDepth)
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64:
		return t, nil
	case string:
		return validString(t)
	case []byte:
		if t == nil {
			return []byte{}, nil
		}
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float32:
		return float64(t), nil
	case Map:
		out := make(Map, len(t))
		seen := make(map[Value]struct{}, len(t))
		for i, e := range t {
			k, err := normalize(e.Key, depth+1)
			if err != nil {
				return nil, err
			}
			if !isKeyKind(k) {
				return nil, errors.NewEncodeError(serializationCaller, "map key of kind %s", KindOf(k))
			}
			if _, dup := seen[k]; dup {
				return nil, errors.NewEncodeError(serializationCaller, "duplicate map key %v", k)
			}
			seen[k] = struct{}{}
			val, err := normalize(e.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = Entry{Key: k, Value: val}
		}
		return out, nil
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			n, err := normalize(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	if m, ok := v.(Marshaler); ok {
		mv, err := m.MarshalCanonical()
		if err != nil {
			return nil, err
		}
		return normalize(mv, depth+1)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return validString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.NewEncodeError(serializationCaller, "unsigned value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, nil
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []Value{}, nil
		}
		out := make([]Value, rv.Len())
		for i := range out {
			n, err := normalize(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Pointer:
		return normalize(rv.Elem().Interface(), depth)
	case reflect.Struct:
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		if m, ok := p.Interface().(Marshaler); ok {
			mv, err := m.MarshalCanonical()
			if err != nil {
				return nil, err
			}
			return normalize(mv, depth+1)
		}
	case reflect.Map:
		return nil, errors.NewEncodeError(serializationCaller, "%s has no defined entry order, use serialization.Map", rv.Type())
	}
	return nil, errors.NewEncodeError(serializationCaller, "unsupported type %T", v)
}

func validString(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return nil, errors.NewEncodeError(serializationCaller, "string %q is not valid UTF-8", s)
	}
	return s, nil
}

func isKeyKind(k Value) bool {
	switch k.(type) {
	case string, int64, float64, bool:
		return true
	}
	return false
}

// write expects a normalized value.
func write(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case []Value:
		writeHead(buf, majorArray, uint64(len(t)))
		for _, e := range t {
			if err := write(buf, e); err != nil {
				return err
			}
		}
		return nil
	case Map:
		writeHead(buf, majorMap, uint64(len(t)))
		for _, e := range t {
			if err := write(buf, e.Key); err != nil {
				return err
			}
			if err := write(buf, e.Value); err != nil {
				return err
			}
		}
		return nil
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		return errors.NewEncodeError(serializationCaller, "%v", err)
	}
	buf.Write(b)
	return nil
}

func writeHead(buf *bytes.Buffer, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		buf.WriteByte(m | byte(n))
	case n <= math.MaxUint8:
		buf.Write([]byte{m | 24, byte(n)})
	case n <= math.MaxUint16:
		buf.Write([]byte{m | 25, byte(n >> 8), byte(n)})
	case n <= math.MaxUint32:
		buf.Write([]byte{m | 26, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	default:
		buf.Write([]byte{m | 27, byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
}
