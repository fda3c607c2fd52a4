package serialization

import (
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
	"github.com/nm-morais/go-golem/pkg/errors"
)

// Decode parses exactly one canonical item spanning all of data. Maps keep
// their wire order.
func Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, errors.NewDecodeError(serializationCaller, "empty input")
	}
	if err := decMode.Wellformed(data); err != nil {
		return nil, errors.WrapDecodeError(serializationCaller, err, "malformed input")
	}
	d := &decoder{data: data}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, errors.NewDecodeError(serializationCaller, "%d trailing bytes", len(d.data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(format string, args ...any) error {
	return errors.NewDecodeError(serializationCaller, "offset %d: "+format, append([]any{d.pos}, args...)...)
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, d.fail("nesting deeper than %d", MaxDepth)
	}
	if d.pos >= len(d.data) {
		return nil, d.fail("unexpected end of input")
	}
	ib := d.data[d.pos]
	major, ai := ib>>5, ib&0x1f
	if ai == 31 {
		return nil, d.fail("indefinite-length items are not canonical")
	}
	switch major {
	case majorArray:
		n, err := d.head()
		if err != nil {
			return nil, err
		}
		if n > uint64(len(d.data)-d.pos) {
			return nil, d.fail("array of %d elements exceeds input", n)
		}
		out := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			v, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case majorMap:
		n, err := d.head()
		if err != nil {
			return nil, err
		}
		if n > uint64(len(d.data)-d.pos)/2 {
			return nil, d.fail("map of %d pairs exceeds input", n)
		}
		out := make(Map, 0, n)
		seen := make(map[Value]struct{}, n)
		for i := uint64(0); i < n; i++ {
			k, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			if !isKeyKind(k) {
				return nil, d.fail("map key of kind %s", KindOf(k))
			}
			if _, dup := seen[k]; dup {
				return nil, d.fail("duplicate map key %v", k)
			}
			seen[k] = struct{}{}
			v, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	case 6:
		return nil, d.fail("tagged items are not supported")
	}
	if ib == 0xf7 {
		return nil, d.fail("undefined is not a value")
	}
	return d.scalar()
}

// head consumes an initial byte and its argument.
func (d *decoder) head() (uint64, error) {
	ai := d.data[d.pos] & 0x1f
	d.pos++
	var size int
	switch {
	case ai < 24:
		return uint64(ai), nil
	case ai == 24:
		size = 1
	case ai == 25:
		size = 2
	case ai == 26:
		size = 4
	case ai == 27:
		size = 8
	default:
		return 0, d.fail("reserved additional information %d", ai)
	}
	if len(d.data)-d.pos < size {
		return 0, d.fail("truncated header")
	}
	var buf [8]byte
	copy(buf[8-size:], d.data[d.pos:d.pos+size])
	d.pos += size
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (d *decoder) scalar() (Value, error) {
	var v any
	rest, err := decMode.UnmarshalFirst(d.data[d.pos:], &v)
	if err != nil {
		return nil, errors.WrapDecodeError(serializationCaller, err, "offset %d", d.pos)
	}
	d.pos = len(d.data) - len(rest)
	switch t := v.(type) {
	case nil, bool, int64, float64, string, []byte:
		return t, nil
	case cbor.SimpleValue:
		return nil, d.fail("simple value %d", t)
	}
	return nil, d.fail("unsupported scalar %T", v)
}
