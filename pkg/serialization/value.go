// Package serialization implements the canonical encoding shared by every
// message on the wire: deterministic CBOR over a small closed value model.
//
// A decoded Value is always one of nil, bool, int64, float64, string, []byte,
// []Value or Map. Encode additionally accepts the other Go integer and float
// kinds, typed slices and Marshaler implementations, and converts them to
// that model first (see Normalize).
package serialization

import (
	"slices"
)

const serializationCaller = "Serialization"

// MaxDepth bounds the nesting of lists and maps accepted in either direction.
const MaxDepth = 64

type Value = any

type Entry struct {
	Key   Value
	Value Value
}

// Map is an ordered mapping. The encoder writes entries in slice order and
// never sorts; use Canonicalize when a stable order is required.
type Map []Entry

// Marshaler is implemented by nested domain objects that travel inside
// message fields.
type Marshaler interface {
	MarshalCanonical() (Value, error)
}

type Unmarshaler interface {
	UnmarshalCanonical(v Value) error
}

func (m Map) Len() int { return len(m) }

// Get returns the value stored under a string key.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if s, ok := e.Key.(string); ok && s == key {
			return e.Value, true
		}
	}
	return nil, false
}

func (m Map) Keys() []Value {
	keys := make([]Value, 0, len(m))
	for _, e := range m {
		keys = append(keys, e.Key)
	}
	return keys
}

// With returns a copy of m with key set to v, replacing an existing string key
// in place or appending otherwise.
func (m Map) With(key string, v Value) Map {
	out := slices.Clone(m)
	for i, e := range out {
		if s, ok := e.Key.(string); ok && s == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Entry{Key: key, Value: v})
}

// Without returns a copy of m lacking the string key.
func (m Map) Without(key string) Map {
	out := make(Map, 0, len(m))
	for _, e := range m {
		if s, ok := e.Key.(string); ok && s == key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FromStringMap converts a Go map into a Map sorted by key.
func FromStringMap(in map[string]Value) Map {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make(Map, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: in[k]})
	}
	return out
}
