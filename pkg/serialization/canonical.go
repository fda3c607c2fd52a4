package serialization

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindInvalid
)

var kindNames = [...]string{"null", "bool", "int", "float", "string", "bytes", "list", "map", "invalid"}

func (k Kind) String() string {
	return kindNames[k]
}

// KindOf classifies a normalized value.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case []Value:
		return KindList
	case Map:
		return KindMap
	}
	return KindInvalid
}

// Canonicalize returns a normalized copy of v in which every Map, at any
// depth, is sorted by key. Lists keep their order.
func Canonicalize(v Value) (Value, error) {
	n, err := normalize(v, 0)
	if err != nil {
		return nil, err
	}
	return sortMaps(n), nil
}

func sortMaps(v Value) Value {
	switch t := v.(type) {
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = sortMaps(e)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for i, e := range t {
			out[i] = Entry{Key: e.Key, Value: sortMaps(e.Value)}
		}
		slices.SortStableFunc(out, func(a, b Entry) int {
			if c := Compare(a.Key, b.Key); c != 0 {
				return c
			}
			return Compare(a.Value, b.Value)
		})
		return out
	}
	return v
}

// Compare totally orders normalized values: first by Kind, then by value.
// Lists and maps compare element by element, a shorter prefix sorting first.
func Compare(a, b Value) int {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case int64:
		return cmp.Compare(x, b.(int64))
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return strings.Compare(x, b.(string))
	case []byte:
		return bytes.Compare(x, b.([]byte))
	case []Value:
		return slices.CompareFunc(x, b.([]Value), Compare)
	case Map:
		return slices.CompareFunc(x, b.(Map), func(ea, eb Entry) int {
			if c := Compare(ea.Key, eb.Key); c != 0 {
				return c
			}
			return Compare(ea.Value, eb.Value)
		})
	}
	return 0
}

// Equal reports whether two values have identical canonical encodings.
func Equal(a, b Value) bool {
	ea, errA := Encode(a)
	eb, errB := Encode(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
