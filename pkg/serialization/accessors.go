package serialization

import (
	"github.com/nm-morais/go-golem/pkg/errors"
)

// The Get* helpers read optional keys of nested domain records: an absent key
// or a null value yields the zero value, a value of the wrong kind an error.

func (m Map) GetString(key string) (string, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongKind(key, "string", v)
	}
	return s, nil
}

func (m Map) GetInt(key string) (int64, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return 0, nil
	}
	i, ok := v.(int64)
	if !ok {
		return 0, wrongKind(key, "integer", v)
	}
	return i, nil
}

// GetFloat accepts integers as well, peers are free to send 3 for 3.0.
func (m Map) GetFloat(key string) (float64, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return 0, nil
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	}
	return 0, wrongKind(key, "float", v)
}

func (m Map) GetBool(key string) (bool, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongKind(key, "bool", v)
	}
	return b, nil
}

func (m Map) GetMap(key string) (Map, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	sub, ok := v.(Map)
	if !ok {
		return nil, wrongKind(key, "map", v)
	}
	return sub, nil
}

func (m Map) GetList(key string) ([]Value, error) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]Value)
	if !ok {
		return nil, wrongKind(key, "list", v)
	}
	return l, nil
}

// GetStrings reads a list whose elements must all be strings. An empty list
// yields nil.
func (m Map) GetStrings(key string) ([]string, error) {
	l, err := m.GetList(key)
	if err != nil || len(l) == 0 {
		return nil, err
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		s, ok := v.(string)
		if !ok {
			return nil, wrongKind(key, "list of strings", v)
		}
		out = append(out, s)
	}
	return out, nil
}

func wrongKind(key, want string, got Value) error {
	return errors.NewDecodeError(serializationCaller, "key %q: expected %s, got %s", key, want, KindOf(got))
}
