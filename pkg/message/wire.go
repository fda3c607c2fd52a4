package message

import (
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

const envelopeLen = 4

// Serialize encodes [type, signature, timestamp, fields] with fields in
// declaration order.
func Serialize(m Message) ([]byte, error) {
	fields, err := Fields(m)
	if err != nil {
		return nil, err
	}
	sig := m.Signature()
	if sig == nil {
		sig = []byte{}
	}
	return serialization.Encode([]serialization.Value{int64(m.Type()), sig, m.Timestamp(), fields})
}

// RawEnvelope is a decoded envelope whose type is not yet resolved.
type RawEnvelope struct {
	Type   int64
	Header Header
	Fields serialization.Map
}

// DecodeEnvelope parses the envelope tuple. A null or text signature is
// accepted and read as bytes; an integer timestamp is widened.
func DecodeEnvelope(raw []byte) (RawEnvelope, error) {
	v, err := serialization.Decode(raw)
	if err != nil {
		return RawEnvelope{}, err
	}
	tuple, ok := v.([]serialization.Value)
	if !ok || len(tuple) != envelopeLen {
		return RawEnvelope{}, errors.NewDecodeError(messageCaller, "envelope is not a %d-element list", envelopeLen)
	}
	env := RawEnvelope{}
	if env.Type, ok = tuple[0].(int64); !ok {
		return RawEnvelope{}, errors.NewDecodeError(messageCaller, "envelope type of kind %s", serialization.KindOf(tuple[0]))
	}
	switch sig := tuple[1].(type) {
	case nil:
	case []byte:
		env.Header.Signature = sig
	case string:
		env.Header.Signature = []byte(sig)
	default:
		return RawEnvelope{}, errors.NewDecodeError(messageCaller, "envelope signature of kind %s", serialization.KindOf(sig))
	}
	switch ts := tuple[2].(type) {
	case float64:
		env.Header.Timestamp = ts
	case int64:
		env.Header.Timestamp = float64(ts)
	default:
		return RawEnvelope{}, errors.NewDecodeError(messageCaller, "envelope timestamp of kind %s", serialization.KindOf(ts))
	}
	if env.Fields, ok = tuple[3].(serialization.Map); !ok {
		return RawEnvelope{}, errors.NewDecodeError(messageCaller, "envelope fields of kind %s", serialization.KindOf(tuple[3]))
	}
	return env, nil
}
