package message

import (
	"slices"

	"github.com/nm-morais/go-golem/pkg/crypto"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

// HashInputer replaces the default short-hash input of a variant.
type HashInputer interface {
	HashInput() (serialization.Value, error)
}

// HashInput is the value whose encoding is hashed by ShortHash: the fields
// as a list of [name, value] pairs sorted by name, every nested map sorted
// by key.
func HashInput(m Message) (serialization.Value, error) {
	if h, ok := m.(HashInputer); ok {
		return h.HashInput()
	}
	fields, err := Fields(m)
	if err != nil {
		return nil, err
	}
	return SortedEntries(fields)
}

func SortedEntries(m serialization.Map) (serialization.Value, error) {
	c, err := serialization.Canonicalize(m)
	if err != nil {
		return nil, err
	}
	sorted := c.(serialization.Map)
	out := make([]serialization.Value, len(sorted))
	for i, e := range sorted {
		out[i] = []serialization.Value{e.Key, e.Value}
	}
	return out, nil
}

// SortedRecords turns an unordered list of records into hash input
// independent of both record order and the key order inside each record.
func SortedRecords(records []serialization.Map) (serialization.Value, error) {
	out := make([]serialization.Value, 0, len(records))
	for _, r := range records {
		s, err := SortedEntries(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, serialization.Compare)
	return out, nil
}

// ShortHash is the digest a sender signs. Signature and timestamp are not
// part of it.
func ShortHash(m Message) ([]byte, error) {
	in, err := HashInput(m)
	if err != nil {
		return nil, err
	}
	b, err := serialization.Encode(in)
	if err != nil {
		return nil, err
	}
	return crypto.Hash(b)
}

// Sign returns a signed copy of m.
func Sign(m Message, signer crypto.Signer) (Message, error) {
	h, err := ShortHash(m)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(h)
	if err != nil {
		return nil, err
	}
	return WithSignature(m, sig), nil
}

// Verify recomputes the short hash and checks the carried signature.
// Unsigned messages never verify.
func Verify(m Message, verifier crypto.Verifier) (bool, error) {
	sig := m.Signature()
	if len(sig) == 0 {
		return false, nil
	}
	h, err := ShortHash(m)
	if err != nil {
		return false, err
	}
	return verifier.Verify(h, sig)
}
