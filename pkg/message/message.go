package message

import (
	"slices"
	"time"
)

const messageCaller = "Message"

type ID uint16

// Range names the block of ids a type belongs to.
func (id ID) Range() string {
	switch {
	case id < 1000:
		return "base"
	case id < 2000:
		return "p2p"
	case id < 3000:
		return "task"
	case id < 4000:
		return "resource"
	case id >= 5000 && id < 6000:
		return "manager"
	}
	return "unassigned"
}

// Message is implemented by every variant. Variants embed Envelope, which is
// the only way to satisfy the unexported method.
type Message interface {
	Type() ID
	Signature() []byte
	Timestamp() float64
	Encrypted() bool
	envelope() *Envelope
}

// Factory returns a variant with every optional field set to its default.
type Factory func() Message

// Header carries the envelope state of a message decoded from the wire.
type Header struct {
	Signature []byte
	Timestamp float64
	Encrypted bool
}

type Envelope struct {
	signature []byte
	timestamp float64
	encrypted bool
}

// NewEnvelope stamps the current time.
func NewEnvelope() Envelope {
	return Envelope{timestamp: Now()}
}

func NewEnvelopeAt(timestamp float64) Envelope {
	return Envelope{timestamp: timestamp}
}

// Now returns seconds since the epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func (e *Envelope) Signature() []byte {
	return slices.Clone(e.signature)
}

func (e *Envelope) Timestamp() float64 {
	return e.timestamp
}

// Encrypted reports whether the frame carrying the message was encrypted.
// It is never part of the wire encoding.
func (e *Envelope) Encrypted() bool {
	return e.encrypted
}

func (e *Envelope) envelope() *Envelope {
	return e
}
