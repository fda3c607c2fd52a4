package messageIO

import (
	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/metrics"
)

const encoderCaller = "Encoder"

// Encryptor seals outbound frames.
type Encryptor interface {
	Encrypt(plain []byte) ([]byte, error)
}

type Encoder struct {
	metrics *metrics.Metrics
}

func NewEncoder(m *metrics.Metrics) *Encoder {
	return &Encoder{metrics: m}
}

// WriteMessage serializes m, seals it when enc is set and appends the
// frame to buf. buf is untouched on failure.
func (e *Encoder) WriteMessage(buf *frameBuffer.FrameBuffer, m message.Message, enc Encryptor) error {
	payload, err := message.Serialize(m)
	if err != nil {
		return err
	}
	if enc != nil {
		if payload, err = enc.Encrypt(payload); err != nil {
			return errors.NewEncodeError(encoderCaller, "sealing %d: %v", m.Type(), err)
		}
	}
	if err := buf.AppendFrame(payload); err != nil {
		return err
	}
	e.metrics.RecordEncoded(uint16(m.Type()))
	e.metrics.RecordFrameWritten()
	return nil
}

func WriteMessage(buf *frameBuffer.FrameBuffer, m message.Message, enc Encryptor) error {
	return NewEncoder(nil).WriteMessage(buf, m, enc)
}
