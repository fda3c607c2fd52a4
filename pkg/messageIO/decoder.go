// Package messageIO turns frame buffers into messages and back.
package messageIO

import (
	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/serializationManager"
	log "github.com/sirupsen/logrus"
)

const decoderCaller = "Decoder"

// Decryptor opens inbound frames. Returning an error matching
// errors.ErrNotEncrypted makes the pipeline read the frame as plaintext.
type Decryptor interface {
	Decrypt(frame []byte) ([]byte, error)
}

type Decoder struct {
	registry serializationManager.SerializationManager
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// NewDecoder builds a decoder over registry. m and logger may be nil.
func NewDecoder(registry serializationManager.SerializationManager, m *metrics.Metrics, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = logs.NewLogger(decoderCaller)
	}
	return &Decoder{
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// ExtractMessages decodes every complete frame in buf, trying dec first on
// each. The first failing frame is consumed and stops the pass; messages
// decoded before it are returned together with the error.
func (d *Decoder) ExtractMessages(buf *frameBuffer.FrameBuffer, dec Decryptor) ([]message.Message, error) {
	return d.extract(buf, dec)
}

// ExtractPlainMessages is ExtractMessages for channels known to be
// plaintext.
func (d *Decoder) ExtractPlainMessages(buf *frameBuffer.FrameBuffer) ([]message.Message, error) {
	return d.extract(buf, nil)
}

func (d *Decoder) extract(buf *frameBuffer.FrameBuffer, dec Decryptor) ([]message.Message, error) {
	var out []message.Message
	for {
		frame, ok, err := buf.ReadFrame()
		if err != nil {
			return out, d.fail(err)
		}
		if !ok {
			d.logger.Tracef("extracted %d messages, %d bytes pending", len(out), buf.Len())
			return out, nil
		}
		d.metrics.RecordFrameRead(len(frame))

		plain, encrypted, err := d.open(frame, dec)
		if err != nil {
			return out, d.fail(err)
		}
		m, err := d.registry.Deserialize(plain, encrypted)
		if err != nil {
			return out, d.fail(err)
		}
		d.metrics.RecordDecoded(uint16(m.Type()), encrypted)
		out = append(out, m)
	}
}

func (d *Decoder) open(frame []byte, dec Decryptor) ([]byte, bool, error) {
	if dec == nil {
		return frame, false, nil
	}
	plain, err := dec.Decrypt(frame)
	switch {
	case err == nil:
		return plain, true, nil
	case errors.Is(err, errors.ErrNotEncrypted):
		d.metrics.RecordPlaintextFallback()
		d.logger.Debug("frame not encrypted, reading as plaintext")
		return frame, false, nil
	case errors.Is(err, errors.ErrDecryption):
		return nil, false, err
	default:
		return nil, false, errors.NewDecryptionError(decoderCaller, err)
	}
}

func (d *Decoder) fail(err error) error {
	kind := ErrorKind(err)
	d.metrics.RecordError(kind)
	var e errors.Error
	if errors.As(err, &e) {
		e.Log(d.logger)
	} else {
		d.logger.Errorf("%s: %s", kind, err)
	}
	return err
}

// ErrorKind names the failure class of a pipeline error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, errors.ErrFrameTooLarge):
		return "frame_too_large"
	case errors.Is(err, errors.ErrDecryption):
		return "decryption"
	case errors.Is(err, errors.ErrUnrecognizedType):
		return "unrecognized_type"
	case errors.Is(err, errors.ErrMissingField):
		return "missing_field"
	case errors.Is(err, errors.ErrDecode):
		return "decode"
	}
	return "other"
}

// ExtractMessages runs a Decoder without metrics over registry.
func ExtractMessages(buf *frameBuffer.FrameBuffer, registry serializationManager.SerializationManager, dec Decryptor) ([]message.Message, error) {
	return NewDecoder(registry, nil, nil).ExtractMessages(buf, dec)
}

func ExtractPlainMessages(buf *frameBuffer.FrameBuffer, registry serializationManager.SerializationManager) ([]message.Message, error) {
	return NewDecoder(registry, nil, nil).ExtractPlainMessages(buf)
}
