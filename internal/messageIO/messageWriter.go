package messageIO

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/smallnest/goframe"
)

const messageWriterCaller = "MessageWriter"

var (
	encoderConfig = goframe.EncoderConfig{
		ByteOrder:                       binary.BigEndian,
		LengthFieldLength:               frameBuffer.HeaderSize,
		LengthAdjustment:                0,
		LengthIncludesLengthFieldLength: false,
	}

	decoderConfig = goframe.DecoderConfig{
		ByteOrder:           binary.BigEndian,
		LengthFieldOffset:   0,
		LengthFieldLength:   frameBuffer.HeaderSize,
		LengthAdjustment:    0,
		InitialBytesToStrip: frameBuffer.HeaderSize,
	}
)

// MessageWriter writes whole frames; concurrent writers never interleave.
type MessageWriter interface {
	io.Closer
	WriteFrame(payload []byte) error
}

type messageWriter struct {
	mu           sync.Mutex
	outStream    goframe.FrameConn
	maxFrameSize int
}

func NewMessageWriter(conn net.Conn, maxFrameSize int) MessageWriter {
	if maxFrameSize <= 0 {
		maxFrameSize = frameBuffer.DefaultMaxFrameSize
	}
	return &messageWriter{
		outStream:    goframe.NewLengthFieldBasedFrameConn(encoderConfig, decoderConfig, conn),
		maxFrameSize: maxFrameSize,
	}
}

func (w *messageWriter) WriteFrame(payload []byte) error {
	if len(payload) > w.maxFrameSize {
		return errors.NewFrameTooLargeError(messageWriterCaller, len(payload), w.maxFrameSize)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outStream.WriteFrame(payload)
}

func (w *messageWriter) Close() error {
	return w.outStream.Close()
}
