package messageIO

import (
	"io"

	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
)

const DefaultChunkSize = 64 << 10

// MessageReader pumps raw stream bytes into a frame buffer. Frame
// boundaries are left to the buffer.
type MessageReader interface {
	io.Closer
	Fill() (int, error)
	Frames() *frameBuffer.FrameBuffer
}

type messageReader struct {
	stream io.ReadCloser
	buf    []byte
	frames *frameBuffer.FrameBuffer
}

func NewMessageReader(readCloser io.ReadCloser, chunkSize, maxFrameSize int) MessageReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &messageReader{
		stream: readCloser,
		buf:    make([]byte, chunkSize),
		frames: frameBuffer.New(maxFrameSize),
	}
}

func (a *messageReader) Frames() *frameBuffer.FrameBuffer {
	return a.frames
}

// Fill performs a single read and appends whatever arrived. Bytes read
// before an error are kept.
func (a *messageReader) Fill() (int, error) {
	n, err := a.stream.Read(a.buf)
	if n > 0 {
		a.frames.AppendRaw(a.buf[:n])
	}
	return n, err
}

// Close only closes the stream. The frame buffer belongs to the goroutine
// calling Fill and is left for it to drop.
func (a *messageReader) Close() error {
	return a.stream.Close()
}
