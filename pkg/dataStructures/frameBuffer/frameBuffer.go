// Package frameBuffer accumulates stream bytes and splits them into frames
// prefixed with a 4-byte big-endian length.
package frameBuffer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/nm-morais/go-golem/pkg/errors"
)

const (
	frameBufferCaller = "FrameBuffer"

	// HeaderSize is the width of the length prefix.
	HeaderSize = 4

	// DefaultMaxFrameSize bounds a single frame payload.
	DefaultMaxFrameSize = 16 << 20
)

// maxHeaderLength is the largest length the prefix can declare. Kept as a
// variable: the constant overflows a 32-bit int.
var maxHeaderLength uint64 = math.MaxUint32

// FrameBuffer is owned by a single connection and is not safe for
// concurrent use.
type FrameBuffer struct {
	buf      []byte
	off      int
	maxFrame int
}

// New returns an empty buffer that refuses frames longer than maxFrame.
// A non-positive maxFrame selects DefaultMaxFrameSize.
func New(maxFrame int) *FrameBuffer {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	if uint64(maxFrame) > maxHeaderLength {
		maxFrame = int(maxHeaderLength)
	}
	return &FrameBuffer{maxFrame: maxFrame}
}

// MaxFrameSize returns the configured payload limit.
func (b *FrameBuffer) MaxFrameSize() int {
	return b.maxFrame
}

// Len is the number of buffered, unread bytes.
func (b *FrameBuffer) Len() int {
	return len(b.buf) - b.off
}

// AppendFrame writes the length prefix followed by payload.
func (b *FrameBuffer) AppendFrame(payload []byte) error {
	if len(payload) > b.maxFrame {
		return errors.NewFrameTooLargeError(frameBufferCaller, len(payload), b.maxFrame)
	}
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	b.buf = append(b.buf, hdr[:]...)
	b.buf = append(b.buf, payload...)
	return nil
}

// AppendRaw feeds bytes read from the network.
func (b *FrameBuffer) AppendRaw(data []byte) {
	b.buf = append(b.buf, data...)
}

// Write implements io.Writer over AppendRaw.
func (b *FrameBuffer) Write(p []byte) (int, error) {
	b.AppendRaw(p)
	return len(p), nil
}

// ReadFrame consumes and returns the next complete payload. ok is false
// with a nil error when no complete frame is buffered yet. A declared
// length above the limit fails with ErrFrameTooLarge and consumes nothing.
func (b *FrameBuffer) ReadFrame() (frame []byte, ok bool, err error) {
	avail := b.buf[b.off:]
	if len(avail) < HeaderSize {
		return nil, false, nil
	}
	size := binary.BigEndian.Uint32(avail[:HeaderSize])
	if uint64(size) > uint64(b.maxFrame) {
		return nil, false, errors.NewFrameTooLargeError(frameBufferCaller, int(size), b.maxFrame)
	}
	end := HeaderSize + int(size)
	if len(avail) < end {
		return nil, false, nil
	}
	frame = make([]byte, size)
	copy(frame, avail[HeaderSize:end])
	b.off += end
	b.reclaim()
	return frame, true, nil
}

// ReadAll drains every buffered byte, framed or not.
func (b *FrameBuffer) ReadAll() []byte {
	out := make([]byte, b.Len())
	copy(out, b.buf[b.off:])
	b.Reset()
	return out
}

// WriteTo writes the buffered bytes to w, consuming what was written.
func (b *FrameBuffer) WriteTo(w io.Writer) (int64, error) {
	total := b.Len()
	if total == 0 {
		return 0, nil
	}
	n, err := w.Write(b.buf[b.off:])
	if n > 0 {
		b.off += n
		b.reclaim()
	}
	if err == nil && n < total {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

func (b *FrameBuffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

func (b *FrameBuffer) reclaim() {
	switch {
	case b.off == len(b.buf):
		b.Reset()
	case b.off > len(b.buf)/2:
		n := copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:n]
		b.off = 0
	}
}
