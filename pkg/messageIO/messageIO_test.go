package messageIO

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/nm-morais/go-golem/pkg/crypto"
	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/messages"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietDecoder(m *metrics.Metrics) *Decoder {
	logger := log.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewDecoder(messages.NewRegistry(), m, logger)
}

func newCipher(t *testing.T) *crypto.SessionCipher {
	key := bytes.Repeat([]byte{7}, crypto.SessionKeySize)
	c, err := crypto.NewSessionCipher(key)
	require.NoError(t, err)
	return c
}

func TestPingPongScenario(t *testing.T) {
	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, messages.NewPing(), nil))
	require.NoError(t, WriteMessage(buf, messages.NewPong(), nil))

	got, err := quietDecoder(nil).ExtractMessages(buf, crypto.NoopDecryptor{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, messages.PingMessageType, got[0].Type())
	assert.Equal(t, messages.PongMessageType, got[1].Type())
	assert.IsType(t, &messages.Ping{}, got[0])
	assert.IsType(t, &messages.Pong{}, got[1])
	for _, m := range got {
		assert.False(t, m.Encrypted())
	}
	assert.Equal(t, 0, buf.Len())
}

func TestPartialFrameWaits(t *testing.T) {
	wire := frameBuffer.New(0)
	require.NoError(t, WriteMessage(wire, messages.NewDegree(3), nil))
	raw := wire.ReadAll()

	buf := frameBuffer.New(0)
	dec := quietDecoder(nil)
	buf.AppendRaw(raw[:len(raw)-1])
	got, err := dec.ExtractPlainMessages(buf)
	require.NoError(t, err)
	assert.Empty(t, got)

	buf.AppendRaw(raw[len(raw)-1:])
	got, err = dec.ExtractPlainMessages(buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].(*messages.Degree).Degree)
}

func TestUnrecognizedTypeKeepsEarlierMessages(t *testing.T) {
	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, messages.NewPing(), nil))
	unknown, err := serialization.Encode([]serialization.Value{int64(4321), []byte{}, 1.0, serialization.Map{}})
	require.NoError(t, err)
	require.NoError(t, buf.AppendFrame(unknown))
	require.NoError(t, WriteMessage(buf, messages.NewPong(), nil))

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	got, err := quietDecoder(m).ExtractPlainMessages(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnrecognizedType)
	require.Len(t, got, 1)
	assert.Equal(t, messages.PingMessageType, got[0].Type())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineErrors.WithLabelValues("unrecognized_type")))

	// the failing frame is consumed, the next pass sees the Pong.
	got, err = quietDecoder(nil).ExtractPlainMessages(buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, messages.PongMessageType, got[0].Type())
}

func TestMalformedEnvelopeFails(t *testing.T) {
	buf := frameBuffer.New(0)
	require.NoError(t, buf.AppendFrame([]byte{0x83, 0x01, 0x40, 0xa0}))
	got, err := ExtractPlainMessages(buf, messages.NewRegistry())
	assert.Empty(t, got)
	assert.ErrorIs(t, err, errors.ErrDecode)
	assert.Equal(t, "decode", ErrorKind(err))
}

func TestDecryptFallbackMixed(t *testing.T) {
	c := newCipher(t)
	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, messages.NewPing(), c))
	require.NoError(t, WriteMessage(buf, messages.NewPong(), nil))
	require.NoError(t, WriteMessage(buf, messages.NewDegree(9), c))

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	got, err := quietDecoder(m).ExtractMessages(buf, c)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Encrypted())
	assert.False(t, got[1].Encrypted())
	assert.True(t, got[2].Encrypted())
	assert.Equal(t, int64(9), got[2].(*messages.Degree).Degree)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaintextFallbacks))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesRead))
}

func TestDecryptionFailureIsFatal(t *testing.T) {
	sender := newCipher(t)
	other, err := crypto.NewSessionCipher(bytes.Repeat([]byte{8}, crypto.SessionKeySize))
	require.NoError(t, err)

	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, messages.NewPing(), nil))
	require.NoError(t, WriteMessage(buf, messages.NewPong(), sender))

	got, err := quietDecoder(nil).ExtractMessages(buf, other)
	assert.ErrorIs(t, err, errors.ErrDecryption)
	require.Len(t, got, 1)
	assert.False(t, got[0].Encrypted())
}

type brokenDecryptor struct{}

func (brokenDecryptor) Decrypt([]byte) ([]byte, error) {
	return nil, stderrors.New("hsm unavailable")
}

func TestForeignDecryptorErrorWrapped(t *testing.T) {
	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, messages.NewPing(), nil))
	_, err := ExtractMessages(buf, messages.NewRegistry(), brokenDecryptor{})
	assert.ErrorIs(t, err, errors.ErrDecryption)
	assert.Equal(t, "decryption", ErrorKind(err))
}

func TestFrameTooLarge(t *testing.T) {
	big := frameBuffer.New(0)
	require.NoError(t, WriteMessage(big, messages.NewRemoveTask(string(bytes.Repeat([]byte("x"), 64))), nil))

	buf := frameBuffer.New(32)
	buf.AppendRaw(big.ReadAll())
	got, err := quietDecoder(nil).ExtractPlainMessages(buf)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, errors.ErrFrameTooLarge)
	assert.Equal(t, "frame_too_large", ErrorKind(err))
}

func TestEncoderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	buf := frameBuffer.New(0)
	require.NoError(t, NewEncoder(m).WriteMessage(buf, messages.NewPing(), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesEncoded.WithLabelValues("1001")))
}

func TestSignedMessageSurvivesPipeline(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	signed, err := message.Sign(messages.NewFindNode("kid"), id)
	require.NoError(t, err)

	c := newCipher(t)
	buf := frameBuffer.New(0)
	require.NoError(t, WriteMessage(buf, signed, c))
	got, err := ExtractMessages(buf, messages.NewRegistry(), c)
	require.NoError(t, err)
	require.Len(t, got, 1)
	ok, err := message.Verify(got[0], id)
	require.NoError(t, err)
	assert.True(t, ok)
}
