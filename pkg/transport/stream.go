package transport

import (
	"net"
	"sync"
	"time"

	internalIO "github.com/nm-morais/go-golem/internal/messageIO"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/messageIO"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/serializationManager"
	log "github.com/sirupsen/logrus"
)

const streamCaller = "Stream"

// Stream carries framed messages over one connection. Send may be called
// from several goroutines; Receive must not.
type Stream struct {
	conn        net.Conn
	reader      internalIO.MessageReader
	writer      internalIO.MessageWriter
	decoder     *messageIO.Decoder
	metrics     *metrics.Metrics
	logger      *log.Entry
	readTimeout time.Duration

	cryptoLock sync.RWMutex
	enc        messageIO.Encryptor
	dec        messageIO.Decryptor

	closeOnce sync.Once
	closeErr  error
}

// Options configures a Stream. Zero values select the defaults.
type Options struct {
	MaxFrameSize  int
	ReadChunkSize int
	ReadTimeout   time.Duration
	Metrics       *metrics.Metrics
	Logger        *log.Logger
}

func NewStream(conn net.Conn, registry serializationManager.SerializationManager, opts Options) *Stream {
	logger := opts.Logger
	if logger == nil {
		logger = logs.NewLogger(streamCaller)
	}
	return &Stream{
		conn:        conn,
		reader:      internalIO.NewMessageReader(conn, opts.ReadChunkSize, opts.MaxFrameSize),
		writer:      internalIO.NewMessageWriter(conn, opts.MaxFrameSize),
		decoder:     messageIO.NewDecoder(registry, opts.Metrics, logger),
		metrics:     opts.Metrics,
		logger:      logger.WithField("peer", conn.RemoteAddr().String()),
		readTimeout: opts.ReadTimeout,
	}
}

// SetEncryption installs the session cipher pair. A nil decryptor reads
// every inbound frame as plaintext; a nil encryptor sends plaintext.
func (s *Stream) SetEncryption(enc messageIO.Encryptor, dec messageIO.Decryptor) {
	s.cryptoLock.Lock()
	s.enc, s.dec = enc, dec
	s.cryptoLock.Unlock()
}

func (s *Stream) ciphers() (messageIO.Encryptor, messageIO.Decryptor) {
	s.cryptoLock.RLock()
	defer s.cryptoLock.RUnlock()
	return s.enc, s.dec
}

func (s *Stream) Send(m message.Message) error {
	payload, err := message.Serialize(m)
	if err != nil {
		return err
	}
	if enc, _ := s.ciphers(); enc != nil {
		if payload, err = enc.Encrypt(payload); err != nil {
			return errors.NewEncodeError(streamCaller, "sealing %d: %v", m.Type(), err)
		}
	}
	if err := s.writer.WriteFrame(payload); err != nil {
		return err
	}
	s.metrics.RecordEncoded(uint16(m.Type()))
	s.metrics.RecordFrameWritten()
	s.metrics.RecordBytesWritten(len(payload) + 4)
	s.logger.Tracef("sent message %d", m.Type())
	return nil
}

// Receive blocks until at least one message is decoded or the pipeline
// fails. Messages decoded before a failure are returned with the error.
func (s *Stream) Receive() ([]message.Message, error) {
	for {
		msgs, err := s.extract()
		if err != nil || len(msgs) > 0 {
			return msgs, err
		}
		if s.readTimeout > 0 {
			// a connection closed by the peer refuses deadlines; the read
			// below reports why.
			if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
				s.logger.Debugf("set read deadline: %s", err)
			}
		}
		n, err := s.reader.Fill()
		s.metrics.RecordBytesRead(n)
		if err != nil {
			if n > 0 {
				if msgs, extractErr := s.extract(); extractErr != nil || len(msgs) > 0 {
					return msgs, extractErr
				}
			}
			return nil, err
		}
	}
}

func (s *Stream) extract() ([]message.Message, error) {
	if _, dec := s.ciphers(); dec != nil {
		return s.decoder.ExtractMessages(s.reader.Frames(), dec)
	}
	return s.decoder.ExtractPlainMessages(s.reader.Frames())
}

func (s *Stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Stream) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.reader.Close()
		s.logger.Debug("closed")
	})
	return s.closeErr
}
