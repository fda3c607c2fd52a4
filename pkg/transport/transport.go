// Package transport runs the wire pipeline over TCP connections addressed
// by multiaddrs.
package transport

import (
	"context"
	"net"
	"sync"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/nm-morais/go-golem/configs"
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/serializationManager"
	"github.com/panjf2000/ants"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

const TransportCaller = "Transport"

func OptionsFromConfig(conf configs.WireConfig, m *metrics.Metrics) Options {
	return Options{
		MaxFrameSize:  conf.MaxFrameSize,
		ReadChunkSize: conf.ReadChunkSize,
		ReadTimeout:   conf.ReadTimeout,
		Metrics:       m,
	}
}

// Dial connects to addr within conf.DialTimeout.
func Dial(ctx context.Context, addr ma.Multiaddr, conf configs.WireConfig, registry serializationManager.SerializationManager, m *metrics.Metrics) (*Stream, error) {
	if conf.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.DialTimeout)
		defer cancel()
	}
	var d manet.Dialer
	conn, err := d.DialContext(ctx, addr)
	if err != nil {
		return nil, errors.NonFatalError(errors.CodeTransport, err.Error(), TransportCaller)
	}
	return NewStream(conn, registry, OptionsFromConfig(conf, m)), nil
}

// Handler serves one accepted stream. The stream is closed when it returns.
type Handler func(s *Stream)

type Listener struct {
	listener manet.Listener
	pool     *ants.Pool
	registry serializationManager.SerializationManager
	opts     Options
	handler  Handler
	metrics  *metrics.Metrics
	logger   *log.Logger

	streams   sync.Map
	wg        sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
}

// Listen accepts on addr, capping open connections at conf.MaxConnections
// and running handlers on a pool of conf.WorkerPoolSize goroutines.
func Listen(addr ma.Multiaddr, conf configs.WireConfig, registry serializationManager.SerializationManager, m *metrics.Metrics, handler Handler) (*Listener, error) {
	network, host, err := manet.DialArgs(addr)
	if err != nil {
		return nil, errors.FatalError(errors.CodeTransport, err.Error(), TransportCaller)
	}
	var lc net.ListenConfig
	netListener, err := lc.Listen(context.Background(), network, host)
	if err != nil {
		return nil, errors.FatalError(errors.CodeTransport, err.Error(), TransportCaller)
	}
	if conf.MaxConnections > 0 {
		netListener = netutil.LimitListener(netListener, conf.MaxConnections)
	}
	wrapped, err := manet.WrapNetListener(netListener)
	if err != nil {
		netListener.Close()
		return nil, errors.FatalError(errors.CodeTransport, err.Error(), TransportCaller)
	}
	poolSize := conf.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = configs.Default().WorkerPoolSize
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		wrapped.Close()
		return nil, errors.FatalError(errors.CodeTransport, err.Error(), TransportCaller)
	}

	logger := logs.NewLogger(TransportCaller)
	if err := logs.Configure(logger, conf.LogFolder, "transport", conf.LogLevel); err != nil {
		logger.Warn(err)
	}
	opts := OptionsFromConfig(conf, m)
	opts.Logger = logger
	l := &Listener{
		listener: wrapped,
		pool:     pool,
		registry: registry,
		opts:     opts,
		handler:  handler,
		metrics:  m,
		logger:   logger,
		closing:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.acceptLoop()
	logger.Infof("listening on %s", wrapped.Multiaddr())
	return l, nil
}

// Multiaddr is the bound address, with the real port when addr used 0.
func (l *Listener) Multiaddr() ma.Multiaddr {
	return l.listener.Multiaddr()
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.closing:
				return
			default:
			}
			l.logger.Error(err)
			time.Sleep(10 * time.Millisecond)
			continue
		}
		s := NewStream(conn, l.registry, l.opts)
		l.streams.Store(s, struct{}{})
		l.metrics.UpdateConnections(1)
		select {
		case <-l.closing:
			l.release(s)
			return
		default:
		}
		l.wg.Add(1)
		if err := l.pool.Submit(func() { l.serve(s) }); err != nil {
			l.logger.Errorf("could not serve %s: %s", conn.RemoteAddr(), err)
			l.release(s)
			l.wg.Done()
		}
	}
}

func (l *Listener) serve(s *Stream) {
	defer l.wg.Done()
	defer l.release(s)
	l.metrics.UpdateWorkerPool(l.pool.Running())
	l.handler(s)
}

func (l *Listener) release(s *Stream) {
	if err := s.Close(); err != nil {
		l.logger.Debug(err)
	}
	if _, loaded := l.streams.LoadAndDelete(s); loaded {
		l.metrics.UpdateConnections(-1)
	}
}

// Close stops accepting, closes open streams and waits for handlers to
// return before releasing the pool.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closing)
		err = l.listener.Close()
		l.streams.Range(func(key, _ any) bool {
			_ = key.(*Stream).Close()
			return true
		})
		l.wg.Wait()
		l.pool.Release()
	})
	return err
}
