package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/nm-morais/go-golem/configs"
	"github.com/nm-morais/go-golem/examples/pingPong"
	"github.com/nm-morais/go-golem/pkg/admin"
	"github.com/nm-morais/go-golem/pkg/crypto"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/messages"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configFile string
		listen     string
		contact    string
		count      int
		interval   time.Duration
	)
	flag.StringVar(&configFile, "config", "", "config file (json or yaml)")
	flag.StringVar(&listen, "listen", "", "listen multiaddr, overrides the config")
	flag.StringVar(&contact, "contact", "", "multiaddr of the node to ping; empty runs a responder")
	flag.IntVar(&count, "n", 5, "pings to send")
	flag.DurationVar(&interval, "interval", time.Second, "time between pings")
	flag.Parse()

	logger := logs.NewLogger("pingPong")
	conf, err := configs.ReadConfigFromFile(configFile)
	if err != nil {
		logger.Fatal(err)
	}
	if listen != "" {
		conf.ListenAddr = listen
	}
	if err := logs.Configure(logger, conf.LogFolder, "pingPong", conf.LogLevel); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(conf.MetricsNamespace, promRegistry)
	registry := messages.NewRegistry()
	if conf.AdminAddr != "" {
		server := admin.NewServer(conf.AdminAddr, registry, promRegistry)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error(err)
			}
		}()
	}

	identity, err := crypto.NewIdentity()
	if err != nil {
		logger.Fatal(err)
	}
	listenAddr, err := ma.NewMultiaddr(conf.ListenAddr)
	if err != nil {
		logger.Fatal(err)
	}
	node := &peer.NodeInfo{Name: "pingPong", Key: identity.KeyID()}
	protocol := pingPong.NewPingPongProtocol(identity, node)

	if contact == "" {
		l, err := transport.Listen(listenAddr, conf, registry, m, protocol.Responder())
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infof("responder %s on %s", identity.KeyID(), l.Multiaddr())
		<-ctx.Done()
		if err := l.Close(); err != nil {
			logger.Error(err)
		}
		return
	}

	contactAddr, err := ma.NewMultiaddr(contact)
	if err != nil {
		logger.Fatal(err)
	}
	s, err := transport.Dial(ctx, contactAddr, conf, registry, m)
	if err != nil {
		logger.Fatal(err)
	}
	defer s.Close()
	if err := protocol.Run(ctx, s, count, interval); err != nil {
		logger.Error(err)
		return
	}
	logger.Infof("received %d pongs", protocol.Pongs())
}
