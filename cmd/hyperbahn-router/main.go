// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Command hyperbahn-router wires every standalone package in this module
// into one running cluster-dispatch process: ring membership, admission
// (blocking, rate limiting, circuit breaking), peer lifecycle, advertise
// fanout, remote config polling, and the TChannel wire transport.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go.uber.org/hyperbahn/advertise"
	"go.uber.org/hyperbahn/api/peer"
	"go.uber.org/hyperbahn/blocktable"
	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/dispatch"
	"go.uber.org/hyperbahn/internal/pally"
	"go.uber.org/hyperbahn/peer/abstractpeer"
	"go.uber.org/hyperbahn/peerindex"
	"go.uber.org/hyperbahn/ratelimit"
	"go.uber.org/hyperbahn/ring"
	"go.uber.org/hyperbahn/routerconfig"
	"go.uber.org/hyperbahn/scanner"
	"go.uber.org/hyperbahn/transport/tchannel"
	"go.uber.org/hyperbahn/x/debug"
)

const (
	peerPruneInterval    = 10 * time.Second
	peerReapInterval     = time.Minute
	servicePurgeInterval = 5 * time.Minute
	statEmitInterval     = 10 * time.Second
	serviceStaleTTL      = 10 * time.Minute
)

func main() {
	var (
		listenAddr  = flag.String("listen", ":21300", "address the hyperbahn wire transport listens on")
		debugAddr   = flag.String("debug-listen", ":21301", "address the debug/metrics HTTP server listens on")
		ringMembers = flag.String("ring-members", "", "comma-separated host:port list of every router in the ring")
		configPath  = flag.String("config", "", "path to a YAML remote-config file, polled for live overrides")
		partialAff  = flag.Bool("partial-affinity", true, "keep only a bounded window of worker connections per exit")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	self := advertisedSelf(*listenAddr)

	var members []string
	if *ringMembers != "" {
		members = strings.Split(*ringMembers, ",")
	} else {
		members = []string{self}
	}

	ringSource := newStaticRing(self, members)
	ringView := ring.New(ringSource)

	limiter := ratelimit.New()

	circuits := circuit.New(ringView.IsExitFor)

	localBlocks := blocktable.New()
	remoteBlocks := blocktable.New()

	peerIndex := peerindex.New()

	ct, err := tchannel.NewChannelTransport(
		tchannel.ServiceName(hyperbahnServiceName),
		tchannel.ListenAddr(*listenAddr),
	)
	if err != nil {
		logger.Fatal("failed to build tchannel transport", zap.Error(err))
	}

	connTransport, err := tchannel.NewTransport(tchannel.ServiceName(hyperbahnServiceName + "-connector"))
	if err != nil {
		logger.Fatal("failed to build peer-connector transport", zap.Error(err))
	}

	forwarder := newChannelForwarder(ct)

	dispatcher := dispatch.New(dispatch.Config{
		Self:            self,
		PartialAffinity: *partialAff,
		Ring:            ringView,
		Limiter:         limiter,
		Circuits:        circuits,
		Blocks:          localBlocks,
		RemoteBlocks:    remoteBlocks,
		PeerIndex:       peerIndex,
		Connector:       dispatch.NewTransportConnector(connTransport, nopSubscriber{}),
		Forwarder:       forwarder,
		Logger:          logger,
	})

	relayClient := newTChannelRelayClient(ct, self)
	adHandler := advertise.New(advertise.Config{
		Dispatcher: dispatcher,
		Ring:       ringView,
		Relay:      relayClient,
		Logger:     logger,
	})

	routeTable := newRouterRouteTable(hyperbahnServiceName, dispatcher)
	routeTable.Register(adHandler.Procedures())

	inbound := ct.NewInbound()
	inbound.SetRouter(routeTable)

	metrics := pally.NewRegistry(pally.Labeled(pally.Labels{"router": self}))

	peerPruneScanner := scanner.New(peerPruneInterval, scheduledPrunesEntries(peerIndex), prunePeer(connTransport, peerIndex, logger))
	peerReapScanner := scanner.New(peerReapInterval, reapGenerationEntries(peerIndex), reapPeer(connTransport, logger))
	servicePurgeScanner := scanner.New(servicePurgeInterval, tickEntries, servicePurgeTask(dispatcher, serviceStaleTTL))
	statEmitScanner := scanner.New(statEmitInterval, tickEntries, statEmitTask(dispatcher, metrics))

	var configSource routerconfig.Source
	if *configPath != "" {
		configSource = newFileConfigSource(*configPath)
	} else {
		configSource = newFileConfigSource("")
	}

	poller := routerconfig.New(routerconfig.Config{
		Source:       configSource,
		Ring:         ringView,
		Limiter:      limiter,
		Circuits:     circuits,
		Dispatcher:   dispatcher,
		RemoteBlocks: remoteBlocks,
		Scanners: routerconfig.Scanners{
			PeerPrune:    peerPruneScanner,
			PeerReap:     peerReapScanner,
			ServicePurge: servicePurgeScanner,
			StatEmit:     statEmitScanner,
		},
		Logger: logger,
	})

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/debug/hyperbahn", debug.NewHandler(dispatcher, circuits, debug.Logger(logger)))
	debugMux.Handle("/metrics", metrics)
	debugServer := &http.Server{Addr: *debugAddr, Handler: debugMux}

	starters := []func() error{
		connTransport.Start,
		ct.Start,
		inbound.Start,
		dispatcher.Start,
		peerPruneScanner.Start,
		peerReapScanner.Start,
		servicePurgeScanner.Start,
		statEmitScanner.Start,
		poller.Start,
	}
	for _, start := range starters {
		if err := start(); err != nil {
			logger.Fatal("failed to start component", zap.Error(err))
		}
	}

	go func() {
		if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("debug server stopped", zap.Error(err))
		}
	}()

	logger.Info("hyperbahn-router started",
		zap.String("self", self),
		zap.String("listen", *listenAddr),
		zap.String("debugListen", *debugAddr))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	logger.Info("hyperbahn-router shutting down")

	stoppers := []func() error{
		poller.Stop,
		statEmitScanner.Stop,
		servicePurgeScanner.Stop,
		peerReapScanner.Stop,
		peerPruneScanner.Stop,
		dispatcher.Stop,
		inbound.Stop,
		ct.Stop,
		connTransport.Stop,
	}
	for _, stop := range stoppers {
		if err := stop(); err != nil {
			logger.Warn("error stopping component", zap.Error(err))
		}
	}
	debugServer.Close()
}

// advertisedSelf derives this router's own host:port for ring membership
// from its listen address, substituting the local hostname when the
// address has no host part (e.g. ":21300").
func advertisedSelf(listenAddr string) string {
	if strings.HasPrefix(listenAddr, ":") {
		host, err := os.Hostname()
		if err != nil {
			host = "127.0.0.1"
		}
		return host + listenAddr
	}
	return listenAddr
}

type nopSubscriber struct{}

func (nopSubscriber) NotifyStatusChanged(peer.Identifier) {}

// tickEntries yields one placeholder entry, so a task with no collection of
// its own still has its each callback run once per tick.
func tickEntries() []scanner.Entry { return []scanner.Entry{{}} }

func scheduledPrunesEntries(ix *peerindex.Index) func() []scanner.Entry {
	return func() []scanner.Entry {
		prunes := ix.ScheduledPrunes()
		entries := make([]scanner.Entry, 0, len(prunes))
		for hostPort, reason := range prunes {
			entries = append(entries, scanner.Entry{Key: hostPort, Value: reason})
		}
		return entries
	}
}

func prunePeer(t *tchannel.Transport, ix *peerindex.Index, logger *zap.Logger) func(key string, value interface{}, now time.Time) {
	return func(hostPort string, value interface{}, now time.Time) {
		reason, _ := value.(peerindex.PruneReason)
		ix.CancelPrune(hostPort)
		if err := t.ReleasePeer(abstractpeer.Identify(hostPort), nopSubscriber{}); err != nil {
			logger.Debug("prune release failed", zap.String("hostPort", hostPort), zap.String("reason", string(reason)), zap.Error(err))
		}
	}
}

func reapGenerationEntries(ix *peerindex.Index) func() []scanner.Entry {
	return func() []scanner.Entry {
		gen := ix.RotateReapGeneration()
		entries := make([]scanner.Entry, 0, len(gen))
		for hostPort, services := range gen {
			entries = append(entries, scanner.Entry{Key: hostPort, Value: services})
		}
		return entries
	}
}

func reapPeer(t *tchannel.Transport, logger *zap.Logger) func(key string, value interface{}, now time.Time) {
	return func(hostPort string, value interface{}, now time.Time) {
		if err := t.ReleasePeer(abstractpeer.Identify(hostPort), nopSubscriber{}); err != nil {
			logger.Debug("reap release failed", zap.String("hostPort", hostPort), zap.Error(err))
		}
	}
}

func servicePurgeTask(d *dispatch.Dispatcher, ttl time.Duration) func(key string, value interface{}, now time.Time) {
	return func(_ string, _ interface{}, now time.Time) {
		d.PurgeStaleChannels(ttl, now)
	}
}

func statEmitTask(d *dispatch.Dispatcher, metrics *pally.Registry) func(key string, value interface{}, now time.Time) {
	gauge := metrics.MustGauge(pally.Opts{Name: "service_channel_peers", Help: "connected peers per service channel"})
	return func(_ string, _ interface{}, _ time.Time) {
		var total int64
		for _, snap := range d.Snapshot() {
			total += int64(len(snap.Peers))
		}
		gauge.Store(total)
	}
}
