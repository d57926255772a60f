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

// Package dispatch is the glue component: it classifies inbound requests,
// runs them through admission (blocking, rate limiting, circuit breaking),
// creates and reconciles per-service routing tables against the membership
// ring, and drives peer lifecycle on advertise/unadvertise. It is built the
// way x/shardproxy's sharder builds its peer table: one coarse mutex guards
// the service-channel map, and pkg/lifecycle.Once gates Start/Stop.
package dispatch

import (
	"sync"
	"time"

	"go.uber.org/hyperbahn/blocktable"
	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/partialrange"
	"go.uber.org/hyperbahn/peerindex"
	"go.uber.org/hyperbahn/pkg/lifecycle"
	"go.uber.org/hyperbahn/ratelimit"
	"go.uber.org/hyperbahn/ring"
	"go.uber.org/zap"
)

// Config configures a Dispatcher. Fields left unset take the default shown.
type Config struct {
	// Self is this router's own host:port, as known to the ring.
	Self string

	// MinPeersPerWorker and MinPeersPerRelay are the partial-affinity
	// bounds. Zero values fall back to the defaults below.
	MinPeersPerWorker int
	MinPeersPerRelay  int

	// PartialAffinity enables the windowed-connection scheme, where only a
	// bounded subset of worker peers are kept connected. When false,
	// refreshServicePeer falls back to the legacy full-mesh branch: every
	// advertised worker is connected.
	PartialAffinity bool

	// DrainTimeout bounds how long a peer drain may run before the peer
	// is closed unconditionally. Default 30s.
	DrainTimeout time.Duration

	Ring         *ring.View
	Limiter      *ratelimit.Registry
	Circuits     *circuit.Registry
	Blocks       *blocktable.Table
	RemoteBlocks *blocktable.Table
	PeerIndex    *peerindex.Index
	Connector    Connector
	Forwarder    Forwarder
	Logger       *zap.Logger
}

const (
	defaultMinPeersPerWorker = 2
	defaultMinPeersPerRelay  = 10
	defaultDrainTimeout      = 30 * time.Second
)

// Dispatcher is the per-router dispatch core.
type Dispatcher struct {
	mu       sync.Mutex
	channels map[string]*ServiceChannel

	self              string
	minPeersPerWorker int
	minPeersPerRelay  int
	partialAffinity   bool
	drainTimeout      time.Duration

	ring         *ring.View
	limiter      *ratelimit.Registry
	circuits     *circuit.Registry
	blocks       *blocktable.Table
	remoteBlocks *blocktable.Table
	peerIndex    *peerindex.Index
	connector    Connector
	forwarder    Forwarder
	logger       *zap.Logger

	life *lifecycle.Once
}

// New constructs a Dispatcher and subscribes it to ring membership changes.
// The Dispatcher does not begin reconciling until Start is called.
func New(cfg Config) *Dispatcher {
	minWorker := cfg.MinPeersPerWorker
	if minWorker <= 0 {
		minWorker = defaultMinPeersPerWorker
	}
	minRelay := cfg.MinPeersPerRelay
	if minRelay <= 0 {
		minRelay = defaultMinPeersPerRelay
	}
	drainTimeout := cfg.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		channels:          make(map[string]*ServiceChannel),
		self:              cfg.Self,
		minPeersPerWorker: minWorker,
		minPeersPerRelay:  minRelay,
		partialAffinity:   cfg.PartialAffinity,
		drainTimeout:      drainTimeout,
		ring:              cfg.Ring,
		limiter:           cfg.Limiter,
		circuits:          cfg.Circuits,
		blocks:            cfg.Blocks,
		remoteBlocks:      cfg.RemoteBlocks,
		peerIndex:         cfg.PeerIndex,
		connector:         cfg.Connector,
		forwarder:         cfg.Forwarder,
		logger:            logger,
		life:              lifecycle.NewOnce(),
	}
	if d.ring != nil {
		d.ring.OnChanged(d.scheduleReconcile)
	}
	return d
}

// Start marks the dispatcher running. Reconciliation thereafter runs
// synchronously from ring change callbacks and from advertise/unadvertise
// calls, all under the same mutex, a single-logical-worker model.
func (d *Dispatcher) Start() error {
	return d.life.Start(nil)
}

// Stop marks the dispatcher stopped. In-flight admissions already past the
// Start/Stop gate are unaffected; new calls to Handle after Stop return a
// not-running error.
func (d *Dispatcher) Stop() error {
	return d.life.Stop(nil)
}

// scheduleReconcile is invoked from the ring view's change callback. The
// membership model only requires eventual convergence, so running
// reconciliation inline rather than on a separate tick is sufficient and
// avoids an extra queue.
func (d *Dispatcher) scheduleReconcile() {
	if !d.life.IsRunning() {
		return
	}
	d.updateServiceChannels(time.Now())
}

func (d *Dispatcher) getOrCreateChannel(service string) *ServiceChannel {
	if ch, ok := d.channels[service]; ok {
		return ch
	}
	ch := d.newServiceChannel(service)
	d.channels[service] = ch
	return ch
}

func (d *Dispatcher) newServiceChannel(service string) *ServiceChannel {
	exits := d.ring.ExitsFor(service)
	if d.ring.IsExitFor(service) {
		return newServiceChannel(service, ModeExit)
	}
	ch := newServiceChannel(service, ModeForward)
	ch.setForwardPeers(exits)
	return ch
}

// Self returns this router's own host:port.
func (d *Dispatcher) Self() string {
	return d.self
}

// PartialAffinity reports whether the windowed-connection scheme is
// currently enabled.
func (d *Dispatcher) PartialAffinity() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.partialAffinity
}

// SetPartialAffinity retunes the partial-affinity scheme live, from remote
// config. Turning it on reruns the windowed-connection computation for
// every known exit-mode channel immediately; turning it off leaves
// existing connections as-is until the next advertise or reap.
func (d *Dispatcher) SetPartialAffinity(enabled bool, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.partialAffinity == enabled {
		return
	}
	d.partialAffinity = enabled
	if !enabled {
		return
	}
	for _, ch := range d.channels {
		if ch.mode == ModeExit {
			d.ensurePartialConnections(ch, now)
		}
	}
}

// Snapshot describes one service channel for introspection (used by
// x/debug).
type Snapshot struct {
	Service string
	Mode    Mode
	Peers   []string
}

// PeersForService returns the current peer set and routing mode for
// service, creating its channel if this is the first time it has been
// seen. Used by the discover handler to resolve a lookup locally when
// this router is an exit for the service.
func (d *Dispatcher) PeersForService(service string) (peers []string, mode Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := d.getOrCreateChannel(service)
	return ch.peerList(), ch.mode
}

// Snapshot returns a point-in-time view of every known service channel.
func (d *Dispatcher) Snapshot() []Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Snapshot, 0, len(d.channels))
	for name, ch := range d.channels {
		out = append(out, Snapshot{Service: name, Mode: ch.mode, Peers: ch.peerList()})
	}
	return out
}
