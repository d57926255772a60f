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

package routerconfig

import (
	"time"

	"go.uber.org/zap"

	"go.uber.org/hyperbahn/blocktable"
	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/dispatch"
	"go.uber.org/hyperbahn/internal/config"
	"go.uber.org/hyperbahn/pkg/lifecycle"
	"go.uber.org/hyperbahn/ratelimit"
	"go.uber.org/hyperbahn/ring"
	"go.uber.org/hyperbahn/scanner"
)

// defaultPollInterval is how often the poller re-fetches the remote
// config when Config.PollInterval is unset.
const defaultPollInterval = 30 * time.Second

// Scanners names the interval scanners the poller may retune from a
// fetched snapshot. Any of these may be nil if the caller doesn't wire
// that periodic task.
type Scanners struct {
	PeerPrune    *scanner.Scanner
	PeerReap     *scanner.Scanner
	ServicePurge *scanner.Scanner
	StatEmit     *scanner.Scanner
}

// Config carries the collaborators a Poller applies fetched snapshots to.
type Config struct {
	Source Source

	Ring       *ring.View
	Limiter    *ratelimit.Registry
	Circuits   *circuit.Registry
	Dispatcher *dispatch.Dispatcher
	// RemoteBlocks is the remote-config-populated block table consulted
	// by dispatch.Dispatcher's admission path; distinct from any
	// operator-managed table, per spec.md §3.
	RemoteBlocks *blocktable.Table
	Scanners     Scanners

	// PollInterval is how often Source is polled. Default 30s.
	PollInterval time.Duration

	Logger *zap.Logger
}

// Poller periodically fetches the remote config and applies it to the
// router's already-running components. It never blocks the admission
// path: every apply is a handful of already-synchronized setter calls on
// the target registries.
type Poller struct {
	source       Source
	ring         *ring.View
	limiter      *ratelimit.Registry
	circuits     *circuit.Registry
	dispatcher   *dispatch.Dispatcher
	remoteBlocks *blocktable.Table
	scanners     Scanners
	interval     time.Duration
	logger       *zap.Logger

	life   *lifecycle.Once
	ticker *time.Ticker
	done   chan struct{}
}

// New builds a Poller from cfg. The poller does not begin fetching until
// Start is called.
func New(cfg Config) *Poller {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		source:       cfg.Source,
		ring:         cfg.Ring,
		limiter:      cfg.Limiter,
		circuits:     cfg.Circuits,
		dispatcher:   cfg.Dispatcher,
		remoteBlocks: cfg.RemoteBlocks,
		scanners:     cfg.Scanners,
		interval:     interval,
		logger:       logger,
		life:         lifecycle.NewOnce(),
		done:         make(chan struct{}),
	}
}

// Start begins polling on a fixed interval, in its own goroutine.
func (p *Poller) Start() error {
	return p.life.Start(func() error {
		p.ticker = time.NewTicker(p.interval)
		go p.loop()
		return nil
	})
}

// Stop halts polling. In-flight applies complete before Stop returns.
func (p *Poller) Stop() error {
	return p.life.Stop(func() error {
		p.ticker.Stop()
		// An unbuffered send is only received by loop between polls, so
		// this waits out any apply already in progress.
		p.done <- struct{}{}
		return nil
	})
}

func (p *Poller) loop() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.pollOnce()
		}
	}
}

func (p *Poller) pollOnce() {
	raw, err := p.source.Fetch()
	if err != nil {
		p.logger.Warn("remote config fetch failed", zap.Error(err))
		return
	}
	if raw == nil {
		return
	}

	var snap Snapshot
	if err := config.AttributeMap(raw).Decode(&snap); err != nil {
		p.logger.Error("remote config decode failed", zap.Error(err))
		return
	}

	p.apply(snap, time.Now())
}

func (p *Poller) apply(snap Snapshot, now time.Time) {
	if p.ring != nil {
		if snap.DefaultK > 0 {
			p.ring.UpdateDefaultK(snap.DefaultK)
		}
		for service, override := range snap.Services {
			if override.K > 0 {
				p.ring.UpdateServiceK(service, override.K)
			}
		}
	}

	if p.limiter != nil {
		p.limiter.UpdateEnabled(snap.RateLimitEnabled)
		if snap.TotalRateLimit > 0 {
			p.limiter.UpdateTotalLimit(snap.TotalRateLimit)
		}
		if snap.RateLimitExemptServices != nil {
			p.limiter.UpdateExemptServices(snap.RateLimitExemptServices)
		}
		for service, override := range snap.Services {
			if override.RateLimit > 0 {
				p.limiter.UpdateServiceLimit(service, override.RateLimit)
			}
		}
	}

	if p.circuits != nil {
		p.circuits.UpdateEnabled(snap.CircuitsEnabled)
	}

	if p.remoteBlocks != nil {
		p.remoteBlocks.Replace(snap.KillSwitch, now)
	}

	if p.dispatcher != nil {
		p.dispatcher.SetPartialAffinity(snap.PartialAffinityEnabled, now)
	}

	p.applyScanner(p.scanners.PeerPrune, snap.PeerPruneInterval)
	p.applyScanner(p.scanners.PeerReap, snap.PeerReapInterval)
	p.applyScanner(p.scanners.ServicePurge, snap.ServicePurgeInterval)
	p.applyScanner(p.scanners.StatEmit, snap.StatEmitInterval)
}

func (p *Poller) applyScanner(s *scanner.Scanner, interval time.Duration) {
	if s == nil || interval <= 0 {
		return
	}
	s.SetInterval(interval)
}
