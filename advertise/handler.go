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

package advertise

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go.uber.org/hyperbahn/dispatch"
	"go.uber.org/hyperbahn/internal/backoff"
	"go.uber.org/hyperbahn/ring"
)

const (
	// relayAdTimeout bounds a single relay-ad/relay-unad/discoverAffine
	// call to a peer exit.
	relayAdTimeout = 500 * time.Millisecond

	// maxRelayAdAttempts is the number of times sendRelay will retry a
	// relay-ad/relay-unad call that fails with a network or timeout
	// error, beyond the first attempt.
	maxRelayAdAttempts = 2

	// relayAdRetryTime is the fixed delay between relay attempts.
	relayAdRetryTime = time.Second

	// discoverAffineTimeout bounds a discover forward to an exit.
	discoverAffineTimeout = time.Second
)

// RelayClient sends the router-to-router fanout calls a Handler issues:
// relay-ad/relay-unad to the exits of an advertised service, and
// discoverAffine to any exit when this router is in forward mode for the
// queried service.
//
// Implementations are expected to wrap a JSON client bound to the target
// host-port, one call at a time; Handler owns retries and timeouts.
type RelayClient interface {
	RelayAd(ctx context.Context, hostPort string, req *RelayAdRequest) (*RelayAdResponse, error)
	RelayUnad(ctx context.Context, hostPort string, req *RelayUnadRequest) (*RelayUnadResponse, error)
	DiscoverAffine(ctx context.Context, hostPort string, req *DiscoverRequest) (*DiscoverResponse, error)
}

// Handler implements the ad/unad/relay-ad/relay-unad/discover protocol on
// top of a Dispatcher that owns the service-channel and peer-lifecycle
// state.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	ring       *ring.View
	relay      RelayClient
	retry      *backoff.Exponential
	logger     *zap.Logger
}

// Config carries the collaborators a Handler needs.
type Config struct {
	Dispatcher *dispatch.Dispatcher
	Ring       *ring.View
	Relay      RelayClient
	Logger     *zap.Logger
}

// New builds a Handler from cfg.
func New(cfg Config) *Handler {
	retry, err := backoff.NewExponential(
		backoff.BaseJump(relayAdRetryTime),
		backoff.MinBackoff(relayAdRetryTime),
		backoff.MaxBackoff(relayAdRetryTime),
	)
	if err != nil {
		// the options above are all valid constants; this can only
		// fail if someone breaks that invariant.
		panic(err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		dispatcher: cfg.Dispatcher,
		ring:       cfg.Ring,
		relay:      cfg.Relay,
		retry:      retry,
		logger:     logger,
	}
}

// bucketByExit groups services by the host-port of each of their exits,
// so a single relay-ad/relay-unad carries every service destined for the
// same exit.
func (h *Handler) bucketByExit(services []ServiceCost, hostPort string) map[string][]RelayServiceCost {
	buckets := make(map[string][]RelayServiceCost)
	for _, svc := range services {
		for _, exit := range h.ring.ExitsFor(svc.ServiceName) {
			buckets[exit] = append(buckets[exit], RelayServiceCost{
				ServiceName: svc.ServiceName,
				HostPort:    hostPort,
				Cost:        svc.Cost,
			})
		}
	}
	return buckets
}
