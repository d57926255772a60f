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

// Package routerconfig polls the cluster's remote configuration surface
// and applies the fleet-wide and per-service knobs it carries to the
// already-running ring view, rate limiter, and circuit registry.
package routerconfig

import "time"

// ServiceOverride is a per-service knob the remote config may set, keyed
// by service name at the call site.
type ServiceOverride struct {
	// K overrides the replication factor for this service on the ring.
	K int `config:"k"`
	// RateLimit overrides the soft RPS limit for this service.
	RateLimit float64 `config:"rateLimit"`
}

// Snapshot is the decoded shape of one remote-config fetch. Numeric fields
// left at zero and a nil RateLimitExemptServices leave the current setting
// unchanged. The boolean fields are applied as given on every fetch, so an
// unset one turns its feature off, and KillSwitch replaces the remote block
// table even when it is empty.
type Snapshot struct {
	// DefaultK is the fleet-wide ring replication factor.
	DefaultK int `config:"defaultK"`

	// Services carries the per-service overrides, keyed by service name.
	Services map[string]ServiceOverride `config:"services"`

	// RateLimitEnabled turns the soft RPS/kill-switch tiers on or off.
	RateLimitEnabled bool `config:"rateLimitEnabled"`
	// TotalRateLimit is the fleet-wide soft RPS limit.
	TotalRateLimit float64 `config:"totalRateLimit"`
	// RateLimitExemptServices bypasses rate limiting entirely.
	RateLimitExemptServices []string `config:"rateLimitExemptServices"`

	// CircuitsEnabled turns circuit breaking on or off.
	CircuitsEnabled bool `config:"circuitsEnabled"`

	// KillSwitch is the list of "cn~~sn" pairs (wildcards allowed via
	// blocktable.Wildcard, "*~~*" ignored) to silently black-hole. It
	// replaces the remote-config block table wholesale on every fetch,
	// mirroring spec.md §6's killSwitch surface.
	KillSwitch []string `config:"killSwitch"`

	// PartialAffinityEnabled turns the windowed worker-connection scheme
	// on or off fleet-wide.
	PartialAffinityEnabled bool `config:"partialAffinityEnabled"`

	// PeerPruneInterval, PeerReapInterval, ServicePurgeInterval, and
	// StatEmitInterval are the periodic-task intervals for the scanners
	// that retune on live config. Zero leaves the current interval
	// unchanged.
	PeerPruneInterval    time.Duration `config:"peerPruneInterval"`
	PeerReapInterval     time.Duration `config:"peerReapInterval"`
	ServicePurgeInterval time.Duration `config:"servicePurgeInterval"`
	StatEmitInterval     time.Duration `config:"statEmitInterval"`
}

// Source is the external remote-config collaborator: whatever ships the
// config (a config service, a file watcher, a gossip-distributed blob) is
// out of scope here, matching ring.Source's external-collaborator seam.
type Source interface {
	// Fetch returns the current remote-config attribute map, or an error
	// if the fetch itself failed. A nil map with a nil error means "no
	// config published yet."
	Fetch() (map[string]interface{}, error)
}
