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

// Package circuit implements the per-(caller, service, endpoint) health
// state machine that gates admission once a request has passed blocking
// and rate-limit checks.
package circuit

import (
	"sync"
	"time"
)

// NoCallerName is the sentinel caller-name key used when a request carries
// no cn header, so unnamed callers share one circuit per (service, endpoint).
const NoCallerName = "no-cn"

// State is a circuit's health state.
type State int

const (
	// Healthy accepts all requests.
	Healthy State = iota
	// Unhealthy declines all requests except the probation probe stream.
	Unhealthy
)

func (s State) String() string {
	if s == Healthy {
		return "healthy"
	}
	return "unhealthy"
}

// Params configures a Circuit's state machine.
type Params struct {
	// Period is the rolling window over which requests/errors accumulate
	// before a health decision is made.
	Period time.Duration
	// MinRequests is the number of requests that must land in a period
	// before the error rate is evaluated.
	MinRequests int64
	// MaxErrorRate is the error-rate threshold, in [0,1], above which a
	// Healthy circuit trips to Unhealthy.
	MaxErrorRate float64
	// Probation is the number of consecutive successes a probe stream
	// must see on an Unhealthy circuit before it returns to Healthy.
	Probation int
	// ProbeInterval is the fraction of requests admitted through an
	// Unhealthy circuit as the probe stream: every ProbeInterval-th
	// ShouldRequest call is let through so Report keeps getting called
	// and probation can accumulate. Zero means defaultProbeInterval.
	ProbeInterval int
}

// defaultProbeInterval admits one request in ten as the probe stream
// while a circuit is Unhealthy.
const defaultProbeInterval = 10

// DefaultParams mirrors the defaults used across the registry when a
// caller does not override them.
var DefaultParams = Params{
	Period:        10 * time.Second,
	MinRequests:   10,
	MaxErrorRate:  0.5,
	Probation:     5,
	ProbeInterval: defaultProbeInterval,
}

// StateChangeFunc is invoked whenever a circuit transitions state.
type StateChangeFunc func(key Key, old, new State)

// Key identifies one circuit.
type Key struct {
	Service  string
	Caller   string
	Endpoint string
}

// Circuit is a single (caller, service, endpoint) health state machine.
type Circuit struct {
	mu sync.Mutex

	key    Key
	params Params
	onTrip StateChangeFunc

	state State

	periodStart    time.Time
	requests       int64
	errors         int64
	probationCount int
	probeAttempts  int64
}

func newCircuit(key Key, params Params, onTrip StateChangeFunc, now time.Time) *Circuit {
	return &Circuit{
		key:         key,
		params:      params,
		onTrip:      onTrip,
		state:       Healthy,
		periodStart: now,
	}
}

// ShouldRequest reports whether a request should be admitted: true when
// Healthy, and true for the bounded probe stream while Unhealthy - every
// ProbeInterval-th call - so Report keeps being invoked on a tripped
// circuit and probation has a chance to accumulate.
func (c *Circuit) ShouldRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Healthy {
		return true
	}

	interval := int64(c.params.ProbeInterval)
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	c.probeAttempts++
	return c.probeAttempts%interval == 0
}

// State returns the circuit's current health state.
func (c *Circuit) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Report records the outcome of one request against this circuit and
// advances the rolling period, tripping or recovering as needed.
func (c *Circuit) Report(success bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollPeriod(now)

	switch c.state {
	case Healthy:
		c.requests++
		if !success {
			c.errors++
		}
		if c.requests >= c.params.MinRequests && c.errorRate() > c.params.MaxErrorRate {
			c.trip(Unhealthy, now)
		}
	case Unhealthy:
		if success {
			c.probationCount++
			if c.probationCount >= c.params.Probation {
				c.trip(Healthy, now)
			}
		} else {
			c.probationCount = 0
		}
	}
}

func (c *Circuit) errorRate() float64 {
	if c.requests == 0 {
		return 0
	}
	return float64(c.errors) / float64(c.requests)
}

func (c *Circuit) rollPeriod(now time.Time) {
	if c.state != Healthy {
		return
	}
	if now.Sub(c.periodStart) < c.params.Period {
		return
	}
	c.requests = 0
	c.errors = 0
	c.periodStart = now
}

func (c *Circuit) trip(to State, now time.Time) {
	from := c.state
	c.state = to
	c.requests = 0
	c.errors = 0
	c.probationCount = 0
	c.probeAttempts = 0
	c.periodStart = now
	if c.onTrip != nil && from != to {
		c.onTrip(c.key, from, to)
	}
}

// Snapshot is a point-in-time view of a circuit, used by the control
// endpoint.
type Snapshot struct {
	Key      Key
	State    State
	Requests int64
	Errors   int64
}
