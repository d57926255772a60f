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

// Package ratelimit implements the sliding-window request counters that
// gate admission at the dispatcher: a total counter, one counter per
// service, an edge counter per (caller, service) pair for stats only, and
// a kill-switch tier above the soft RPS limits.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultNumBuckets is the number of buckets each sliding-window
	// counter rotates through.
	DefaultNumBuckets = 12

	// DefaultPeriod is the width of the sliding window.
	DefaultPeriod = time.Second

	// DefaultTotalKillSwitchBuffer multiplies a service's soft RPS limit
	// to derive its kill-switch ceiling.
	DefaultTotalKillSwitchBuffer = 2.0
)

// counter is a sliding-window request rate counter divided into buckets.
// Each bucket covers period/numBuckets; on increment, buckets older than
// one full period are rotated to zero before the sum is taken.
type counter struct {
	mu sync.Mutex

	period     time.Duration
	numBuckets int
	bucketSize time.Duration

	buckets   []int64
	bucketAt  []int64 // bucket index last touched, as a sequence number
	lastIndex int64
}

func newCounter(period time.Duration, numBuckets int) *counter {
	if numBuckets <= 0 {
		numBuckets = DefaultNumBuckets
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &counter{
		period:     period,
		numBuckets: numBuckets,
		bucketSize: period / time.Duration(numBuckets),
		buckets:    make([]int64, numBuckets),
		bucketAt:   make([]int64, numBuckets),
	}
}

func (c *counter) bucketIndex(now time.Time) int64 {
	return now.UnixNano() / int64(c.bucketSize)
}

// rotate zeroes out buckets that have fallen out of the window.
func (c *counter) rotate(now time.Time) {
	idx := c.bucketIndex(now)
	for i := range c.buckets {
		if idx-c.bucketAt[i] >= int64(c.numBuckets) {
			c.buckets[i] = 0
			c.bucketAt[i] = idx
		}
	}
	c.lastIndex = idx
}

// Increment rotates stale buckets, adds one to the current bucket, and
// returns the request rate (requests/sec) summed over the whole window.
func (c *counter) Increment(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate(now)
	idx := c.bucketIndex(now)
	slot := int(idx % int64(c.numBuckets))
	c.buckets[slot]++
	c.bucketAt[slot] = idx

	return c.rpsLocked()
}

// RPS reports the current request rate without incrementing anything.
func (c *counter) RPS(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotate(now)
	return c.rpsLocked()
}

func (c *counter) rpsLocked() float64 {
	var total int64
	for _, v := range c.buckets {
		total += v
	}
	return float64(total) / c.period.Seconds()
}

// Registry owns the total/service/edge/kill-switch counters used by the
// dispatcher's admission path.
type Registry struct {
	mu sync.RWMutex

	period     time.Duration
	numBuckets int

	enabled bool

	totalLimit float64
	exempt     map[string]struct{}
	svcLimit   map[string]float64

	totalKillSwitchBuffer float64

	total   *counter
	service map[string]*counter
	edge    map[string]*counter
	kswitch map[string]*counter
}

// New creates a rate limiter registry. It starts disabled; call
// UpdateEnabled(true) once remote config confirms rateLimiting.enabled.
func New() *Registry {
	return &Registry{
		period:                DefaultPeriod,
		numBuckets:            DefaultNumBuckets,
		exempt:                make(map[string]struct{}),
		svcLimit:              make(map[string]float64),
		totalKillSwitchBuffer: DefaultTotalKillSwitchBuffer,
		total:                 newCounter(DefaultPeriod, DefaultNumBuckets),
		service:               make(map[string]*counter),
		edge:                  make(map[string]*counter),
		kswitch:               make(map[string]*counter),
	}
}

// UpdateEnabled toggles whether admission consults the limiter at all.
func (r *Registry) UpdateEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Enabled reports whether rate limiting is active.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// UpdateTotalLimit sets the aggregate RPS limit in place, preserving
// existing counter state.
func (r *Registry) UpdateTotalLimit(limit float64) {
	r.mu.Lock()
	r.totalLimit = limit
	r.mu.Unlock()
}

// UpdateServiceLimit sets the per-service RPS limit for sn in place.
func (r *Registry) UpdateServiceLimit(sn string, limit float64) {
	r.mu.Lock()
	r.svcLimit[sn] = limit
	r.mu.Unlock()
}

// UpdateExemptServices replaces the set of services that bypass all
// rate-limit checks.
func (r *Registry) UpdateExemptServices(services []string) {
	exempt := make(map[string]struct{}, len(services))
	for _, s := range services {
		exempt[s] = struct{}{}
	}
	r.mu.Lock()
	r.exempt = exempt
	r.mu.Unlock()
}

func (r *Registry) isExempt(sn string) bool {
	r.mu.RLock()
	_, ok := r.exempt[sn]
	r.mu.RUnlock()
	return ok
}

// IsExempt reports whether sn bypasses rate limiting entirely.
func (r *Registry) IsExempt(sn string) bool {
	return r.isExempt(sn)
}

// TotalLimit returns the current aggregate RPS limit.
func (r *Registry) TotalLimit() float64 {
	return r.totalLimitValue()
}

// ServiceLimit returns the per-service RPS limit for sn, or 0 if unset.
func (r *Registry) ServiceLimit(sn string) float64 {
	l, _ := r.serviceLimit(sn)
	return l
}

func (r *Registry) serviceLimit(sn string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.svcLimit[sn]
	return l, ok
}

func (r *Registry) totalLimitValue() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalLimit
}

func (r *Registry) serviceCounter(sn string) *counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.service[sn]
	if !ok {
		c = newCounter(r.period, r.numBuckets)
		r.service[sn] = c
	}
	return c
}

func (r *Registry) edgeCounter(cn, sn string) *counter {
	key := cn + "~~" + sn
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.edge[key]
	if !ok {
		c = newCounter(r.period, r.numBuckets)
		r.edge[key] = c
	}
	return c
}

func (r *Registry) killSwitchCounter(sn string) *counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.kswitch[sn]
	if !ok {
		c = newCounter(r.period, r.numBuckets)
		r.kswitch[sn] = c
	}
	return c
}

// Decision is the outcome of Admit.
type Decision struct {
	Allowed    bool
	KillSwitch bool
	Busy       bool
	BusyReason string
}

// Admit runs the full admission sequence from spec step 5: edge counter
// (stats only), kill-switch check, total RPS check, and (when isExit)
// service RPS check. The edge counter counts every request, the
// kill-switch counter every request not killed outright, and the total and
// service counters only the requests that are admitted.
func (r *Registry) Admit(cn, sn string, isExit bool, now time.Time) Decision {
	if !r.Enabled() || r.isExempt(sn) {
		return Decision{Allowed: true}
	}

	r.edgeCounter(cn, sn).Increment(now)

	if r.shouldKillSwitchTotal(now) {
		return Decision{KillSwitch: true}
	}
	if isExit && r.shouldKillSwitchService(sn, now) {
		return Decision{KillSwitch: true}
	}

	if isExit {
		r.killSwitchCounter(sn).Increment(now)
	}

	if r.shouldRateLimitTotal(now) {
		return Decision{Busy: true, BusyReason: "hyperbahn node is rate-limited by the total rps"}
	}
	if isExit {
		if limit, ok := r.serviceLimit(sn); ok && r.shouldRateLimitService(sn, limit, now) {
			return Decision{Busy: true, BusyReason: sn + " is rate-limited by the service rps"}
		}
	}

	r.total.Increment(now)
	if isExit {
		r.serviceCounter(sn).Increment(now)
	}

	return Decision{Allowed: true}
}

func (r *Registry) shouldRateLimitTotal(now time.Time) bool {
	limit := r.totalLimitValue()
	if limit <= 0 {
		return false
	}
	return r.total.RPS(now) >= limit
}

func (r *Registry) shouldRateLimitService(sn string, limit float64, now time.Time) bool {
	if limit <= 0 {
		return false
	}
	return r.serviceCounter(sn).RPS(now) >= limit
}

func (r *Registry) shouldKillSwitchTotal(now time.Time) bool {
	limit := r.totalLimitValue()
	if limit <= 0 {
		return false
	}
	r.mu.RLock()
	buffer := r.totalKillSwitchBuffer
	r.mu.RUnlock()
	return r.total.RPS(now) > limit*buffer
}

func (r *Registry) shouldKillSwitchService(sn string, now time.Time) bool {
	limit, ok := r.serviceLimit(sn)
	if !ok || limit <= 0 {
		return false
	}
	r.mu.RLock()
	buffer := r.totalKillSwitchBuffer
	r.mu.RUnlock()
	return r.killSwitchCounter(sn).RPS(now) >= limit*buffer
}
