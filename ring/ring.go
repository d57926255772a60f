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

// Package ring provides a read-only, dispatcher-facing projection of the
// cluster's consistent-hash membership ring. The ring itself — gossip,
// membership deltas, hashing — is an external collaborator; this package
// only resolves exit sets and caches the per-service K (replication
// factor) overrides that remote config supplies.
package ring

import (
	"sort"
	"sync"
)

// DefaultK is the replication factor used for a service with no override.
const DefaultK = 10

// Source is the external membership ring. Implementations are expected to
// be supplied by the gossip/membership layer; View only consumes it.
type Source interface {
	// Exits returns the up-to-size host-ports currently responsible for
	// service, per the ring's hash assignment. The returned slice need
	// not be sorted.
	Exits(service string, size int) []string
	// Self returns this process's own host-port, as known to the ring.
	Self() string
	// Subscribe registers a callback invoked whenever ring membership
	// changes. It returns an unsubscribe function.
	Subscribe(func()) (unsubscribe func())
}

// View is the dispatcher's read-only handle onto the ring: it resolves
// exits for a service using the configured K, and answers "am I one of
// them" without re-deriving K or re-sorting on every call site.
type View struct {
	mu sync.RWMutex

	source Source

	defaultK   int
	kByService map[string]int

	listeners []func()
}

// New wraps source in a View using defaultK for services with no explicit
// override.
func New(source Source) *View {
	v := &View{
		source:     source,
		defaultK:   DefaultK,
		kByService: make(map[string]int),
	}
	source.Subscribe(v.fireChanged)
	return v
}

// UpdateDefaultK sets the fleet-wide default replication factor.
func (v *View) UpdateDefaultK(k int) {
	v.mu.Lock()
	v.defaultK = k
	v.mu.Unlock()
}

// UpdateServiceK sets a per-service override for the replication factor.
func (v *View) UpdateServiceK(service string, k int) {
	v.mu.Lock()
	v.kByService[service] = k
	v.mu.Unlock()
}

func (v *View) kFor(service string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok := v.kByService[service]; ok {
		return k
	}
	return v.defaultK
}

// DefaultK returns the current fleet-wide default replication factor.
func (v *View) DefaultK() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.defaultK
}

// KForService returns the replication factor that applies to service,
// the per-service override if one is set, otherwise the default.
func (v *View) KForService(service string) int {
	return v.kFor(service)
}

// ExitsFor returns the sorted set of host-ports responsible for service,
// sized to that service's configured K.
func (v *View) ExitsFor(service string) []string {
	exits := v.source.Exits(service, v.kFor(service))
	sorted := make([]string, len(exits))
	copy(sorted, exits)
	sort.Strings(sorted)
	return sorted
}

// Self returns this process's own host-port, as known to the ring.
func (v *View) Self() string {
	return v.source.Self()
}

// IsExitFor reports whether this process is one of the exits for service.
func (v *View) IsExitFor(service string) bool {
	self := v.source.Self()
	for _, hp := range v.ExitsFor(service) {
		if hp == self {
			return true
		}
	}
	return false
}

// OnChanged registers a callback fired whenever the underlying ring's
// membership shifts. Callbacks are never removed once registered,
// matching the observer-list lifetime used elsewhere in the dispatcher.
func (v *View) OnChanged(f func()) {
	v.mu.Lock()
	v.listeners = append(v.listeners, f)
	v.mu.Unlock()
}

func (v *View) fireChanged() {
	v.mu.RLock()
	listeners := make([]func(), len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.RUnlock()

	for _, f := range listeners {
		f()
	}
}
