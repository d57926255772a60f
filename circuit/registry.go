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

package circuit

import (
	"sync"
	"time"

	"go.uber.org/hyperbahn/yarpcerrors"
)

// Registry is the three-level service→caller→endpoint map of circuits.
type Registry struct {
	mu sync.Mutex

	enabled bool
	params  Params
	onTrip  StateChangeFunc

	// isExit reports whether this router currently owns (is an exit for)
	// a service; used by UpdateServices to drop subtrees we no longer own.
	isExit func(service string) bool

	tree map[string]map[string]map[string]*Circuit
}

// New creates an empty circuit registry. isExit is consulted by
// UpdateServices to decide which service subtrees to keep.
func New(isExit func(service string) bool, opts ...Option) *Registry {
	r := &Registry{
		params: DefaultParams,
		isExit: isExit,
		tree:   make(map[string]map[string]map[string]*Circuit),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option customizes a Registry at construction.
type Option func(*Registry)

// WithParams overrides the default circuit-breaker parameters used for
// circuits created by this registry.
func WithParams(p Params) Option {
	return func(r *Registry) { r.params = p }
}

// WithStateChangeFunc registers a callback invoked on every circuit state
// transition, for the stats sink.
func WithStateChangeFunc(f StateChangeFunc) Option {
	return func(r *Registry) { r.onTrip = f }
}

// UpdateEnabled toggles whether the dispatcher consults circuits during
// admission at all.
func (r *Registry) UpdateEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Enabled reports whether circuit admission is active.
func (r *Registry) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// GetOrCreate returns the circuit for (service, caller, endpoint),
// creating it in the Healthy state on first reference. An empty caller
// name is mapped to NoCallerName.
func (r *Registry) GetOrCreate(service, caller, endpoint string, now time.Time) *Circuit {
	if caller == "" {
		caller = NoCallerName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	callers, ok := r.tree[service]
	if !ok {
		callers = make(map[string]map[string]*Circuit)
		r.tree[service] = callers
	}
	endpoints, ok := callers[caller]
	if !ok {
		endpoints = make(map[string]*Circuit)
		callers[caller] = endpoints
	}
	c, ok := endpoints[endpoint]
	if !ok {
		key := Key{Service: service, Caller: caller, Endpoint: endpoint}
		c = newCircuit(key, r.params, r.onTrip, now)
		endpoints[endpoint] = c
	}
	return c
}

// GetCircuitForRequest implements the §4.3 lookup: reject requests with
// no service name, decline requests whose circuit is unhealthy, otherwise
// return the circuit so the caller can report the outcome.
func (r *Registry) GetCircuitForRequest(service, caller, endpoint string, now time.Time) (*Circuit, error) {
	if service == "" {
		return nil, yarpcerrors.InvalidArgumentErrorf("no service name given")
	}
	if !r.Enabled() {
		return nil, nil
	}

	c := r.GetOrCreate(service, caller, endpoint, now)
	if !c.ShouldRequest() {
		return nil, yarpcerrors.FailedPreconditionErrorf("service is not healthy")
	}
	return c, nil
}

// UpdateServices drops circuit subtrees for services this router is no
// longer an exit for.
func (r *Registry) UpdateServices() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for service := range r.tree {
		if !r.isExit(service) {
			delete(r.tree, service)
		}
	}
}

// Snapshot returns a point-in-time view of every known circuit, for the
// control endpoint.
func (r *Registry) Snapshot() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Snapshot
	for _, callers := range r.tree {
		for _, endpoints := range callers {
			for _, c := range endpoints {
				c.mu.Lock()
				out = append(out, Snapshot{
					Key:      c.key,
					State:    c.state,
					Requests: c.requests,
					Errors:   c.errors,
				})
				c.mu.Unlock()
			}
		}
	}
	return out
}
