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

package main

import (
	"hash/fnv"
	"sort"
	"sync"
)

// staticRing is a minimal ring.Source backed by an operator-supplied member
// list rather than a real gossip/membership protocol. It ranks a service's
// candidate exits by hashing (member, service) and taking the lowest-hash
// members, which gives a stable assignment that reshuffles only the
// entries affected when the member list itself changes.
type staticRing struct {
	mu        sync.RWMutex
	self      string
	members   []string
	listeners []func()
}

func newStaticRing(self string, members []string) *staticRing {
	return &staticRing{self: self, members: append([]string(nil), members...)}
}

// SetMembers replaces the member list and notifies subscribers.
func (r *staticRing) SetMembers(members []string) {
	r.mu.Lock()
	r.members = append([]string(nil), members...)
	listeners := append([]func(){}, r.listeners...)
	r.mu.Unlock()

	for _, f := range listeners {
		if f != nil {
			f()
		}
	}
}

func (r *staticRing) Exits(service string, size int) []string {
	r.mu.RLock()
	members := append([]string(nil), r.members...)
	r.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		return ringHash(service, members[i]) < ringHash(service, members[j])
	})
	if size > len(members) {
		size = len(members)
	}
	return members[:size]
}

func (r *staticRing) Self() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.self
}

func (r *staticRing) Subscribe(f func()) func() {
	r.mu.Lock()
	r.listeners = append(r.listeners, f)
	idx := len(r.listeners) - 1
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.listeners[idx] = nil
		r.mu.Unlock()
	}
}

func ringHash(service, member string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(service))
	h.Write([]byte("\x00"))
	h.Write([]byte(member))
	return h.Sum32()
}
