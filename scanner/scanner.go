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

// Package scanner implements the reusable periodic task used by the peer
// pruner, peer reaper, service purger, and stats emitter: on every tick,
// pull a snapshot of some collection and invoke a callback per entry.
package scanner

import (
	"sync"
	"time"

	"go.uber.org/hyperbahn/pkg/lifecycle"
)

// Entry is one (key, value) pair drained from a Scanner's collection on a
// tick.
type Entry struct {
	Key   string
	Value interface{}
}

// Scanner runs getCollection on every tick and invokes each per entry
// returned. getCollection is expected to atomically swap its backing
// collection out, the way the reap generation rotates in peerindex.
type Scanner struct {
	mu sync.Mutex

	interval      time.Duration
	getCollection func() []Entry
	each          func(key string, value interface{}, now time.Time)
	onRunBegin    func(keys []string)

	life   *lifecycle.Once
	stopCh chan struct{}
}

// New creates a Scanner. It does not start ticking until Start is called.
func New(interval time.Duration, getCollection func() []Entry, each func(key string, value interface{}, now time.Time)) *Scanner {
	return &Scanner{
		interval:      interval,
		getCollection: getCollection,
		each:          each,
		life:          lifecycle.NewOnce(),
		stopCh:        make(chan struct{}),
	}
}

// OnRunBegin registers a callback fired with the tick's keys before each()
// is invoked for any of them.
func (s *Scanner) OnRunBegin(f func(keys []string)) {
	s.mu.Lock()
	s.onRunBegin = f
	s.mu.Unlock()
}

// SetInterval changes the tick interval. A value of 0 disables ticking
// until SetInterval is called again with a positive value.
func (s *Scanner) SetInterval(interval time.Duration) {
	s.mu.Lock()
	s.interval = interval
	s.mu.Unlock()
}

func (s *Scanner) currentInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Interval returns the scanner's current tick interval.
func (s *Scanner) Interval() time.Duration {
	return s.currentInterval()
}

// Start begins the scan loop in a background goroutine.
func (s *Scanner) Start() error {
	return s.life.Start(func() error {
		go s.loop()
		return nil
	})
}

// Stop halts the scan loop. It does not run a final tick.
func (s *Scanner) Stop() error {
	return s.life.Stop(func() error {
		close(s.stopCh)
		return nil
	})
}

func (s *Scanner) loop() {
	for {
		interval := s.currentInterval()
		if interval <= 0 {
			select {
			case <-s.stopCh:
				return
			case <-time.After(time.Second):
				continue
			}
		}

		select {
		case <-s.stopCh:
			return
		case <-time.After(interval):
			s.tick()
		}
	}
}

func (s *Scanner) tick() {
	entries := s.getCollection()

	s.mu.Lock()
	onRunBegin := s.onRunBegin
	s.mu.Unlock()

	if onRunBegin != nil {
		keys := make([]string, len(entries))
		for i, e := range entries {
			keys[i] = e.Key
		}
		onRunBegin(keys)
	}

	now := time.Now()
	for _, e := range entries {
		s.each(e.Key, e.Value, now)
	}
}
