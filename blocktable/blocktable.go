// Copyright (c) 2016 Uber Technologies, Inc.
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

// Package blocktable implements the caller/service blocking table used to
// black-hole inbound traffic before it reaches rate limiting or dispatch.
package blocktable

import (
	"sync"
	"time"
)

// Wildcard matches any caller or service name in a block entry.
const Wildcard = "*"

const sep = "~~"

// Table is a flat map from "cn~~sn" to the time the block was installed.
// Two independent tables exist in practice: one populated by an operator
// and one populated from remote config; Dispatcher consults both.
type Table struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// New creates an empty block table.
func New() *Table {
	return &Table{entries: make(map[string]time.Time)}
}

// Block installs a block for (callerName, serviceName), either of which may
// be Wildcard. Blocking everything ("*~~*") is forbidden and is a no-op.
func (t *Table) Block(callerName, serviceName string, now time.Time) {
	if callerName == Wildcard && serviceName == Wildcard {
		return
	}
	t.mu.Lock()
	t.entries[key(callerName, serviceName)] = now
	t.mu.Unlock()
}

// Unblock removes a block for (callerName, serviceName).
func (t *Table) Unblock(callerName, serviceName string) {
	t.mu.Lock()
	delete(t.entries, key(callerName, serviceName))
	t.mu.Unlock()
}

// Blocked reports whether the table blocks cn→sn, checking the exact pair
// and both wildcard forms.
func (t *Table) Blocked(callerName, serviceName string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.entries[key(callerName, serviceName)]; ok {
		return true
	}
	if _, ok := t.entries[key(Wildcard, serviceName)]; ok {
		return true
	}
	if _, ok := t.entries[key(callerName, Wildcard)]; ok {
		return true
	}
	return false
}

// Replace atomically swaps in a new set of "cn~~sn" keys, such as one decoded
// from a remote-config killSwitch or block list. "*~~*" entries are dropped.
func (t *Table) Replace(keys []string, now time.Time) {
	entries := make(map[string]time.Time, len(keys))
	for _, k := range keys {
		if k == key(Wildcard, Wildcard) {
			continue
		}
		entries[k] = now
	}

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
}

// Len returns the number of installed blocks.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func key(callerName, serviceName string) string {
	return callerName + sep + serviceName
}
