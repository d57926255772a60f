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

package dispatch

import (
	"sort"
	"time"
)

// Mode is the role a ServiceChannel plays for its service.
type Mode int

const (
	// ModeExit means this router is authoritative for the service and
	// holds live worker peers.
	ModeExit Mode = iota
	// ModeForward means this router proxies to the service's exit
	// routers rather than to workers directly.
	ModeForward
)

func (m Mode) String() string {
	if m == ModeExit {
		return "exit"
	}
	return "forward"
}

// ServiceChannel is this router's view of one service: in exit mode it
// holds worker peers, in forward mode it holds the service's exit
// host-ports. Mode is re-derived from the ring on every membership change
// reconciliation.
type ServiceChannel struct {
	service string
	mode    Mode

	peers          map[string]struct{}
	lastAdvertised time.Time
}

func newServiceChannel(service string, mode Mode) *ServiceChannel {
	return &ServiceChannel{
		service: service,
		mode:    mode,
		peers:   make(map[string]struct{}),
	}
}

func (c *ServiceChannel) addPeer(hostPort string) {
	c.peers[hostPort] = struct{}{}
}

func (c *ServiceChannel) removePeer(hostPort string) {
	delete(c.peers, hostPort)
}

func (c *ServiceChannel) hasPeer(hostPort string) bool {
	_, ok := c.peers[hostPort]
	return ok
}

func (c *ServiceChannel) peerList() []string {
	out := make([]string, 0, len(c.peers))
	for hp := range c.peers {
		out = append(out, hp)
	}
	sort.Strings(out)
	return out
}

// setForwardPeers replaces the peer set with the given exit host-ports,
// used when entering forward mode or when the exit set shifts.
func (c *ServiceChannel) setForwardPeers(exits []string) {
	c.peers = make(map[string]struct{}, len(exits))
	for _, hp := range exits {
		c.peers[hp] = struct{}{}
	}
}

// changeToExit clears the forward-mode exit-host-port set; workers are
// added back in as they re-advertise through refreshServicePeer.
func (c *ServiceChannel) changeToExit() {
	c.mode = ModeExit
	c.peers = make(map[string]struct{})
}

// changeToForward drops worker peers and pre-populates the forward-mode
// peer set with the new exits.
func (c *ServiceChannel) changeToForward(exits []string) {
	c.mode = ModeForward
	c.setForwardPeers(exits)
}

// refreshForwardPeers incrementally reconciles the forward-mode peer set
// against the current exits: drop peers no longer among them, add new
// ones. Called when mode is unchanged and this router is not an exit.
func (c *ServiceChannel) refreshForwardPeers(exits []string) {
	want := make(map[string]struct{}, len(exits))
	for _, hp := range exits {
		want[hp] = struct{}{}
		c.peers[hp] = struct{}{}
	}
	for hp := range c.peers {
		if _, ok := want[hp]; !ok {
			delete(c.peers, hp)
		}
	}
}

// purgeIfStale reports whether this channel's advertisement has aged past
// ttl as of now, for the service-purge scanner.
func (c *ServiceChannel) purgeIfStale(ttl time.Duration, now time.Time) bool {
	if c.lastAdvertised.IsZero() {
		return false
	}
	return now.Sub(c.lastAdvertised) > ttl
}
