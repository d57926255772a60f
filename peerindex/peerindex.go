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

// Package peerindex maintains the dispatcher's secondary indices over
// worker peers: which peers are connected for a service under partial
// affinity, which peers are known at all, and which peers are scheduled
// for pruning (outbound-only close) or reaping (full close and delete).
package peerindex

import (
	"sync"
	"time"
)

// PruneReason records why a peer was scheduled for pruning, for logging.
type PruneReason string

const (
	// PruneOutOfAffinity marks a peer pruned because it fell out of the
	// partial-affinity window for every service that held it.
	PruneOutOfAffinity PruneReason = "out-of-affinity"
)

// Index owns the connectedServicePeers/connectedPeerServices mirror
// indices (partial affinity), the knownPeers/peersToReap reaper
// generation, and the peersToPrune schedule.
type Index struct {
	mu sync.Mutex

	// connectedServicePeers[service] is the set of peer host-ports
	// currently held open for that service under partial affinity.
	connectedServicePeers map[string]map[string]struct{}
	// connectedPeerServices[hostPort] is the inverse: the set of
	// services currently holding that peer open.
	connectedPeerServices map[string]map[string]struct{}

	// knownPeers[hostPort][service] = lastRefresh. Reset to empty at
	// the start of every reap tick; peersToReap holds the previous
	// generation until the next tick confirms liveness.
	knownPeers map[string]map[string]time.Time
	// peersToReap holds the previous reap generation; a hostPort still
	// here when the next tick runs (having never been re-added to
	// knownPeers) is dead.
	peersToReap map[string]map[string]time.Time

	// peersToPrune[hostPort] records when and why a peer's outbound
	// connection was scheduled for closure without deleting the peer.
	peersToPrune map[string]pruneEntry
}

type pruneEntry struct {
	since  time.Time
	reason PruneReason
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		connectedServicePeers: make(map[string]map[string]struct{}),
		connectedPeerServices: make(map[string]map[string]struct{}),
		knownPeers:            make(map[string]map[string]time.Time),
		peersToReap:           make(map[string]map[string]time.Time),
		peersToPrune:          make(map[string]pruneEntry),
	}
}

// AddAffinity records that hostPort is held open for service, keeping
// connectedServicePeers and connectedPeerServices in lockstep.
func (ix *Index) AddAffinity(service, hostPort string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	peers, ok := ix.connectedServicePeers[service]
	if !ok {
		peers = make(map[string]struct{})
		ix.connectedServicePeers[service] = peers
	}
	peers[hostPort] = struct{}{}

	services, ok := ix.connectedPeerServices[hostPort]
	if !ok {
		services = make(map[string]struct{})
		ix.connectedPeerServices[hostPort] = services
	}
	services[service] = struct{}{}

	delete(ix.peersToPrune, hostPort)
}

// RemoveAffinity drops the (service, hostPort) affinity pairing. It
// returns true if, after removal, hostPort has no services left holding
// it open — the caller should then schedule it for pruning.
func (ix *Index) RemoveAffinity(service, hostPort string) (orphaned bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if peers, ok := ix.connectedServicePeers[service]; ok {
		delete(peers, hostPort)
		if len(peers) == 0 {
			delete(ix.connectedServicePeers, service)
		}
	}

	services, ok := ix.connectedPeerServices[hostPort]
	if !ok {
		return true
	}
	delete(services, service)
	if len(services) == 0 {
		delete(ix.connectedPeerServices, hostPort)
		return true
	}
	return false
}

// ConnectedPeers returns the affine peer set for a service.
func (ix *Index) ConnectedPeers(service string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	peers := ix.connectedServicePeers[service]
	out := make([]string, 0, len(peers))
	for hp := range peers {
		out = append(out, hp)
	}
	return out
}

// IsAffine reports whether hostPort is currently held open for service.
func (ix *Index) IsAffine(service, hostPort string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	peers, ok := ix.connectedServicePeers[service]
	if !ok {
		return false
	}
	_, ok = peers[hostPort]
	return ok
}

// SchedulePrune records hostPort as pruned for reason, unless it is
// already scheduled.
func (ix *Index) SchedulePrune(hostPort string, reason PruneReason, now time.Time) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.peersToPrune[hostPort]; ok {
		return
	}
	ix.peersToPrune[hostPort] = pruneEntry{since: now, reason: reason}
}

// CancelPrune removes any pending prune for hostPort.
func (ix *Index) CancelPrune(hostPort string) {
	ix.mu.Lock()
	delete(ix.peersToPrune, hostPort)
	ix.mu.Unlock()
}

// IsPruneScheduled reports whether hostPort is currently awaiting prune.
func (ix *Index) IsPruneScheduled(hostPort string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, ok := ix.peersToPrune[hostPort]
	return ok
}

// ScheduledPrunes drains and returns the current prune schedule; the
// caller is the interval scanner's each() callback for the pruner task.
func (ix *Index) ScheduledPrunes() map[string]PruneReason {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	out := make(map[string]PruneReason, len(ix.peersToPrune))
	for hp, e := range ix.peersToPrune {
		out[hp] = e.reason
	}
	ix.peersToPrune = make(map[string]pruneEntry)
	return out
}

// Touch stamps (hostPort, service) as refreshed in the current reap
// generation and cancels any pending reap for that pair.
func (ix *Index) Touch(hostPort, service string, now time.Time) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	services, ok := ix.knownPeers[hostPort]
	if !ok {
		services = make(map[string]time.Time)
		ix.knownPeers[hostPort] = services
	}
	services[service] = now

	if reaping, ok := ix.peersToReap[hostPort]; ok {
		delete(reaping, service)
		if len(reaping) == 0 {
			delete(ix.peersToReap, hostPort)
		}
	}
}

// Untouch removes (hostPort, service) from both the known-peers and
// pending-reap generations, used on explicit unadvertise.
func (ix *Index) Untouch(hostPort, service string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if services, ok := ix.knownPeers[hostPort]; ok {
		delete(services, service)
		if len(services) == 0 {
			delete(ix.knownPeers, hostPort)
		}
	}
	if services, ok := ix.peersToReap[hostPort]; ok {
		delete(services, service)
		if len(services) == 0 {
			delete(ix.peersToReap, hostPort)
		}
	}
}

// RotateReapGeneration implements the §3 reap-tick rule: peersToReap :=
// knownPeers; knownPeers := {}. It returns the previous peersToReap
// generation — hostPorts still present there (never re-touched between
// ticks) are dead and should be removed from every service channel.
func (ix *Index) RotateReapGeneration() map[string]map[string]time.Time {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	dead := ix.peersToReap
	ix.peersToReap = ix.knownPeers
	ix.knownPeers = make(map[string]map[string]time.Time)
	return dead
}

// KnownServices returns the set of services hostPort is currently known
// for, across both the live and pending-reap generations.
func (ix *Index) KnownServices(hostPort string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	seen := make(map[string]struct{})
	for s := range ix.knownPeers[hostPort] {
		seen[s] = struct{}{}
	}
	for s := range ix.peersToReap[hostPort] {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}
