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
	"context"
	"time"

	"go.uber.org/hyperbahn/partialrange"
	"go.uber.org/hyperbahn/peerindex"
	"go.uber.org/zap"
)

// RefreshServicePeer is called on every `relay-ad` for (service, hostPort).
// It is a no-op in forward mode: a forward-mode advertise means this
// router is not authoritative for the service, and the advertise fanout
// will have also reached the real exits.
func (d *Dispatcher) RefreshServicePeer(service, hostPort string, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := d.getOrCreateChannel(service)
	if ch.mode != ModeExit {
		return
	}

	ch.addPeer(hostPort)
	ch.lastAdvertised = now

	if d.partialAffinity {
		d.ensurePartialConnections(ch, now)
		return
	}

	d.peerIndex.CancelPrune(hostPort)
	d.peerIndex.Touch(hostPort, service, now)
	if err := d.connector.EnsureConnected(hostPort, DirectionOut); err != nil {
		d.logger.Warn("failed to open outbound connection to advertised peer",
			zap.String("service", service), zap.String("hostPort", hostPort), zap.Error(err))
	}
}

// RemoveServicePeer is called on every `relay-unad` for (service,
// hostPort). It drops the peer from the service channel and, if no other
// channel still references the peer, drains and removes it from the
// transport.
func (d *Dispatcher) RemoveServicePeer(service, hostPort string, now time.Time) {
	d.mu.Lock()
	ch, ok := d.channels[service]
	if !ok {
		d.mu.Unlock()
		return
	}
	ch.removePeer(hostPort)

	if d.partialAffinity {
		d.ensurePartialConnections(ch, now)
	}
	d.peerIndex.Untouch(hostPort, service)
	stillReferenced := len(d.peerIndex.KnownServices(hostPort)) > 0
	d.mu.Unlock()

	if stillReferenced {
		d.logger.Debug("peer still held by another service channel, not closing",
			zap.String("hostPort", hostPort))
		return
	}

	go d.drainAndClose(hostPort)
}

func (d *Dispatcher) drainAndClose(hostPort string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()

	if err := d.connector.Drain(ctx, hostPort, GoalClosePeer, DirectionBoth, d.drainTimeout); err != nil {
		d.logger.Warn("peer drain failed, closing anyway",
			zap.String("hostPort", hostPort), zap.Error(err))
	}
}

// ensurePartialConnections recomputes the partial-affinity window for ch's
// service and reconciles secondary indices and outbound connections to
// match. Callers must hold d.mu.
func (d *Dispatcher) ensurePartialConnections(ch *ServiceChannel, now time.Time) {
	relays := d.ring.ExitsFor(ch.service)
	workers := ch.peerList()

	pr := partialrange.Compute(relays, workers, d.self, d.minPeersPerWorker, d.minPeersPerRelay)
	if !pr.Valid {
		d.logger.Warn("partial range invalid, this router is not currently a relay for the service",
			zap.String("service", ch.service))
		return
	}

	toConnect := make(map[string]struct{}, len(pr.AffineWorkers))
	for _, hp := range pr.AffineWorkers {
		toConnect[hp] = struct{}{}
	}

	for hp := range toConnect {
		d.peerIndex.AddAffinity(ch.service, hp)
		d.peerIndex.CancelPrune(hp)
		if err := d.connector.EnsureConnected(hp, DirectionOut); err != nil {
			d.logger.Warn("failed to open affine outbound connection",
				zap.String("service", ch.service), zap.String("hostPort", hp), zap.Error(err))
		}
	}

	connected := d.peerIndex.ConnectedPeers(ch.service)
	for _, hp := range connected {
		if _, keep := toConnect[hp]; keep {
			continue
		}
		orphaned := d.peerIndex.RemoveAffinity(ch.service, hp)
		if orphaned {
			d.peerIndex.SchedulePrune(hp, peerindex.PruneOutOfAffinity, now)
		}
	}
}
