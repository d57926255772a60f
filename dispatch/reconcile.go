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
	"time"

	"go.uber.org/zap"
)

// updateServiceChannels reconciles every known service channel against
// current ring membership. It runs under d.mu, invoked either directly
// from the ring view's change callback or from a test.
func (d *Dispatcher) updateServiceChannels(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, ch := range d.channels {
		wasExit := ch.mode == ModeExit
		isExit := d.ring.IsExitFor(name)

		switch {
		case !wasExit && isExit:
			ch.changeToExit()
			d.logger.Info("service channel became exit", zap.String("service", name))
		case wasExit && !isExit:
			for _, hp := range ch.peerList() {
				if err := d.connector.Disconnect(hp, DirectionBoth); err != nil {
					d.logger.Warn("failed to disconnect worker peer on role change",
						zap.String("service", name), zap.String("hostPort", hp), zap.Error(err))
				}
			}
			ch.changeToForward(d.ring.ExitsFor(name))
			d.logger.Info("service channel became forward", zap.String("service", name))
		case isExit:
			if d.partialAffinity {
				d.ensurePartialConnections(ch, now)
			}
		default:
			ch.refreshForwardPeers(d.ring.ExitsFor(name))
		}
	}

	if d.circuits != nil {
		d.circuits.UpdateServices()
	}
}

// PurgeStaleChannels drops service channels whose advertisement has aged
// past ttl, the "service-purge" periodic task. It is driven by a
// scanner.Scanner in the wiring entrypoint.
func (d *Dispatcher) PurgeStaleChannels(ttl time.Duration, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, ch := range d.channels {
		if ch.mode == ModeExit && ch.purgeIfStale(ttl, now) {
			delete(d.channels, name)
			d.logger.Info("purged stale service channel", zap.String("service", name))
		}
	}
}
