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

	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/yarpcerrors"
	"go.uber.org/zap"
)

var _ transport.UnaryHandler = (*Dispatcher)(nil)

// Handle runs a request through the admission pipeline in order: routing
// delegate, service-name presence, caller-name presence, blocking, rate
// limiting, circuit breaking, then dispatch to the target service channel.
// Handle never panics on a rejected request; rejections are either a wire
// error or, for blocked/kill-switched traffic, a silent drop (nil, nil) -
// the black-holing is intentional.
func (d *Dispatcher) Handle(ctx context.Context, req *transport.Request, resw transport.ResponseWriter) error {
	if !d.life.IsRunning() {
		return yarpcerrors.UnavailableErrorf("dispatcher is not running")
	}
	service := req.Service
	if req.RoutingDelegate != "" {
		service = req.RoutingDelegate
	}
	if service == "" {
		return yarpcerrors.InvalidArgumentErrorf("no service name given")
	}
	if req.Caller == "" {
		return yarpcerrors.InvalidArgumentErrorf("missing cn header")
	}

	if d.isBlocked(req.Caller, service) {
		d.logger.Debug("dropping blocked request",
			zap.String("caller", req.Caller), zap.String("service", service))
		return nil
	}

	now := time.Now()
	isExit := d.ring == nil || d.ring.IsExitFor(service)

	if d.limiter != nil && d.limiter.Enabled() {
		decision := d.limiter.Admit(req.Caller, service, isExit, now)
		if decision.KillSwitch {
			d.logger.Warn("kill-switch drop",
				zap.String("caller", req.Caller), zap.String("service", service))
			return nil
		}
		if !decision.Allowed {
			return yarpcerrors.ResourceExhaustedErrorf("%s", decision.BusyReason)
		}
	}

	var circ *circuit.Circuit
	if d.circuits != nil && d.circuits.Enabled() {
		c, err := d.circuits.GetCircuitForRequest(service, req.Caller, req.Procedure, now)
		if err != nil {
			return err
		}
		circ = c
	}

	candidates := d.peersFor(service)
	if len(candidates) == 0 {
		return yarpcerrors.UnavailableErrorf("no peers available for service %q", service)
	}

	err := d.forwarder.Forward(ctx, candidates, req, resw)
	if circ != nil {
		circ.Report(err == nil, time.Now())
	}
	return err
}

func (d *Dispatcher) isBlocked(cn, sn string) bool {
	if d.blocks != nil && d.blocks.Blocked(cn, sn) {
		return true
	}
	if d.remoteBlocks != nil && d.remoteBlocks.Blocked(cn, sn) {
		return true
	}
	return false
}

func (d *Dispatcher) peersFor(service string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := d.getOrCreateChannel(service)
	return ch.peerList()
}
