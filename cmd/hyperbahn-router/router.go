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
	"context"
	"sync"

	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/yarpcerrors"
)

// routerRouteTable is a transport.RouteTable with two tiers: a small set of
// control procedures (ad/unad/relay-ad/relay-unad/discover) registered
// against the router's own service name, and a catch-all fallback that
// hands everything else to the Dispatcher, which treats the procedure as
// application traffic destined for some other advertised service.
type routerRouteTable struct {
	mu         sync.RWMutex
	self       string
	procedures map[string]transport.HandlerSpec
	registered []transport.Procedure
	fallback   transport.UnaryHandler
}

func newRouterRouteTable(self string, fallback transport.UnaryHandler) *routerRouteTable {
	return &routerRouteTable{
		self:       self,
		procedures: make(map[string]transport.HandlerSpec),
		fallback:   fallback,
	}
}

func (r *routerRouteTable) Procedures() []transport.Procedure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]transport.Procedure(nil), r.registered...)
}

func (r *routerRouteTable) Register(procs []transport.Procedure) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range procs {
		service := p.Service
		if service == "" {
			service = r.self
		}
		r.procedures[service+"::"+p.Name] = p.HandlerSpec
		r.registered = append(r.registered, p)
	}
}

// Choose returns the control procedure registered for req, or the
// fallback handler for anything destined for some other service -
// worker and inter-router application traffic this process merely
// relays rather than terminates.
func (r *routerRouteTable) Choose(ctx context.Context, req *transport.Request) (transport.HandlerSpec, error) {
	r.mu.RLock()
	spec, ok := r.procedures[req.Service+"::"+req.Procedure]
	r.mu.RUnlock()
	if ok {
		return spec, nil
	}

	if req.Service == r.self || req.Service == "" {
		return transport.HandlerSpec{}, yarpcerrors.UnimplementedErrorf(
			"unrecognized procedure %q for service %q", req.Procedure, req.Service)
	}

	if r.fallback == nil {
		return transport.HandlerSpec{}, yarpcerrors.UnimplementedErrorf(
			"no forwarding handler configured for service %q", req.Service)
	}
	return transport.NewUnaryHandlerSpec(r.fallback), nil
}
