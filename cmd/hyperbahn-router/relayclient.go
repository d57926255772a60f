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

	"go.uber.org/hyperbahn/advertise"
	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/encoding/json"
	"go.uber.org/hyperbahn/transport/tchannel"
)

// hyperbahnServiceName is the service name every router registers its
// control procedures under, and the name peer routers dial when
// relay-ad/relay-unad/discoverAffine fan out to each other.
const hyperbahnServiceName = "hyperbahn"

// tchannelRelayClient implements advertise.RelayClient over a shared
// ChannelTransport, binding one json.Client per peer host-port the first
// time it's addressed and reusing it afterward.
type tchannelRelayClient struct {
	ct       *tchannel.ChannelTransport
	selfName string

	mu      sync.Mutex
	clients map[string]json.Client
}

func newTChannelRelayClient(ct *tchannel.ChannelTransport, selfName string) *tchannelRelayClient {
	return &tchannelRelayClient{
		ct:       ct,
		selfName: selfName,
		clients:  make(map[string]json.Client),
	}
}

func (r *tchannelRelayClient) clientFor(hostPort string) (json.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[hostPort]; ok {
		return c, nil
	}

	ob := r.ct.NewSingleOutbound(hostPort)
	if err := ob.Start(); err != nil {
		return nil, err
	}

	cc := &transport.OutboundConfig{
		CallerName: r.selfName,
		Outbounds: transport.Outbounds{
			ServiceName: hyperbahnServiceName,
			Unary:       ob,
		},
	}
	c := json.New(*cc)
	r.clients[hostPort] = c
	return c, nil
}

func (r *tchannelRelayClient) RelayAd(ctx context.Context, hostPort string, req *advertise.RelayAdRequest) (*advertise.RelayAdResponse, error) {
	c, err := r.clientFor(hostPort)
	if err != nil {
		return nil, err
	}
	var res advertise.RelayAdResponse
	if err := c.Call(ctx, "relay-ad", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *tchannelRelayClient) RelayUnad(ctx context.Context, hostPort string, req *advertise.RelayUnadRequest) (*advertise.RelayUnadResponse, error) {
	c, err := r.clientFor(hostPort)
	if err != nil {
		return nil, err
	}
	var res advertise.RelayUnadResponse
	if err := c.Call(ctx, "relay-unad", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *tchannelRelayClient) DiscoverAffine(ctx context.Context, hostPort string, req *advertise.DiscoverRequest) (*advertise.DiscoverResponse, error) {
	c, err := r.clientFor(hostPort)
	if err != nil {
		return nil, err
	}
	var res advertise.DiscoverResponse
	if err := c.Call(ctx, "Hyperbahn::discoverAffine", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
