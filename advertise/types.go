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

// Package advertise implements the worker-facing ad/unad protocol and its
// inter-router relay-ad/relay-unad fanout, plus the discover lookup that
// resolves a service name to the peers currently advertising it.
package advertise

// ServiceCost is a single entry of a worker's ad/unad request: the service
// it offers and its advertised cost (currently unused for routing
// decisions but carried through for forward compatibility with weighted
// advertisement).
type ServiceCost struct {
	ServiceName string `json:"serviceName"`
	Cost        int    `json:"cost"`
}

// AdRequest is the body of a worker's "ad" call.
type AdRequest struct {
	Services []ServiceCost `json:"services"`
}

// AdResponse is the response to a worker's "ad" call. It is returned
// immediately, before any relay-ad fanout completes.
type AdResponse struct {
	ConnectionCount int `json:"connectionCount"`
}

// UnadRequest is the body of a worker's "unad" call.
type UnadRequest struct {
	Services []ServiceCost `json:"services"`
}

// UnadResponse is the (empty) response to a worker's "unad" call.
type UnadResponse struct{}

// RelayServiceCost is a single entry of a relay-ad/relay-unad request: the
// service, the advertising worker's host-port, and its cost.
type RelayServiceCost struct {
	ServiceName string `json:"serviceName"`
	HostPort    string `json:"hostPort"`
	Cost        int    `json:"cost"`
}

// RelayAdRequest is the body of a router-to-router "relay-ad" call.
type RelayAdRequest struct {
	Services []RelayServiceCost `json:"services"`
}

// RelayAdResponse is the (empty) response to a "relay-ad" call.
type RelayAdResponse struct{}

// RelayUnadRequest is the body of a router-to-router "relay-unad" call.
type RelayUnadRequest struct {
	Services []RelayServiceCost `json:"services"`
}

// RelayUnadResponse is the (empty) response to a "relay-unad" call.
type RelayUnadResponse struct{}

// PeerAddress is one peer returned by discover/discoverAffine, the
// ip:port pair of a worker currently advertising the queried service.
type PeerAddress struct {
	IPv4 uint32 `json:"ipv4"`
	Port uint16 `json:"port"`
}

// DiscoverRequest is the body of a discover/discoverAffine call.
type DiscoverRequest struct {
	ServiceName string `json:"serviceName"`
}

// DiscoverResponse is the body returned by a successful discover call.
type DiscoverResponse struct {
	Peers []PeerAddress `json:"peers"`
}

// ourCallerName is the caller name for relay-ad/relay-unad fanout requests
// this router originates. Nothing in this package sets it on a request:
// the RelayClient decides the caller name it sends (cmd/hyperbahn-router
// sends the router's own host:port).
const ourCallerName = "autobahn"

// forwardedCallerName is the caller name for a forwarded discover lookup.
// Nothing in this package sets or reads it. A forward never goes further
// because it targets the separate discoverAffine procedure, whose handler
// always resolves locally whatever the caller name.
const forwardedCallerName = "hyperbahn"
