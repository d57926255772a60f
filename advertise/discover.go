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

package advertise

import (
	"context"
	"net"
	"strconv"

	"go.uber.org/hyperbahn/dispatch"
	"go.uber.org/hyperbahn/yarpcerrors"
)

// Discover resolves the peers currently advertising a service. If this
// router is in forward mode for the service, the lookup is forwarded to
// any one of the service's exits via discoverAffine, which never
// forwards again.
func (h *Handler) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	if req.ServiceName == "" {
		return nil, yarpcerrors.NamedErrorf("invalidServiceName", "serviceName must not be empty")
	}

	peers, mode := h.dispatcher.PeersForService(req.ServiceName)
	if mode != dispatch.ModeExit {
		return h.forwardDiscover(ctx, req)
	}
	return peersToResponse(peers)
}

// DiscoverAffine is the exit-side handler reached by a discoverAffine
// forward: it always resolves locally and never forwards again.
func (h *Handler) DiscoverAffine(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	if req.ServiceName == "" {
		return nil, yarpcerrors.NamedErrorf("invalidServiceName", "serviceName must not be empty")
	}
	peers, _ := h.dispatcher.PeersForService(req.ServiceName)
	return peersToResponse(peers)
}

func (h *Handler) forwardDiscover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	exits := h.ring.ExitsFor(req.ServiceName)
	if len(exits) == 0 {
		return nil, yarpcerrors.NamedErrorf("noPeersAvailable", "no exits available for %q", req.ServiceName)
	}

	ctx, cancel := context.WithTimeout(ctx, discoverAffineTimeout)
	defer cancel()

	return h.relay.DiscoverAffine(ctx, exits[0], req)
}

func peersToResponse(hostPorts []string) (*DiscoverResponse, error) {
	if len(hostPorts) == 0 {
		return nil, yarpcerrors.NamedErrorf("noPeersAvailable", "no peers available")
	}

	peers := make([]PeerAddress, 0, len(hostPorts))
	for _, hp := range hostPorts {
		addr, err := encodeHostPort(hp)
		if err != nil {
			continue
		}
		peers = append(peers, addr)
	}
	if len(peers) == 0 {
		return nil, yarpcerrors.NamedErrorf("noPeersAvailable", "no peers available")
	}
	return &DiscoverResponse{Peers: peers}, nil
}

// encodeHostPort parses "ip:port" into the big-endian ipv4/port pair the
// wire format uses.
func encodeHostPort(hostPort string) (PeerAddress, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return PeerAddress{}, err
	}
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return PeerAddress{}, yarpcerrors.InvalidArgumentErrorf("host-port %q is not an IPv4 address", hostPort)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return PeerAddress{}, err
	}

	ipv4 := uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
	return PeerAddress{IPv4: ipv4, Port: uint16(port)}, nil
}
