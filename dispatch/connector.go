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
	"sync"
	"time"

	"go.uber.org/hyperbahn/api/peer"
	"go.uber.org/hyperbahn/peer/abstractpeer"
)

// Direction is which leg of a peer's connection an operation targets.
type Direction int

const (
	// DirectionOut is the outbound connection this router opens to a
	// peer.
	DirectionOut Direction = iota
	// DirectionBoth covers both legs, used when reaping a peer entirely.
	DirectionBoth
)

// DrainGoal distinguishes a peer falling out of partial affinity
// ("close-drained") from a peer being fully removed ("close-peer").
type DrainGoal int

const (
	// GoalCloseDrained is used when pruning a peer out of affinity: the
	// outbound connection is closed but the peer entry is retained.
	GoalCloseDrained DrainGoal = iota
	// GoalClosePeer is used when reaping a peer: both directions close
	// and the peer is deleted once the drain completes.
	GoalClosePeer
)

// Connector manages the underlying transport connections to peers. The
// framed RPC transport and its connection objects are an external
// collaborator; Connector is the seam the dispatcher calls through rather
// than touching connection objects directly, the way x/shardproxy's
// peerThunk wraps a retained peer.Peer.
type Connector interface {
	// EnsureConnected opens the given direction to hostPort if it is not
	// already open, cancelling any in-flight drain for that direction.
	EnsureConnected(hostPort string, direction Direction) error
	// Disconnect tears down the given direction immediately, with no
	// drain grace period.
	Disconnect(hostPort string, direction Direction) error
	// Drain begins a graceful shutdown of direction to hostPort, giving
	// in-flight requests up to timeout to complete before the
	// connection is closed unconditionally.
	Drain(ctx context.Context, hostPort string, goal DrainGoal, direction Direction, timeout time.Duration) error
}

// TransportConnector adapts a peer.Transport (the retain/release contract
// every yarpc transport implements) into a Connector, following the same
// RetainPeer/ReleasePeer pattern x/shardproxy.sharder uses to track its
// peerThunks.
type TransportConnector struct {
	transport  peer.Transport
	subscriber peer.Subscriber

	mu     sync.Mutex
	peers  map[string]peer.Peer
}

// NewTransportConnector builds a Connector backed by transport. sub
// receives connection-status notifications for every retained peer; pass
// a no-op subscriber if the caller doesn't track status changes itself.
func NewTransportConnector(transport peer.Transport, sub peer.Subscriber) *TransportConnector {
	return &TransportConnector{
		transport:  transport,
		subscriber: sub,
		peers:      make(map[string]peer.Peer),
	}
}

func (c *TransportConnector) EnsureConnected(hostPort string, direction Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.peers[hostPort]; ok {
		return nil
	}
	p, err := c.transport.RetainPeer(abstractpeer.Identify(hostPort), c.subscriber)
	if err != nil {
		return err
	}
	c.peers[hostPort] = p
	return nil
}

func (c *TransportConnector) Disconnect(hostPort string, direction Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.peers[hostPort]; !ok {
		return nil
	}
	delete(c.peers, hostPort)
	return c.transport.ReleasePeer(abstractpeer.Identify(hostPort), c.subscriber)
}

// Drain waits out timeout (or ctx) to let pending requests on the peer
// drain, then releases it regardless. The underlying transport has no
// notion of "drained" beyond pending-request count, so this is a timed
// best-effort wait followed by an unconditional release; on expiry the
// peer is closed anyway.
func (c *TransportConnector) Drain(ctx context.Context, hostPort string, goal DrainGoal, direction Direction, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
waitLoop:
	for {
		c.mu.Lock()
		p, ok := c.peers[hostPort]
		c.mu.Unlock()
		if !ok {
			return nil
		}
		if sp, ok := p.(peer.StatusPeer); ok && sp.Status().PendingRequestCount == 0 {
			break waitLoop
		}
		if time.Now().After(deadline) {
			break waitLoop
		}
		select {
		case <-ctx.Done():
			break waitLoop
		case <-time.After(50 * time.Millisecond):
		}
	}
	return c.Disconnect(hostPort, direction)
}
