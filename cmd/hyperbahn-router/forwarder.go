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
	"io"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/transport/tchannel"
)

// channelForwarder is a dispatch.Forwarder that relays a request to one of
// its candidates over a shared TChannel, caching one ChannelOutbound per
// peer so repeat traffic to a hot peer doesn't pay connection setup twice.
type channelForwarder struct {
	ct *tchannel.ChannelTransport

	mu        sync.Mutex
	outbounds map[string]*tchannel.ChannelOutbound

	randMu sync.Mutex
	rand   *rand.Rand
}

func newChannelForwarder(ct *tchannel.ChannelTransport) *channelForwarder {
	return &channelForwarder{
		ct:        ct,
		outbounds: make(map[string]*tchannel.ChannelOutbound),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *channelForwarder) outboundFor(addr string) (*tchannel.ChannelOutbound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ob, ok := f.outbounds[addr]; ok {
		return ob, nil
	}

	ob := f.ct.NewSingleOutbound(addr)
	if err := ob.Start(); err != nil {
		return nil, err
	}
	f.outbounds[addr] = ob
	return ob, nil
}

// Forward picks a random candidate and relays req to it over a cached
// outbound, copying the resulting response onto resw. Picking randomly
// rather than always the first candidate spreads load roughly evenly
// across peerindex's chosen connections without needing a stateful
// peer.Chooser.
func (f *channelForwarder) Forward(ctx context.Context, candidates []string, req *transport.Request, resw transport.ResponseWriter) error {
	f.randMu.Lock()
	addr := candidates[f.rand.Intn(len(candidates))]
	f.randMu.Unlock()

	ob, err := f.outboundFor(addr)
	if err != nil {
		return err
	}

	res, err := ob.Call(ctx, req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resw.AddHeaders(res.Headers)
	if res.ApplicationError {
		resw.SetApplicationError()
	}
	_, err = io.Copy(resw, res.Body)
	return err
}
