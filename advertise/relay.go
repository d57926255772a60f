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
	"time"
)

// RelayAd is the exit-side handler for a relay-ad call: it refreshes the
// dispatcher's record of the advertising peer for each service named in
// the request.
func (h *Handler) RelayAd(ctx context.Context, req *RelayAdRequest) (*RelayAdResponse, error) {
	now := time.Now()
	for _, svc := range req.Services {
		h.dispatcher.RefreshServicePeer(svc.ServiceName, svc.HostPort, now)
	}
	return &RelayAdResponse{}, nil
}

// RelayUnad is the exit-side handler for a relay-unad call.
func (h *Handler) RelayUnad(ctx context.Context, req *RelayUnadRequest) (*RelayUnadResponse, error) {
	now := time.Now()
	for _, svc := range req.Services {
		h.dispatcher.RemoveServicePeer(svc.ServiceName, svc.HostPort, now)
	}
	return &RelayUnadResponse{}, nil
}
