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

	"go.uber.org/zap"

	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/yarpcerrors"
)

// Ad handles a worker's "ad" call: it stamps each advertised service with
// the caller's connection-level host-port, fans out a relay-ad per exit,
// and returns without waiting for the fanout to finish.
func (h *Handler) Ad(ctx context.Context, req *AdRequest) (*AdResponse, error) {
	hostPort, ok := transport.RemoteHostPortFromContext(ctx)
	if !ok {
		return nil, yarpcerrors.InvalidArgumentErrorf("could not determine caller's host-port")
	}

	buckets := h.bucketByExit(req.Services, hostPort)
	for exit, services := range buckets {
		go h.sendRelayAd(exit, services)
	}

	return &AdResponse{ConnectionCount: len(buckets)}, nil
}

// Unad handles a worker's "unad" call, mirroring Ad.
func (h *Handler) Unad(ctx context.Context, req *UnadRequest) (*UnadResponse, error) {
	hostPort, ok := transport.RemoteHostPortFromContext(ctx)
	if !ok {
		return nil, yarpcerrors.InvalidArgumentErrorf("could not determine caller's host-port")
	}

	buckets := h.bucketByExit(req.Services, hostPort)
	for exit, services := range buckets {
		go h.sendRelayUnad(exit, services)
	}

	return &UnadResponse{}, nil
}

// sendRelayAd sends a single relay-ad to exit, retrying on network/timeout
// errors up to maxRelayAdAttempts additional times, separated by
// relayAdRetryTime. Any other error is logged and swallowed: best-effort
// fanout never surfaces failures back to the advertising worker.
func (h *Handler) sendRelayAd(exit string, services []RelayServiceCost) {
	req := &RelayAdRequest{Services: services}
	h.sendRelay(exit, "relay-ad", func(ctx context.Context) error {
		_, err := h.relay.RelayAd(ctx, exit, req)
		return err
	})
}

func (h *Handler) sendRelayUnad(exit string, services []RelayServiceCost) {
	req := &RelayUnadRequest{Services: services}
	h.sendRelay(exit, "relay-unad", func(ctx context.Context) error {
		_, err := h.relay.RelayUnad(ctx, exit, req)
		return err
	})
}

func (h *Handler) sendRelay(exit, procedure string, call func(ctx context.Context) error) {
	var attempt uint
	for {
		ctx, cancel := context.WithTimeout(context.Background(), relayAdTimeout)
		err := call(ctx)
		cancel()
		if err == nil {
			return
		}

		if !isRetryable(err) || attempt >= maxRelayAdAttempts {
			logRelayFailure(h.logger, procedure, exit, err)
			return
		}

		attempt++
		time.Sleep(h.retry.Duration(attempt))
	}
}

func logRelayFailure(logger *zap.Logger, procedure, exit string, err error) {
	if yarpcerrors.FromError(err).Code() == yarpcerrors.CodeInternal {
		logger.Error("relay fanout failed",
			zap.String("procedure", procedure), zap.String("exit", exit), zap.Error(err))
		return
	}
	logger.Warn("relay fanout failed",
		zap.String("procedure", procedure), zap.String("exit", exit), zap.Error(err))
}

// isRetryable reports whether err looks like a transient network or
// timeout failure, as opposed to an application-level rejection that a
// retry cannot fix.
func isRetryable(err error) bool {
	if err == context.DeadlineExceeded {
		return true
	}
	switch yarpcerrors.FromError(err).Code() {
	case yarpcerrors.CodeDeadlineExceeded, yarpcerrors.CodeUnavailable:
		return true
	default:
		return false
	}
}
