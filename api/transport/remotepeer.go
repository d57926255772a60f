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

package transport

import "context"

type remoteHostPortKey struct{}

// WithRemoteHostPort attaches the host:port of the peer that originated the
// inbound call to ctx. Transports that know the address of their peer (e.g.
// TChannel, which keeps one open connection per peer) populate this before
// invoking a handler; transports that don't leave it unset.
func WithRemoteHostPort(ctx context.Context, hostPort string) context.Context {
	return context.WithValue(ctx, remoteHostPortKey{}, hostPort)
}

// RemoteHostPortFromContext returns the host:port attached by
// WithRemoteHostPort, if any.
func RemoteHostPortFromContext(ctx context.Context) (string, bool) {
	hostPort, ok := ctx.Value(remoteHostPortKey{}).(string)
	return hostPort, ok && hostPort != ""
}
