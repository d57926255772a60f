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

package debug

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/blocktable"
	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/dispatch"
	"go.uber.org/hyperbahn/peerindex"
	"go.uber.org/hyperbahn/ratelimit"
	"go.uber.org/hyperbahn/ring"
)

type fakeSource struct {
	self  string
	exits map[string][]string
}

func (f *fakeSource) Exits(service string, size int) []string {
	all := f.exits[service]
	if size >= len(all) {
		return all
	}
	return all[:size]
}
func (f *fakeSource) Self() string            { return f.self }
func (f *fakeSource) Subscribe(func()) func() { return func() {} }

type noopConnector struct{}

func (noopConnector) EnsureConnected(string, dispatch.Direction) error { return nil }
func (noopConnector) Disconnect(string, dispatch.Direction) error      { return nil }
func (noopConnector) Drain(context.Context, string, dispatch.DrainGoal, dispatch.Direction, time.Duration) error {
	return nil
}

type noopForwarder struct{}

func (noopForwarder) Forward(context.Context, []string, *transport.Request, transport.ResponseWriter) error {
	return nil
}

func newTestDispatcher(self string) (*dispatch.Dispatcher, *circuit.Registry) {
	src := &fakeSource{self: self, exits: map[string][]string{"steve": {self}}}
	v := ring.New(src)
	circuits := circuit.New(v.IsExitFor)
	d := dispatch.New(dispatch.Config{
		Self:      self,
		Ring:      v,
		Limiter:   ratelimit.New(),
		Circuits:  circuits,
		Blocks:    blocktable.New(),
		PeerIndex: peerindex.New(),
		Connector: noopConnector{},
		Forwarder: noopForwarder{},
	})
	_ = d.Start()
	return d, circuits
}

func TestHandleRendersServicesAndCircuits(t *testing.T) {
	d, circuits := newTestDispatcher("h1")
	d.RefreshServicePeer("steve", "10.0.0.1:1", time.Now())
	circuits.GetOrCreate("steve", "bob", "echo", time.Now())

	req := httptest.NewRequest(http.MethodGet, "/debug/hyperbahn", nil)
	w := httptest.NewRecorder()

	NewHandler(d, circuits).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "h1")
	assert.Contains(t, body, "steve")
	assert.Contains(t, body, "10.0.0.1:1")
}

func TestHandleNilCircuitsRegistry(t *testing.T) {
	d, _ := newTestDispatcher("h1")

	req := httptest.NewRequest(http.MethodGet, "/debug/hyperbahn", nil)
	w := httptest.NewRecorder()

	NewHandler(d, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
