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
	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/encoding/json"
)

// Procedures returns the transport.Procedures implementing ad, unad,
// relay-ad, relay-unad, and discover, ready to register on a
// transport.RouteTable.
func (h *Handler) Procedures() []transport.Procedure {
	var procs []transport.Procedure
	procs = append(procs, json.Procedure("ad", h.Ad)...)
	procs = append(procs, json.Procedure("unad", h.Unad)...)
	procs = append(procs, json.Procedure("relay-ad", h.RelayAd)...)
	procs = append(procs, json.Procedure("relay-unad", h.RelayUnad)...)
	procs = append(procs, json.Procedure("Hyperbahn::discover", h.Discover)...)
	procs = append(procs, json.Procedure("Hyperbahn::discoverAffine", h.DiscoverAffine)...)
	return procs
}
