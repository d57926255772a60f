// Copyright (c) 2016 Uber Technologies, Inc.
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

package thrift

import (
	"context"

	"go.uber.org/thriftrw/protocol"
	"go.uber.org/thriftrw/wire"
	"go.uber.org/hyperbahn/api/transport"
)

// UnaryHandler handles a single, unary Thrift method.
type UnaryHandler func(ctx context.Context, body wire.Value) (Response, error)

// OnewayHandler handles a single, oneway Thrift method.
type OnewayHandler func(ctx context.Context, body wire.Value) error

// Service represents a generated Thrift service implementation.
type Service interface {
	// Name of the Thrift service.
	Name() string

	// Protocol to use for requests and responses of this service.
	Protocol() protocol.Protocol

	// Map of method name to UnaryHandler for all unary methods of this service.
	Handlers() map[string]UnaryHandler

	// Map of method name to OnewayHandler for all oneway methods of this service.
	OnewayHandlers() map[string]OnewayHandler
}

// Register registers the handlers for the methods of the given service with
// the given RouteTable.
func Register(reg transport.RouteTable, service Service, opts ...RegisterOption) {
	var rc registerConfig
	for _, opt := range opts {
		opt.applyRegisterOption(&rc)
	}

	enveloping := !rc.DisableEnveloping
	name := service.Name()
	proto := service.Protocol()

	var procedures []transport.Procedure
	for method, h := range service.Handlers() {
		handler := thriftUnaryHandler{UnaryHandler: h, Protocol: proto, Enveloping: enveloping}
		procedures = append(procedures, transport.Procedure{
			Name:        procedureName(name, method),
			HandlerSpec: transport.NewUnaryHandlerSpec(handler),
			Encoding:    Encoding,
		})
	}
	for method, h := range service.OnewayHandlers() {
		handler := thriftOnewayHandler{OnewayHandler: h, Protocol: proto, Enveloping: enveloping}
		procedures = append(procedures, transport.Procedure{
			Name:        procedureName(name, method),
			HandlerSpec: transport.NewOnewayHandlerSpec(handler),
			Encoding:    Encoding,
		})
	}

	reg.Register(procedures)
}
