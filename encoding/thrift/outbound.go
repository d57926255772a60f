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
	"bytes"
	"context"
	"io/ioutil"

	"go.uber.org/thriftrw/envelope"
	"go.uber.org/thriftrw/protocol"
	"go.uber.org/thriftrw/wire"
	encodingapi "go.uber.org/hyperbahn/api/encoding"
	"go.uber.org/hyperbahn/api/transport"
	"go.uber.org/hyperbahn/pkg/errors"
)

// Client is a generic Thrift client. It speaks in raw Thrift payloads. The
// code generator is responsible for putting a pretty interface in front of it.
type Client interface {
	// Call the given Thrift method.
	Call(ctx context.Context, reqBody envelope.Enveloper, opts ...encodingapi.CallOption) (wire.Value, error)
}

// Config contains the configuration for the Client.
type Config struct {
	// Name of the Thrift service. This is the name used in the Thrift file
	// with the 'service' keyword.
	Service string

	// ClientConfig through which requests will be sent. Required.
	ClientConfig transport.ClientConfig

	// Thrift encoding protocol. Defaults to Binary if nil.
	Protocol protocol.Protocol
}

// New creates a new Thrift client.
func New(c Config, opts ...ClientOption) Client {
	var cc clientConfig
	for _, opt := range opts {
		opt.applyClientOption(&cc)
	}

	p := c.Protocol
	if p == nil {
		p = protocol.Binary
	}
	if cc.DisableEnveloping {
		p = disableEnvelopingProtocol{Protocol: p, Type: wire.Reply}
	}

	return thriftClient{
		p:             p,
		cc:            c.ClientConfig,
		thriftService: c.Service,
		multiplexed:   cc.Multiplexed,
	}
}

type thriftClient struct {
	cc transport.ClientConfig
	p  protocol.Protocol

	thriftService string
	multiplexed   bool
}

func (c thriftClient) Call(ctx context.Context, reqBody envelope.Enveloper, opts ...encodingapi.CallOption) (wire.Value, error) {
	call := encodingapi.NewOutboundCall(opts...)
	treq := transport.Request{
		Caller:    c.cc.Caller(),
		Service:   c.cc.Service(),
		Procedure: procedureName(c.thriftService, reqBody.MethodName()),
		Encoding:  Encoding,
	}

	ctx, err := call.WriteToRequest(ctx, &treq)
	if err != nil {
		return wire.Value{}, err
	}

	value, err := reqBody.ToWire()
	if err != nil {
		// ToWire validates the request; a failure here is a caller error,
		// not an encoding error.
		return wire.Value{}, err
	}

	var buffer bytes.Buffer
	if err := c.p.Encode(value, &buffer); err != nil {
		return wire.Value{}, errors.RequestBodyEncodeError(&treq, err)
	}
	treq.Body = &buffer

	tres, err := c.cc.GetUnaryOutbound().Call(ctx, &treq)
	if err != nil {
		return wire.Value{}, err
	}
	defer tres.Body.Close()

	if _, err := call.ReadFromResponse(ctx, tres); err != nil {
		return wire.Value{}, err
	}

	payload, err := ioutil.ReadAll(tres.Body)
	if err != nil {
		return wire.Value{}, err
	}

	resBody, err := c.p.Decode(bytes.NewReader(payload), wire.TStruct)
	if err != nil {
		return wire.Value{}, errors.ResponseBodyDecodeError(&treq, err)
	}

	return resBody, nil
}
