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

package json

import (
	"bytes"
	"context"
	"encoding/json"

	encodingapi "go.uber.org/hyperbahn/api/encoding"
	"go.uber.org/hyperbahn/api/transport"
)

// Client makes JSON requests to a single service.
type Client interface {
	// Call performs an outbound JSON request.
	//
	// responseOut is a pointer to a value that can be filled with
	// json.Unmarshal.
	Call(ctx context.Context, procedure string, body interface{}, responseOut interface{}, opts ...encodingapi.CallOption) error
}

// New builds a new JSON client.
func New(c transport.ClientConfig) Client {
	return jsonClient{cc: c}
}

type jsonClient struct {
	cc transport.ClientConfig
}

func (c jsonClient) Call(ctx context.Context, procedure string, body interface{}, responseOut interface{}, opts ...encodingapi.CallOption) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return marshalError{Reason: err}
	}

	call := encodingapi.NewOutboundCall(opts...)
	treq := transport.Request{
		Caller:    c.cc.Caller(),
		Service:   c.cc.Service(),
		Procedure: procedure,
		Encoding:  Encoding,
		Body:      bytes.NewReader(encoded),
	}

	ctx, err = call.WriteToRequest(ctx, &treq)
	if err != nil {
		return err
	}

	tres, err := c.cc.GetUnaryOutbound().Call(ctx, &treq)
	if err != nil {
		return err
	}
	defer tres.Body.Close()

	if _, err := call.ReadFromResponse(ctx, tres); err != nil {
		return err
	}

	dec := json.NewDecoder(tres.Body)
	if err := dec.Decode(responseOut); err != nil {
		return unmarshalError{Reason: err}
	}

	return nil
}
