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
	"context"
	"fmt"
	"reflect"

	"go.uber.org/hyperbahn/api/transport"
)

var (
	_contextType        = reflect.TypeOf((*context.Context)(nil)).Elem()
	_errorType          = reflect.TypeOf((*error)(nil)).Elem()
	_interfaceEmptyType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// Procedure builds the transport.Procedure for a single JSON handler.
// handler must have the signature
//
//	f(ctx context.Context, body $reqBody) ($resBody, error)
//
// where $reqBody and $resBody are a pointer to a struct, a
// map[string]interface{}, or interface{}.
func Procedure(name string, handler interface{}) []transport.Procedure {
	reqBodyType := verifySignature(name, reflect.TypeOf(handler))
	return []transport.Procedure{
		{
			Name:        name,
			HandlerSpec: transport.NewUnaryHandlerSpec(newJSONHandler(reqBodyType, handler)),
			Encoding:    Encoding,
		},
	}
}

func newJSONHandler(reqBodyType reflect.Type, handler interface{}) jsonHandler {
	var r requestReader
	switch {
	case reqBodyType == _interfaceEmptyType:
		r = ifaceEmptyReader{}
	case reqBodyType.Kind() == reflect.Map:
		r = mapReader{reqBodyType}
	default:
		r = structReader{reqBodyType.Elem()}
	}
	return jsonHandler{reader: r, handler: reflect.ValueOf(handler)}
}

// verifySignature checks that t matches the f(ctx, body) (resBody, error)
// shape Procedure requires and returns the request body type.
func verifySignature(n string, t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("handler for %q is not a function but a %v", n, t.Kind()))
	}
	if t.NumIn() != 2 {
		panic(fmt.Sprintf("expected handler for %q to have 2 arguments but it had %v", n, t.NumIn()))
	}
	if t.NumOut() != 2 {
		panic(fmt.Sprintf("expected handler for %q to have 2 results but it had %v", n, t.NumOut()))
	}
	if t.In(0) != _contextType {
		panic(fmt.Sprintf("the first argument of the handler for %q must be of type context.Context, and not: %v", n, t.In(0)))
	}
	if t.Out(1) != _errorType {
		panic(fmt.Sprintf("the second result of the handler for %q must be of type error, and not: %v", n, t.Out(1)))
	}

	reqBodyType := t.In(1)
	resBodyType := t.Out(0)

	if !isValidReqResType(reqBodyType) {
		panic(fmt.Sprintf(
			"the second argument of the handler for %q must be "+
				"a struct pointer, a map[string]interface{}, or interface{}, and not: %v",
			n, reqBodyType,
		))
	}
	if !isValidReqResType(resBodyType) {
		panic(fmt.Sprintf(
			"the first result of the handler for %q must be "+
				"a struct pointer, a map[string]interface{}, or interface{}, and not: %v",
			n, resBodyType,
		))
	}

	return reqBodyType
}

func isValidReqResType(t reflect.Type) bool {
	return (t == _interfaceEmptyType) ||
		(t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct) ||
		(t.Kind() == reflect.Map && t.Key().Kind() == reflect.String)
}
