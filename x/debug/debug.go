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
	"html/template"
	"io"
	"net/http"

	"go.uber.org/zap"

	"go.uber.org/hyperbahn/circuit"
	"go.uber.org/hyperbahn/dispatch"
)

// _defaultTmpl is the default template used.
var _defaultTmpl = template.Must(template.New("tmpl").Parse(`
<html>
	<head>
	<title>/debug/hyperbahn</title>
	<style type="text/css">
		body {
			font-family: "Courier New", Courier, monospace;
		}
		table {
			color:#333333;
			border-width: 1px;
			border-color: #3A3A3A;
			border-collapse: collapse;
		}
		table th {
			border-width: 1px;
			padding: 8px;
			border-style: solid;
			border-color: #3A3A3A;
			background-color: #B3B3B3;
		}
		table td {
			border-width: 1px;
			padding: 8px;
			border-style: solid;
			border-color: #3A3A3A;
			background-color: #ffffff;
		}
		h1 {
			margin: 0;
		}
	</style>
	</head>
	<body>

<h1>Router {{.Self}}</h1>

<h2>Service channels</h2>
<table>
	<tr>
		<th>Service</th>
		<th>Mode</th>
		<th>Peers</th>
	</tr>
	{{range .Services}}
	<tr>
		<td>{{.Service}}</td>
		<td>{{.Mode}}</td>
		<td>{{range .Peers}}{{.}}<br/>{{end}}</td>
	</tr>
	{{end}}
</table>

<h2>Circuits</h2>
<table>
	<tr>
		<th>Service</th>
		<th>Caller</th>
		<th>Endpoint</th>
		<th>State</th>
		<th>Requests</th>
		<th>Errors</th>
	</tr>
	{{range .Circuits}}
	<tr>
		<td>{{.Key.Service}}</td>
		<td>{{.Key.Caller}}</td>
		<td>{{.Key.Endpoint}}</td>
		<td>{{.State}}</td>
		<td>{{.Requests}}</td>
		<td>{{.Errors}}</td>
	</tr>
	{{end}}
</table>

	</body>
</html>
`))

// NewHandler returns an http.HandlerFunc exposing dispatcher's service
// channels and circuits' breaker state, for mounting on a control endpoint.
func NewHandler(dispatcher *dispatch.Dispatcher, circuits *circuit.Registry, opts ...Option) http.HandlerFunc {
	return newHandler(dispatcher, circuits, opts...).handle
}

type handler struct {
	dispatcher *dispatch.Dispatcher
	circuits   *circuit.Registry
	logger     *zap.Logger
	tmpl       templateIface
}

func newHandler(dispatcher *dispatch.Dispatcher, circuits *circuit.Registry, opts ...Option) *handler {
	o := applyOptions(opts...)
	return &handler{
		dispatcher: dispatcher,
		circuits:   circuits,
		logger:     o.logger,
		tmpl:       o.tmpl,
	}
}

func (h *handler) handle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, h.data()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("failed executing debug template", zap.Error(err))
	}
}

func (h *handler) data() *tmplData {
	var circuits []circuit.Snapshot
	if h.circuits != nil {
		circuits = h.circuits.Snapshot()
	}
	return &tmplData{
		Self:     h.dispatcher.Self(),
		Services: h.dispatcher.Snapshot(),
		Circuits: circuits,
	}
}

type tmplData struct {
	Self     string
	Services []dispatch.Snapshot
	Circuits []circuit.Snapshot
}

// templateIface represents a template created from either the html/template
// or text/template packages.
type templateIface interface {
	Execute(io.Writer, interface{}) error
}
