// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/requisitor/transient"
	"github.com/rs/zerolog"
)

// An Execution represents the state of a single Plan dispatch.
//
// The dispatcher creates an Execution for each request and hands it to
// every handler in the chain as the dispatch progresses. Handlers
// configure Transport before any connection is opened, may adjust
// Request before it is sent, and resolve a non-2xx Response through
// Follow, Accept, or by returning an error.
//
// Handlers may store arbitrary data on an Execution using SetValue and
// read it back using Value.
type Execution struct {
	// Plan specifies the request being dispatched. It is never nil.
	Plan *Plan

	// Start is the start time of the dispatch.
	Start time.Time

	// End is the end time of the dispatch. It contains the zero value
	// until the dispatch ends.
	End time.Time

	// Transport is the transport used for every request in this
	// dispatch. It is created fresh for each dispatch and may be
	// configured by handlers during the BeforeConnect event.
	Transport *http.Transport

	// Timeout is the per-operation network timeout in effect, or zero
	// for no timeout.
	Timeout time.Duration

	// Redirects counts the redirects followed so far.
	Redirects int

	// Request is the HTTP request about to be sent, or most recently
	// sent.
	Request *http.Request

	// Response is the HTTP response to Request. It is nil until a
	// response is received, and nil if sending failed.
	Response *http.Response

	// Err is the error that ended the dispatch, if any.
	Err error

	// Logger is the logger handlers should write to. Its zero value
	// discards everything.
	Logger zerolog.Logger

	next  *http.Request
	final bool
	data  context.Context
}

// Follow resolves the current response by asking the dispatcher to
// send next. The current response body is discarded.
func (e *Execution) Follow(next *http.Request) {
	e.next = next
}

// Accept resolves the current response by making it the terminal
// response of the dispatch, regardless of its status code.
func (e *Execution) Accept() {
	e.final = true
}

// Next returns the follow-up request set by Follow, if any.
func (e *Execution) Next() *http.Request {
	return e.next
}

// Final reports whether Accept was called for the current response.
func (e *Execution) Final() bool {
	return e.final
}

// Resolved reports whether a handler has decided what to do with the
// current response.
func (e *Execution) Resolved() bool {
	return e.next != nil || e.final
}

// Reset clears the resolution state ahead of a new request.
func (e *Execution) Reset(r *http.Request) {
	e.Request = r
	e.Response = nil
	e.next = nil
	e.final = false
}

// StatusCode returns the status code of the current HTTP response, or
// 0 if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the current HTTP response headers, or the nil header
// if there is no response.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the dispatch.
//
// If the dispatch has not yet started, the duration is zero. If it has
// ended, the duration returned is End minus Start. Otherwise, it is
// the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the dispatch has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the dispatch has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// TimedOut indicates whether Err is a network timeout.
func (e *Execution) TimedOut() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows handlers to store arbitrary data in the execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
