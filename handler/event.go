// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

// An Event identifies the point in a dispatch at which a Chain runs its
// handlers.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// dispatch starts.
	//
	// When the dispatcher fires BeforeExecutionStart, the execution is
	// non-nil but only its plan, timeout and logger have been set.
	BeforeExecutionStart Event = iota
	// BeforeConnect identifies the event that occurs once per dispatch,
	// after the transport has been created but before any connection
	// is opened.
	//
	// BeforeConnect handlers configure the execution's Transport, for
	// example to install TLS client certificates or a custom dialer.
	// Changes to the transport after BeforeConnect have undefined
	// effect.
	BeforeConnect
	// BeforeSend identifies the event that occurs before each HTTP
	// request is sent, including follow-up requests produced by
	// redirects and authentication retries.
	//
	// BeforeSend handlers may modify the execution's Request. They
	// should clone reference fields before changing them.
	BeforeSend
	// AfterReceive identifies the event that occurs after each HTTP
	// request has produced a response, regardless of status code.
	//
	// AfterReceive never fires if sending the request failed.
	AfterReceive
	// Intercept identifies the event that occurs after a response with
	// a non-2xx status code is received.
	//
	// An Intercept handler that recognizes the response resolves the
	// execution, either by calling Follow with a follow-up request, by
	// calling Accept to make the response terminal, or by returning an
	// error. Once the execution is resolved, later Intercept handlers
	// do not run.
	Intercept
	// Fallback identifies the event that occurs when no Intercept
	// handler resolved a non-2xx response.
	//
	// Fallback handlers resolve the execution the same way Intercept
	// handlers do. If nothing resolves it, the response is returned as
	// is.
	Fallback
	// AfterExecutionEnd identifies the event that occurs after the
	// dispatch ends.
	//
	// When the dispatcher fires AfterExecutionEnd, the execution's end
	// time is set and either its Response or its Err is the outcome of
	// the dispatch.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeConnect",
	"BeforeSend",
	"AfterReceive",
	"Intercept",
	"Fallback",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in a
// dispatch, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeConnect,
		BeforeSend,
		AfterReceive,
		Intercept,
		Fallback,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
