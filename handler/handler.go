// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"github.com/gogama/requisitor/request"
)

// A Handler handles the occurrence of an event during a dispatch.
//
// A Handler ignores events it has no interest in by returning nil. A
// non-nil error ends the dispatch with that error.
type Handler interface {
	Handle(Event, *request.Execution) error
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Execution) error

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) error {
	return f(evt, e)
}

// A Chain is an ordered list of handlers. Every handler in the chain
// sees every event, in the order the handlers were added.
type Chain struct {
	handlers []Handler
}

// NewChain returns a chain containing hs, in order. It panics if any
// handler is nil.
func NewChain(hs ...Handler) *Chain {
	c := &Chain{}
	for _, h := range hs {
		c.PushBack(h)
	}
	return c
}

// PushBack adds a handler to the back of the chain.
func (c *Chain) PushBack(h Handler) {
	if h == nil {
		panic("requisitor/handler: nil handler")
	}

	c.handlers = append(c.handlers, h)
}

// Len returns the number of handlers in the chain.
func (c *Chain) Len() int {
	return len(c.handlers)
}

// Run runs every handler in the chain for evt, stopping at the first
// error. For the Intercept and Fallback events it also stops as soon
// as a handler resolves the execution.
func (c *Chain) Run(evt Event, e *request.Execution) error {
	resolving := evt == Intercept || evt == Fallback
	for _, h := range c.handlers {
		if err := h.Handle(evt, e); err != nil {
			return err
		}
		if resolving && e.Resolved() {
			break
		}
	}
	return nil
}
