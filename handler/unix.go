// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gogama/requisitor/request"
)

// A SocketError reports a failure to connect to a Unix-domain socket.
type SocketError struct {
	Path string
	Err  error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("requisitor/handler: invalid socket file (%s): %v", e.Path, e.Err)
}

// Unwrap returns the underlying dial error.
func (e *SocketError) Unwrap() error {
	return e.Err
}

// UnixSocket is a BeforeConnect handler that routes every plain HTTP
// connection of the dispatch through the Unix-domain socket at Path.
// The host part of the request URL is still sent in the Host header
// but is not resolved, and proxies are never used.
type UnixSocket struct {
	Path string
	// Timeout bounds the connect and every subsequent read and write
	// on the connection. Zero means no timeout.
	Timeout time.Duration
}

// Handle implements the Handler interface.
func (h *UnixSocket) Handle(evt Event, e *request.Execution) error {
	if evt != BeforeConnect || e.Transport == nil {
		return nil
	}

	e.Transport.DialContext = h.Dial
	e.Transport.Proxy = nil
	return nil
}

// Dial connects to the socket, ignoring network and addr. It has the
// signature of http.Transport's DialContext.
func (h *UnixSocket) Dial(ctx context.Context, _, _ string) (net.Conn, error) {
	d := net.Dialer{Timeout: h.Timeout}
	conn, err := d.DialContext(ctx, "unix", h.Path)
	if err != nil {
		return nil, &SocketError{Path: h.Path, Err: err}
	}
	return WithDeadline(conn, h.Timeout), nil
}
