// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"net"
	"time"
)

// WithDeadline wraps conn so that every Read and Write must complete
// within d. A non-positive d returns conn unchanged.
func WithDeadline(conn net.Conn, d time.Duration) net.Conn {
	if d <= 0 {
		return conn
	}

	return &deadlineConn{Conn: conn, d: d}
}

type deadlineConn struct {
	net.Conn
	d time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.d)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.d)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
