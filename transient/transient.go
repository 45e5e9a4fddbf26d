// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize.
//
// The category Not means the error is not transient, or in other words
// that repeating the request is very unlikely to succeed. All other
// categories indicate some prospect of success on a later attempt.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout, for example the
	// per-operation timeout given to a request expired.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED. A service that
	// is restarting typically refuses connections for a short while.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection, and corresponds to the POSIX error code ECONNRESET.
	ConnReset
	// SocketMissing indicates that a Unix-domain socket path did not
	// exist or was not a socket when dialed. A local daemon that has not
	// yet created its socket produces this category.
	//
	// SocketMissing is only reported on Unix platforms.
	SocketMissing
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"SocketMissing",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of the given error. A nil
// error, and an error that is not transient, both produce Not.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. It never consults a Temporary() function, as the
// semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch {
		case errno == syscall.ECONNRESET:
			return ConnReset
		case errno == syscall.ECONNREFUSED:
			return ConnRefused
		case socketMissing(errno):
			return SocketMissing
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
