// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package transient

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func socketMissing(errno syscall.Errno) bool {
	return errno == unix.ENOENT || errno == unix.ENOTSOCK
}
