// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package transient

import "syscall"

func socketMissing(_ syscall.Errno) bool {
	return false
}
