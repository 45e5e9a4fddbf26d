// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package multipart

// SniffLen is the number of leading bytes IsBinary inspects.
const SniffLen = 1024

var textBytes = func() (t [256]bool) {
	for _, b := range []byte{'\a', '\b', '\t', '\n', '\f', '\r', 0x1b} {
		t[b] = true
	}
	for b := 0x20; b < 0x100; b++ {
		t[b] = b != 0x7f
	}
	return
}()

// IsBinary reports whether the first SniffLen bytes of b contain a byte
// that does not occur in text: NUL and the other control characters
// except BEL, BS, TAB, LF, FF, CR and ESC, plus DEL.
func IsBinary(b []byte) bool {
	if len(b) > SniffLen {
		b = b[:SniffLen]
	}
	for _, c := range b {
		if !textBytes[c] {
			return true
		}
	}
	return false
}
