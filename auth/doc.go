// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package auth provides the authentication strategies a Session can
// apply to its requests: Basic, which sets the Authorization header up
// front, and Digest, which answers the server's challenge through a
// handler.
package auth
