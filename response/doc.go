// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package response contains Response, the wrapper returned by every
successful request, and HTTPError, the error returned for responses the
dispatcher does not accept.

	r, err := session.Get(ctx, "https://example.com/api/items")
	...
	var items []Item
	err = r.JSON(&items)

A gzip-encoded body is decompressed transparently. Text decoding uses
the charset from Content-Type unless overridden with SetEncoding.
*/
package response
