// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package multipart builds multipart/form-data request bodies.

Prepare takes a map of field names to values and returns the
Content-Type header value, including the boundary, along with the
encoded body:

	contentType, body, err := multipart.Prepare(map[string]interface{}{
		"comment": "looks good",
		"upload": multipart.Field{File: "/tmp/report.pdf"},
		"notes": multipart.Field{Content: "inline text", File: "notes.txt"},
	})
	...
	r, err := session.Post(ctx, url,
		requisitor.WithData(body),
		requisitor.WithHeaders(map[string]string{"Content-Type": contentType}))

Fields are written in sorted name order. Content that looks binary is
base64 encoded; text is written as is.
*/
package multipart
