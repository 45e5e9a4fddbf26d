// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package header provides Header, an ordered HTTP header collection with
case-insensitive names and one comma-joined value per name.

Header differs from http.Header in two ways that matter to request
building: insertion order is kept, so a serialized header is
reproducible; and repeated fields are folded rather than kept as a
list, which is how most servers read them anyway.

	h := header.New()
	h.Set("Accept", "text/html")
	h.Add("accept", "application/json") // "text/html, application/json"
*/
package header
