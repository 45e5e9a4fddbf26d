// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package requisitor provides a small HTTP client built around a Session:
a set of defaults (headers, query parameters, cookies, authentication,
TLS settings) applied to every request, which single calls may
override.

For one-off requests use the package-level helpers, which each create a
fresh Session:

	resp, err := requisitor.Get(ctx, "https://www.example.com")
	...
	text, err := resp.Text()

A Session keeps cookies between requests and carries defaults:

	s := requisitor.NewSession()
	s.Headers.Set("User-Agent", "my-tool/1.0")
	_ = s.SetAuth([2]string{"user", "secret"})
	resp, err := s.Post(ctx, "https://api.example.com/items", nil,
		requisitor.WithJSON(map[string]int{"count": 3}),
		requisitor.WithTimeout(10*time.Second))

A response with a status outside 2xx that is not followed as a redirect
is returned as an error of type *response.HTTPError. The error embeds
the Response, so its body may be read as usual:

	var httpErr *response.HTTPError
	if errors.As(err, &httpErr) {
		body, _ := httpErr.Bytes()
		...
	}

Requests go through a chain of handlers from package handler. Add
handlers to Session.Handlers to observe or change the dispatch, for
example to throttle requests:

	s.Handlers = append(s.Handlers, handler.NewThrottle(5, 1))

Sessions may also be built from a config file and the environment, see
LoadConfig and NewSessionFromConfig.
*/
package requisitor
