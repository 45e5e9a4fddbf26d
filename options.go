// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"net/http"
	"net/url"
	"time"
)

// An Option overrides a Session default, or sets a request property,
// for a single call to Request.
//
// An option that is not given leaves the session default in effect.
// An option given with a nil or zero argument is an explicit override:
// WithAuth(nil), for example, sends the request without the session's
// authentication.
type Option func(*call)

type call struct {
	params         url.Values
	data           interface{}
	hasData        bool
	headers        interface{}
	cookies        http.CookieJar
	hasCookies     bool
	files          interface{}
	hasFiles       bool
	auth           interface{}
	hasAuth        bool
	timeout        time.Duration
	hasTimeout     bool
	allowRedirects bool
	verify         Verify
	hasVerify      bool
	cert           interface{}
	hasCert        bool
	json           interface{}
	hasJSON        bool
	unixSocket     string
	hasUnixSocket  bool
}

func newCall(opts []Option) *call {
	c := &call{allowRedirects: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithParams merges params into the session's default query parameters
// for this call. See MergeParams.
func WithParams(params url.Values) Option {
	return func(c *call) { c.params = params }
}

// WithData sets the request body. Parameter data may be any type
// accepted by request.BodyBytes: nil, string, []byte, url.Values,
// io.Reader, or io.ReadCloser.
//
// A non-empty body sent without a Content-Type header is labeled
// application/x-www-form-urlencoded.
func WithData(data interface{}) Option {
	return func(c *call) {
		c.data = data
		c.hasData = true
	}
}

// WithHeaders overlays headers on a copy of the session headers for
// this call. Parameter headers may be any source accepted by
// header.Header.Update. Nil adds nothing.
func WithHeaders(headers interface{}) Option {
	return func(c *call) { c.headers = headers }
}

// WithCookies replaces the session cookie jar for this call. A nil jar
// disables cookie handling.
func WithCookies(jar http.CookieJar) Option {
	return func(c *call) {
		c.cookies = jar
		c.hasCookies = true
	}
}

// WithFiles is reserved for file uploads. Request always fails with
// ErrNotImplemented when it is given; build multipart bodies with
// multipart.Prepare and WithData instead.
func WithFiles(files interface{}) Option {
	return func(c *call) {
		c.files = files
		c.hasFiles = true
	}
}

// WithAuth replaces the session authentication for this call. See
// auth.Validate for the accepted values.
func WithAuth(v interface{}) Option {
	return func(c *call) {
		c.auth = v
		c.hasAuth = true
	}
}

// WithTimeout bounds each blocking network operation of this call:
// connecting, the TLS handshake, and every read and write. Zero means
// no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *call) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithAllowRedirects enables or disables following redirects. When
// disabled, a redirect response is returned to the caller as is.
// Redirects are followed by default.
func WithAllowRedirects(allow bool) Option {
	return func(c *call) { c.allowRedirects = allow }
}

// WithVerify replaces the session's TLS verification setting.
func WithVerify(v Verify) Option {
	return func(c *call) {
		c.verify = v
		c.hasVerify = true
	}
}

// WithCert replaces the session client certificate. Parameter v may be
// nil, a Cert, a *Cert, a [2]string or a two-element []string holding
// the certificate and key file paths.
func WithCert(v interface{}) Option {
	return func(c *call) {
		c.cert = v
		c.hasCert = true
	}
}

// WithJSON sets the request body to the JSON encoding of v. Unless a
// Content-Type header is given, the request is labeled
// application/json. If the Content-Type header names a charset, the
// JSON text is encoded in that charset.
func WithJSON(v interface{}) Option {
	return func(c *call) {
		c.json = v
		c.hasJSON = true
	}
}

// WithUnixSocket replaces the session Unix-domain socket path. An
// empty path connects over the network as usual.
func WithUnixSocket(path string) Option {
	return func(c *call) {
		c.unixSocket = path
		c.hasUnixSocket = true
	}
}
