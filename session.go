// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/requisitor/auth"
	"github.com/gogama/requisitor/handler"
	"github.com/gogama/requisitor/header"
	"github.com/gogama/requisitor/request"
	"github.com/gogama/requisitor/response"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// A Session holds the defaults applied to every request it sends:
// headers, query parameters, cookies, authentication, TLS settings and
// extra handlers. Per-call Options override the defaults for a single
// request.
//
// Each request runs on its own transport and connection, so a Session
// holds no network state between requests other than its cookie jar.
//
// A Session is not safe for concurrent use by multiple goroutines. Its
// cookie jar is, so one jar may be shared by sessions used in parallel.
type Session struct {
	// Headers are sent with every request. Per-call headers given with
	// WithHeaders are merged over a copy. A nil Headers sends none.
	Headers *header.Header
	// Params are merged into the query string of every request.
	Params url.Values
	// Cookies stores cookies received and supplies cookies to send. A
	// nil jar disables cookie handling.
	Cookies http.CookieJar
	// Handlers are added to the end of the handler chain of every
	// request.
	Handlers []handler.Handler
	// UnixSocket, if not empty, is the path of a Unix-domain socket
	// every request is sent through.
	UnixSocket string
	// Verify selects how server certificates are verified.
	Verify Verify
	// Timeout is the default per-operation network timeout. Zero means
	// no timeout.
	Timeout time.Duration
	// MaxRedirects limits the redirects followed by one request. Zero
	// means handler.DefaultMaxRedirects.
	MaxRedirects int
	// Logger receives debug records about each dispatch. Nil discards
	// them.
	Logger *zerolog.Logger
	// Tracer creates the client span of each dispatch. Nil uses the
	// global tracer provider.
	Tracer trace.Tracer

	auth auth.Strategy
	cert *Cert
}

// NewSession returns a Session with empty headers and parameters, a
// fresh cookie jar, and certificate verification enabled.
func NewSession() *Session {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &Session{
		Headers: header.New(),
		Params:  url.Values{},
		Cookies: jar,
	}
}

// Auth returns the session authentication strategy, or nil.
func (s *Session) Auth() auth.Strategy {
	return s.auth
}

// SetAuth sets the session authentication. See auth.Validate for the
// accepted values. On error the session is unchanged.
func (s *Session) SetAuth(v interface{}) error {
	a, err := auth.Validate(v)
	if err != nil {
		return err
	}
	s.auth = a
	return nil
}

// Cert returns the session client certificate, or nil.
func (s *Session) Cert() *Cert {
	return s.cert
}

// SetCert sets the session client certificate. Parameter v may be nil,
// a Cert, a *Cert, a [2]string or a two-element []string. On error the
// session is unchanged.
func (s *Session) SetCert(v interface{}) error {
	c, err := validateCert(v)
	if err != nil {
		return err
	}
	s.cert = c
	return nil
}

// SetHeaders replaces the session headers with the normalized form of
// src, folding repeated names. See header.Normalize.
func (s *Session) SetHeaders(src interface{}) error {
	h, err := header.Normalize(src)
	if err != nil {
		return err
	}
	s.Headers = h
	return nil
}

// Request sends an HTTP request and returns the terminal response.
//
// A 2xx response is returned as is. A non-2xx response is first given
// to the handler chain, which may follow it with another request (a
// redirect, or an authentication retry), accept it as the result, or
// turn it into an error. Unresolved non-2xx responses produce an
// *response.HTTPError, which carries the response.
//
// Network errors are returned as *url.Error. Argument errors are
// returned before anything is sent.
func (s *Session) Request(ctx context.Context, method, rawURL string, opts ...Option) (*response.Response, error) {
	c := newCall(opts)
	if c.hasFiles {
		return nil, fmt.Errorf("%w: file uploads, use multipart.Prepare with WithData", ErrNotImplemented)
	}
	if c.hasData && c.hasJSON {
		return nil, ErrDataAndJSON
	}

	h := header.New()
	if s.Headers != nil {
		h = s.Headers.Copy()
	}
	if c.headers != nil {
		if err := h.Update(c.headers); err != nil {
			return nil, err
		}
	}
	params := overlay(s.Params, c.params)

	strategy := s.auth
	if c.hasAuth {
		var err error
		if strategy, err = auth.Validate(c.auth); err != nil {
			return nil, err
		}
	}
	cert := s.cert
	if c.hasCert {
		var err error
		if cert, err = validateCert(c.cert); err != nil {
			return nil, err
		}
	}
	jar := s.Cookies
	if c.hasCookies {
		jar = c.cookies
	}
	socket := s.UnixSocket
	if c.hasUnixSocket {
		socket = c.unixSocket
	}
	verify := s.Verify
	if c.hasVerify {
		verify = c.verify
	}
	timeout := s.Timeout
	if c.hasTimeout {
		timeout = c.timeout
	}

	body, err := request.BodyBytes(c.data)
	if err != nil {
		return nil, err
	}
	if c.hasJSON {
		if !h.Has("Content-Type") {
			h.Set("Content-Type", "application/json")
		}
		if body, err = encodeJSON(c.json, h.Param("Content-Type", "charset")); err != nil {
			return nil, err
		}
	} else if len(body) > 0 && !h.Has("Content-Type") {
		h.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	tlsConfig, err := verify.tlsConfig()
	if err != nil {
		return nil, err
	}
	clientAuth := &handler.ClientAuth{Config: tlsConfig}
	if cert != nil {
		clientAuth.CertFile, clientAuth.KeyFile = cert.CertFile, cert.KeyFile
	}
	chain := handler.NewChain(
		clientAuth,
		&handler.Redirect{Allow: c.allowRedirects, Max: s.MaxRedirects},
		handler.DefaultError{},
		&handler.Cookie{Jar: jar},
	)
	if socket != "" {
		unix := &handler.UnixSocket{Path: socket, Timeout: timeout}
		clientAuth.Dial = unix.Dial
		chain.PushBack(unix)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if strategy != nil {
		effect, err := strategy.Apply(u)
		if err != nil {
			return nil, err
		}
		if err = h.Update(effect.Header); err != nil {
			return nil, err
		}
		for _, ah := range effect.Handlers {
			chain.PushBack(ah)
		}
	}
	for _, sh := range s.Handlers {
		chain.PushBack(sh)
	}
	if err = h.Validate(); err != nil {
		return nil, err
	}

	target, err := MergeParams(rawURL, params)
	if err != nil {
		return nil, err
	}
	p, err := request.NewPlanWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	p.Header = h.HTTP()
	if host := h.Get("Host"); host != "" {
		p.Host = host
	}
	return s.dispatch(p, chain, timeout)
}

// encodeJSON marshals v and, if cs names a charset other than UTF-8,
// transcodes the JSON text to it.
func encodeJSON(v interface{}, cs string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	cs = strings.TrimSpace(cs)
	if cs == "" {
		return b, nil
	}
	enc, name := charset.Lookup(cs)
	if enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, cs)
	}
	if name == "utf-8" {
		return b, nil
	}
	return enc.NewEncoder().Bytes(b)
}
