// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gogama/requisitor/request"
	"github.com/gogama/requisitor/response"
)

// DefaultMaxRedirects is the number of redirects a Redirect handler
// with a zero Max follows before it stops following.
const DefaultMaxRedirects = 10

// Redirect is an Intercept handler that follows HTTP redirects.
//
// Redirect recognizes responses with status 301, 302, 303, 307 or 308
// that carry a Location header. Other 3xx responses are left for the
// Fallback handlers.
//
// When Allow is false, or when Max redirects have already been
// followed, the redirect response is accepted as the terminal response
// of the dispatch so the caller can inspect it.
type Redirect struct {
	// Allow enables following redirects.
	Allow bool
	// Max is the maximum number of redirects followed in one dispatch.
	// Zero means DefaultMaxRedirects.
	Max int
}

// Handle implements the Handler interface.
func (h *Redirect) Handle(evt Event, e *request.Execution) error {
	if evt != Intercept || e.Response == nil {
		return nil
	}
	if !isRedirect(e.Response.StatusCode) || e.Response.Header.Get("Location") == "" {
		return nil
	}

	limit := h.Max
	if limit <= 0 {
		limit = DefaultMaxRedirects
	}
	if e.Redirects >= limit {
		e.Logger.Debug().
			Int("redirects", e.Redirects).
			Str("url", e.Request.URL.String()).
			Msg("redirect limit reached")
		e.Accept()
		return nil
	}

	next, err := h.RedirectRequest(e.Request, e.Response)
	var httpErr *response.HTTPError
	if errors.As(err, &httpErr) {
		e.Accept()
		return nil
	} else if err != nil {
		return err
	}

	e.Redirects++
	e.Logger.Debug().
		Int("status", e.Response.StatusCode).
		Str("from", e.Request.URL.String()).
		Str("to", next.URL.String()).
		Str("method", next.Method).
		Msg("following redirect")
	e.Follow(next)
	return nil
}

// RedirectRequest returns the request to send in response to the
// redirect resp received for req.
//
// The returned error is an *response.HTTPError if redirects are not
// allowed, if resp does not have a redirect status code, or if the
// Location does not name an http or https URL.
//
// A 307 or 308 redirect preserves the method, body and headers of req.
// Any other redirect drops the body and the Content-Length and
// Content-Type headers. A 302 or 303 then changes the method to GET
// unless it is HEAD, and a 301 changes POST to GET.
func (h *Redirect) RedirectRequest(req *http.Request, resp *http.Response) (*http.Request, error) {
	location := strings.ReplaceAll(resp.Header.Get("Location"), " ", "%20")
	newURL, err := req.URL.Parse(location)
	if err != nil {
		return nil, err
	}

	if !h.Allow {
		return nil, response.NewHTTPError(newURL.String(), resp)
	}
	code := resp.StatusCode
	if !isRedirect(code) {
		return nil, response.NewHTTPError(req.URL.String(), resp)
	}
	if newURL.Scheme != "http" && newURL.Scheme != "https" {
		return nil, response.NewHTTPError(newURL.String(), resp)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	next := req.Clone(req.Context())
	next.URL = newURL
	next.Host = ""
	if code == http.StatusTemporaryRedirect || code == http.StatusPermanentRedirect {
		if req.GetBody != nil {
			if next.Body, err = req.GetBody(); err != nil {
				return nil, err
			}
		}
		return next, nil
	}

	next.Body = nil
	next.GetBody = nil
	next.ContentLength = 0
	next.Header.Del("Content-Length")
	next.Header.Del("Content-Type")
	switch {
	case code == http.StatusSeeOther && method != http.MethodHead:
		method = http.MethodGet
	case code == http.StatusFound && method != http.MethodHead:
		method = http.MethodGet
	case code == http.StatusMovedPermanently && method == http.MethodPost:
		method = http.MethodGet
	}
	next.Method = method
	return next, nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}
