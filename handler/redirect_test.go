// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gogama/requisitor/request"
	"github.com/gogama/requisitor/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostRequest(t *testing.T, method string) *http.Request {
	p, err := request.NewPlan(method, "http://example.com/a/b", "payload")
	require.NoError(t, err)
	p.Header.Set("Content-Type", "text/plain")
	p.Header.Set("Content-Length", "7")
	p.Header.Set("X-Keep", "yes")
	return p.ToRequest()
}

func redirectResponse(code int, location string) *http.Response {
	h := http.Header{}
	if location != "" {
		h.Set("Location", location)
	}
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader("moved")),
	}
}

func TestRedirect_RedirectRequest(t *testing.T) {
	testCases := []struct {
		name        string
		method      string
		code        int
		wantMethod  string
		wantBody    bool
		wantContent bool
	}{
		{"301 POST becomes GET", "POST", 301, "GET", false, false},
		{"301 PUT stays PUT", "PUT", 301, "PUT", false, false},
		{"302 POST becomes GET", "POST", 302, "GET", false, false},
		{"302 HEAD stays HEAD", "HEAD", 302, "HEAD", false, false},
		{"303 POST becomes GET", "POST", 303, "GET", false, false},
		{"303 DELETE becomes GET", "DELETE", 303, "GET", false, false},
		{"303 HEAD stays HEAD", "HEAD", 303, "HEAD", false, false},
		{"307 preserves POST", "POST", 307, "POST", true, true},
		{"308 preserves PUT", "PUT", 308, "PUT", true, true},
	}
	h := &Redirect{Allow: true}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			req := newPostRequest(t, testCase.method)
			_, _ = io.ReadAll(req.Body)
			next, err := h.RedirectRequest(req, redirectResponse(testCase.code, "/new place"))
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, testCase.wantMethod, next.Method)
			assert.Equal(t, "http://example.com/new%20place", next.URL.String())
			assert.Equal(t, "yes", next.Header.Get("X-Keep"))
			if testCase.wantContent {
				assert.Equal(t, "text/plain", next.Header.Get("Content-Type"))
				assert.Equal(t, "7", next.Header.Get("Content-Length"))
			} else {
				assert.Empty(t, next.Header.Get("Content-Type"))
				assert.Empty(t, next.Header.Get("Content-Length"))
			}
			if testCase.wantBody {
				require.NotNil(t, next.Body)
				b, err := io.ReadAll(next.Body)
				require.NoError(t, err)
				assert.Equal(t, "payload", string(b))
				assert.Equal(t, int64(7), next.ContentLength)
			} else {
				assert.Nil(t, next.Body)
				assert.Nil(t, next.GetBody)
				assert.Equal(t, int64(0), next.ContentLength)
			}
			assert.Equal(t, "yes", req.Header.Get("X-Keep"))
			assert.Equal(t, "http://example.com/a/b", req.URL.String())
		})
	}
	t.Run("absolute location", func(t *testing.T) {
		req := newPostRequest(t, "GET")
		next, err := h.RedirectRequest(req, redirectResponse(302, "https://other.org/x?y=1"))
		require.NoError(t, err)
		assert.Equal(t, "https://other.org/x?y=1", next.URL.String())
	})
	t.Run("not allowed", func(t *testing.T) {
		req := newPostRequest(t, "GET")
		next, err := (&Redirect{}).RedirectRequest(req, redirectResponse(302, "/elsewhere"))
		assert.Nil(t, next)
		var httpErr *response.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, "http://example.com/elsewhere", httpErr.URL)
		assert.Equal(t, 302, httpErr.Code)
	})
	t.Run("unrecognized code", func(t *testing.T) {
		req := newPostRequest(t, "GET")
		next, err := h.RedirectRequest(req, redirectResponse(400, "/elsewhere"))
		assert.Nil(t, next)
		var httpErr *response.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, "http://example.com/a/b", httpErr.URL)
		assert.Equal(t, 400, httpErr.Code)
	})
	t.Run("unsupported scheme", func(t *testing.T) {
		req := newPostRequest(t, "GET")
		_, err := h.RedirectRequest(req, redirectResponse(301, "ftp://files.example.com/"))
		var httpErr *response.HTTPError
		assert.True(t, errors.As(err, &httpErr))
	})
}

func TestRedirect_Handle(t *testing.T) {
	t.Run("ignores other events", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(302, "/x")
		for _, evt := range Events() {
			if evt == Intercept {
				continue
			}
			require.NoError(t, (&Redirect{Allow: true}).Handle(evt, e))
			assert.False(t, e.Resolved())
		}
	})
	t.Run("follows", func(t *testing.T) {
		e := newExecution(t, "POST", "http://example.com/")
		e.Response = redirectResponse(303, "/next")
		require.NoError(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		require.NotNil(t, e.Next())
		assert.Equal(t, "GET", e.Next().Method)
		assert.Equal(t, "http://example.com/next", e.Next().URL.String())
		assert.Equal(t, 1, e.Redirects)
		assert.False(t, e.Final())
	})
	t.Run("disallowed is accepted", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(302, "/next")
		require.NoError(t, (&Redirect{}).Handle(Intercept, e))
		assert.True(t, e.Final())
		assert.Nil(t, e.Next())
		assert.Equal(t, 0, e.Redirects)
	})
	t.Run("limit reached is accepted", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(301, "/next")
		e.Redirects = 2
		require.NoError(t, (&Redirect{Allow: true, Max: 2}).Handle(Intercept, e))
		assert.True(t, e.Final())
	})
	t.Run("default limit", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(301, "/next")
		e.Redirects = DefaultMaxRedirects - 1
		require.NoError(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		assert.NotNil(t, e.Next())
		e.Reset(e.Next())
		e.Response = redirectResponse(301, "/again")
		require.NoError(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		assert.True(t, e.Final())
	})
	t.Run("unknown 3xx falls through", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(300, "/choices")
		require.NoError(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		assert.False(t, e.Resolved())
	})
	t.Run("missing location falls through", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(302, "")
		require.NoError(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		assert.False(t, e.Resolved())
	})
	t.Run("bad location is an error", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = redirectResponse(302, "http://[::1")
		assert.Error(t, (&Redirect{Allow: true}).Handle(Intercept, e))
		assert.False(t, e.Resolved())
	})
}

func TestDefaultError(t *testing.T) {
	e := newExecution(t, "GET", "http://example.com/missing")
	e.Response = &http.Response{
		StatusCode: 404,
		Status:     "404 Not Found",
		Header:     http.Header{"X-Why": {"gone"}},
		Body:       io.NopCloser(bytes.NewReader([]byte("nothing here"))),
		Request:    e.Request,
	}
	t.Run("ignores other events", func(t *testing.T) {
		assert.NoError(t, DefaultError{}.Handle(Intercept, e))
		assert.NoError(t, DefaultError{}.Handle(AfterReceive, e))
	})
	t.Run("Fallback", func(t *testing.T) {
		err := DefaultError{}.Handle(Fallback, e)
		var httpErr *response.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.EqualError(t, err, "HTTP Error 404: Not Found")
		assert.Equal(t, "http://example.com/missing", httpErr.URL)
		assert.Equal(t, "gone", httpErr.Header.Get("x-why"))
		assert.Same(t, e.Request, httpErr.Request)
		b, err := httpErr.Bytes()
		require.NoError(t, err)
		assert.Equal(t, "nothing here", string(b))
	})
}
