// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookie(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse("http://example.com/")
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc"}})
	h := &Cookie{Jar: jar}

	t.Run("BeforeSend adds jar cookies", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/page")
		require.NoError(t, h.Handle(BeforeSend, e))
		assert.Equal(t, "session=abc", e.Request.Header.Get("Cookie"))
	})
	t.Run("BeforeSend keeps explicit Cookie header", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/page")
		e.Plan.Header.Set("Cookie", "mine=1")
		e.Request.Header.Set("Cookie", "mine=1")
		require.NoError(t, h.Handle(BeforeSend, e))
		assert.Equal(t, "mine=1", e.Request.Header.Get("Cookie"))
	})
	t.Run("BeforeSend other host", func(t *testing.T) {
		e := newExecution(t, "GET", "http://other.org/")
		require.NoError(t, h.Handle(BeforeSend, e))
		assert.Empty(t, e.Request.Header.Get("Cookie"))
	})
	t.Run("AfterReceive stores cookies", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		e.Response = &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Set-Cookie": {"fresh=xyz; Path=/"}},
		}
		require.NoError(t, h.Handle(AfterReceive, e))
		names := map[string]string{}
		for _, c := range jar.Cookies(u) {
			names[c.Name] = c.Value
		}
		assert.Equal(t, map[string]string{"session": "abc", "fresh": "xyz"}, names)
	})
	t.Run("nil jar", func(t *testing.T) {
		e := newExecution(t, "GET", "http://example.com/")
		assert.NoError(t, (&Cookie{}).Handle(BeforeSend, e))
		assert.Empty(t, e.Request.Header.Get("Cookie"))
	})
}
