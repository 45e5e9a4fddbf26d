// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"net/http"

	"github.com/gogama/requisitor/request"
)

// Cookie is a handler that attaches cookies from Jar to outgoing
// requests and stores cookies received in responses back into Jar.
//
// A Cookie header set explicitly on the plan wins: jar cookies are not
// added to a request whose plan already carries one.
type Cookie struct {
	Jar http.CookieJar
}

// Handle implements the Handler interface.
func (h *Cookie) Handle(evt Event, e *request.Execution) error {
	if h.Jar == nil {
		return nil
	}

	switch evt {
	case BeforeSend:
		if e.Plan.Header.Get("Cookie") != "" {
			return nil
		}
		e.Request.Header.Del("Cookie")
		for _, c := range h.Jar.Cookies(e.Request.URL) {
			e.Request.AddCookie(c)
		}
	case AfterReceive:
		if e.Response == nil {
			return nil
		}
		if cookies := e.Response.Cookies(); len(cookies) > 0 {
			h.Jar.SetCookies(e.Request.URL, cookies)
		}
	}
	return nil
}
