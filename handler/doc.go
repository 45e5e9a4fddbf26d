// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package handler defines the handler chain run by a Session during a
dispatch, and provides the standard handlers.

A Chain runs its handlers in order for each Event. Transport-level
handlers such as ClientAuth and UnixSocket act on BeforeConnect, when
they may configure the dispatch's http.Transport. Handlers acting on
Intercept and Fallback decide what happens to a non-2xx response: follow
up with another request, accept the response as final, or fail with an
error.

The Session assembles a fresh chain for each request:

	ClientAuth, Redirect, DefaultError, Cookie, [UnixSocket], [auth handlers], [session handlers]

Custom handlers may be added to a Session. Any type implementing
Handler, or any function wrapped as a HandlerFunc, will do:

	logStatus := handler.HandlerFunc(func(evt handler.Event, e *request.Execution) error {
		if evt == handler.AfterReceive {
			log.Println(e.Request.URL, e.StatusCode())
		}
		return nil
	})
*/
package handler
