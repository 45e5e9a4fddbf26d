// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"github.com/gogama/requisitor/request"
	"github.com/gogama/requisitor/response"
)

// DefaultError is a Fallback handler that turns any unresolved non-2xx
// response into an *response.HTTPError. The error carries the response,
// so its status, headers and body remain readable.
type DefaultError struct{}

// Handle implements the Handler interface.
func (DefaultError) Handle(evt Event, e *request.Execution) error {
	if evt != Fallback || e.Response == nil {
		return nil
	}

	return response.NewHTTPError(e.Request.URL.String(), e.Response)
}
