// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package response

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// An HTTPError reports a terminal response the dispatcher did not
// accept, for example a 404, or a redirect that could not be followed.
//
// HTTPError embeds the Response, so the status, headers and body of the
// failed response can be read exactly as for a successful one:
//
//	var httpErr *response.HTTPError
//	if errors.As(err, &httpErr) {
//		body, _ := httpErr.Bytes()
//		...
//	}
type HTTPError struct {
	*Response
	// URL is the URL the error relates to. For a redirect that was
	// refused it is the redirect target.
	URL string
	// Code is the HTTP status code.
	Code int
	// Msg is the reason phrase, e.g. "Not Found".
	Msg string
}

// NewHTTPError wraps r as an HTTPError for url.
func NewHTTPError(url string, r *http.Response) *HTTPError {
	return &HTTPError{
		Response: New(r),
		URL:      url,
		Code:     r.StatusCode,
		Msg:      reason(r),
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.Code, e.Msg)
}

func reason(r *http.Response) string {
	code := strconv.Itoa(r.StatusCode)
	if msg := strings.TrimSpace(strings.TrimPrefix(r.Status, code)); msg != "" {
		return msg
	}
	return http.StatusText(r.StatusCode)
}
