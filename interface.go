// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"context"
	"net/http"

	"github.com/gogama/requisitor/response"
)

// Requester is the interface that wraps the Request method and the
// method-fixed helpers built on it. Session implements Requester, and
// any other implementation must behave substantially the same as
// Session.
type Requester interface {
	Request(ctx context.Context, method, url string, opts ...Option) (*response.Response, error)
	Get(ctx context.Context, url string, opts ...Option) (*response.Response, error)
	Options(ctx context.Context, url string, opts ...Option) (*response.Response, error)
	Head(ctx context.Context, url string, opts ...Option) (*response.Response, error)
	Post(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error)
	Put(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error)
	Patch(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error)
	Delete(ctx context.Context, url string, opts ...Option) (*response.Response, error)
}

// Get sends a GET request. See Request.
func (s *Session) Get(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodGet, url, opts...)
}

// Options sends an OPTIONS request. See Request.
func (s *Session) Options(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodOptions, url, opts...)
}

// Head sends a HEAD request. See Request.
func (s *Session) Head(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodHead, url, opts...)
}

// Post sends a POST request with body data, which may be nil. See
// Request and WithData.
func (s *Session) Post(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodPost, url, withData(data, opts)...)
}

// Put sends a PUT request with body data, which may be nil. See
// Request and WithData.
func (s *Session) Put(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodPut, url, withData(data, opts)...)
}

// Patch sends a PATCH request with body data, which may be nil. See
// Request and WithData.
func (s *Session) Patch(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodPatch, url, withData(data, opts)...)
}

// Delete sends a DELETE request. See Request.
func (s *Session) Delete(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return s.Request(ctx, http.MethodDelete, url, opts...)
}

func withData(data interface{}, opts []Option) []Option {
	if data == nil {
		return opts
	}
	return append([]Option{WithData(data)}, opts...)
}

// Get sends a GET request using a new Session.
func Get(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return NewSession().Get(ctx, url, opts...)
}

// Options sends an OPTIONS request using a new Session.
func Options(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return NewSession().Options(ctx, url, opts...)
}

// Head sends a HEAD request using a new Session.
func Head(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return NewSession().Head(ctx, url, opts...)
}

// Post sends a POST request using a new Session.
func Post(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return NewSession().Post(ctx, url, data, opts...)
}

// Put sends a PUT request using a new Session.
func Put(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return NewSession().Put(ctx, url, data, opts...)
}

// Patch sends a PATCH request using a new Session.
func Patch(ctx context.Context, url string, data interface{}, opts ...Option) (*response.Response, error) {
	return NewSession().Patch(ctx, url, data, opts...)
}

// Delete sends a DELETE request using a new Session.
func Delete(ctx context.Context, url string, opts ...Option) (*response.Response, error) {
	return NewSession().Delete(ctx, url, opts...)
}
