// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrNotImplemented is wrapped by the error from Request when a
	// feature that is not supported is requested, such as WithFiles.
	ErrNotImplemented = errors.New("requisitor: not implemented")
	// ErrDataAndJSON is returned by Request when both WithData and
	// WithJSON are given.
	ErrDataAndJSON = errors.New(`requisitor: cannot specify both "data" and "json"`)
	// ErrInvalidCert is wrapped by the error reporting a client
	// certificate value of an unsupported type.
	ErrInvalidCert = errors.New("requisitor: invalid cert")
	// ErrInvalidCABundle is wrapped by the error reporting a CA bundle
	// that holds no PEM certificate.
	ErrInvalidCABundle = errors.New("requisitor: no certificates in CA bundle")
	// ErrUnknownCharset is wrapped by the error from Request when the
	// charset of a JSON request's Content-Type is not known.
	ErrUnknownCharset = errors.New("requisitor: unknown charset")
)

func urlErrorWrap(r *http.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(r.Method),
		URL: r.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
