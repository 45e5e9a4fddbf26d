// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gogama/requisitor/handler"
)

// ErrInvalidType is wrapped by the error from Validate when the value
// cannot be used as an authentication strategy.
var ErrInvalidType = errors.New("requisitor/auth: invalid type")

// A Strategy produces the authentication effect for a request to a
// given URL.
type Strategy interface {
	Apply(u *url.URL) (Effect, error)
}

// An Effect is what a Strategy contributes to a request: headers to set
// and handlers to add to the handler chain. Either may be empty.
type Effect struct {
	Header   map[string]string
	Handlers []handler.Handler
}

// Basic is HTTP Basic authentication. The credentials are sent with
// every request, without waiting for a challenge.
type Basic struct {
	User     string
	Password string
}

// Apply implements the Strategy interface.
func (b Basic) Apply(_ *url.URL) (Effect, error) {
	token := base64.StdEncoding.EncodeToString([]byte(b.User + ":" + b.Password))
	return Effect{
		Header: map[string]string{"Authorization": "Basic " + token},
	}, nil
}

// Digest is HTTP Digest authentication. The credentials are only used
// to answer a challenge from the host of the request URL.
type Digest struct {
	User     string
	Password string
}

// Apply implements the Strategy interface.
func (d Digest) Apply(u *url.URL) (Effect, error) {
	return Effect{
		Handlers: []handler.Handler{
			&handler.Digest{Host: trimEmptyPort(u.Host), User: d.User, Password: d.Password},
		},
	}, nil
}

// trimEmptyPort strips the empty port of "host:" as request plans do,
// so the bound host matches the host the request is sent to.
func trimEmptyPort(host string) string {
	if strings.LastIndex(host, ":") > strings.LastIndex(host, "]") {
		return strings.TrimSuffix(host, ":")
	}
	return host
}

// Validate converts v into a Strategy.
//
// A nil v yields a nil Strategy, meaning no authentication. A [2]string
// or a two-element []string is taken as a user and password for Basic
// authentication. A Strategy is returned as is.
func Validate(v interface{}) (Strategy, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case [2]string:
		return Basic{User: x[0], Password: x[1]}, nil
	case []string:
		if len(x) != 2 {
			return nil, fmt.Errorf("%w: need user and password, got %d values", ErrInvalidType, len(x))
		}
		return Basic{User: x[0], Password: x[1]}, nil
	case Strategy:
		return x, nil
	default:
		return nil, fmt.Errorf("%w: cannot be type %T", ErrInvalidType, v)
	}
}
