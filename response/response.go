// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package response

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gogama/requisitor/header"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	// ErrUnknownEncoding is wrapped by the error from Text when the
	// response encoding names no known character set.
	ErrUnknownEncoding = errors.New("requisitor/response: unknown encoding")
	// ErrInvalidJSON is wrapped by the error from Get when the body is
	// not valid JSON.
	ErrInvalidJSON = errors.New("requisitor/response: invalid JSON")
)

// A Response wraps a received HTTP response and lazily materializes its
// body as bytes, text, or JSON.
//
// The body stream is read at most once: the first call to Bytes, Text,
// JSON or Get reads it to the end, closes it, and caches the result.
// Response deliberately does not implement io.Reader, so a Response
// cannot be handed to code that would consume the stream behind the
// cache's back. Use Raw for direct stream access.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int
	// Status is the status line text, e.g. "200 OK".
	Status string
	// Proto is the protocol version, e.g. "HTTP/1.1".
	Proto string
	// Header holds the response header fields, with repeated fields
	// folded into one comma-joined value.
	Header *header.Header
	// Request is the request that produced this response. After
	// redirects it is the last request sent.
	Request *http.Request

	raw      io.ReadCloser
	encoding string
	body     []byte
	read     bool
	readErr  error
}

// New wraps r. If r carries "Content-Encoding: gzip" the body stream is
// transparently decompressed.
func New(r *http.Response) *Response {
	h, _ := header.Normalize(r.Header)
	raw := r.Body
	if raw == nil {
		raw = http.NoBody
	}
	if strings.EqualFold(strings.TrimSpace(h.Get("Content-Encoding")), "gzip") {
		raw = &gzipBody{src: raw}
	}
	return &Response{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Proto:      r.Proto,
		Header:     h,
		Request:    r.Request,
		raw:        raw,
	}
}

// Raw returns the underlying body stream. Reading from it directly
// bypasses the cache used by Bytes.
func (r *Response) Raw() io.ReadCloser {
	return r.raw
}

// Close closes the body stream without reading it.
func (r *Response) Close() error {
	return r.raw.Close()
}

// Encoding returns the character encoding used by Text: the value set
// with SetEncoding if any, otherwise the charset parameter of the
// Content-Type header, otherwise the empty string.
func (r *Response) Encoding() string {
	if r.encoding != "" {
		return r.encoding
	}
	return r.Header.Param("Content-Type", "charset")
}

// SetEncoding overrides the encoding reported by the response.
func (r *Response) SetEncoding(enc string) {
	r.encoding = enc
}

// Bytes reads the whole body on first call and returns the cached
// content thereafter.
func (r *Response) Bytes() ([]byte, error) {
	if r.read {
		return r.body, r.readErr
	}
	r.read = true
	r.body, r.readErr = io.ReadAll(r.raw)
	if err := r.raw.Close(); r.readErr == nil && err != nil {
		r.readErr = err
	}
	return r.body, r.readErr
}

// Text returns the body decoded using Encoding, or UTF-8 if the
// encoding is empty.
func (r *Response) Text() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	enc, err := lookupEncoding(r.Encoding())
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(b), nil
	}
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// JSON decodes the body text as JSON into v.
func (r *Response) JSON(v interface{}) error {
	s, err := r.Text()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(s), v)
}

// Get looks up a value in a JSON body using a gjson path, for example
// "items.0.name". A missing path yields a Result whose Exists method
// returns false.
func (r *Response) Get(path string) (gjson.Result, error) {
	s, err := r.Text()
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(s) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.Get(s, path), nil
}

// lookupEncoding returns nil for UTF-8 and the empty name, which need
// no decoding.
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, canonical := charset.Lookup(name)
	if enc == nil {
		var err error
		enc, err = ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
		}
		canonical, _ = ianaindex.IANA.Name(enc)
	}
	if strings.EqualFold(canonical, "utf-8") {
		return nil, nil
	}
	return enc, nil
}

// gzipBody buffers the whole compressed payload before decoding, so
// that a truncated or invalid stream fails on the first read rather
// than part way through.
type gzipBody struct {
	src io.ReadCloser
	zr  io.Reader
	err error
}

func (g *gzipBody) Read(p []byte) (int, error) {
	if g.zr == nil && g.err == nil {
		g.init()
	}
	if g.err != nil {
		return 0, g.err
	}
	return g.zr.Read(p)
}

func (g *gzipBody) init() {
	buf, err := io.ReadAll(g.src)
	if err != nil {
		g.err = err
		return
	}
	if len(buf) == 0 {
		g.zr = bytes.NewReader(nil)
		return
	}
	zr, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		g.err = err
		return
	}
	g.zr = zr
}

func (g *gzipBody) Close() error {
	return g.src.Close()
}
