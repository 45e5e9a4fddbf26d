// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	// ErrKeyNotFound is wrapped by the error returned from Pop when the
	// header name is absent.
	ErrKeyNotFound = errors.New("requisitor/header: key not found")
	// ErrInvalidSource is wrapped by errors from Update and Normalize
	// when the source has an unsupported shape.
	ErrInvalidSource = errors.New("requisitor/header: invalid source type")
	// ErrTooManySources is wrapped by the error from Update when more
	// than one positional source is given.
	ErrTooManySources = errors.New("requisitor/header: too many sources")
	// ErrInvalidField is wrapped by the error from Validate.
	ErrInvalidField = errors.New("requisitor/header: invalid field")
)

// A Pair is a single header name and value.
type Pair struct {
	Name  string
	Value string
}

// A Header is an insertion-ordered collection of HTTP header fields
// whose names are compared case-insensitively. Each name maps to a
// single value; repeated fields are folded into one comma-joined value.
//
// The zero value is not ready for use. Create Headers with New or
// Normalize.
type Header struct {
	entries []Pair
	index   map[string]int
}

// New returns an empty Header.
func New() *Header {
	return &Header{index: make(map[string]int)}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Len returns the number of distinct header names.
func (h *Header) Len() int {
	return len(h.entries)
}

// Keys returns the header names in insertion order, with the casing
// they were stored under.
func (h *Header) Keys() []string {
	keys := make([]string, len(h.entries))
	for i := range h.entries {
		keys[i] = h.entries[i].Name
	}
	return keys
}

// Pairs returns a copy of the header's name/value pairs in order.
func (h *Header) Pairs() []Pair {
	pairs := make([]Pair, len(h.entries))
	copy(pairs, h.entries)
	return pairs
}

// Lookup returns the value stored for name and whether it was present.
func (h *Header) Lookup(name string) (string, bool) {
	i, ok := h.index[key(name)]
	if !ok {
		return "", false
	}
	return h.entries[i].Value, true
}

// Get returns the value stored for name, or the empty string.
func (h *Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	_, ok := h.index[key(name)]
	return ok
}

// Set replaces any value stored for name with value. The field moves
// to the end of the insertion order.
func (h *Header) Set(name, value string) {
	h.Del(name)
	h.index[key(name)] = len(h.entries)
	h.entries = append(h.entries, Pair{Name: name, Value: value})
}

// Add appends value to any existing value for name, separated by a
// comma and a space.
func (h *Header) Add(name, value string) {
	if old, ok := h.Lookup(name); ok && old != "" {
		value = old + ", " + value
	}
	h.Set(name, value)
}

// Del removes name. It is a no-op if name is absent.
func (h *Header) Del(name string) {
	k := key(name)
	i, ok := h.index[k]
	if !ok {
		return
	}
	delete(h.index, k)
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	for j := i; j < len(h.entries); j++ {
		h.index[key(h.entries[j].Name)] = j
	}
}

// Pop removes name and returns its value. If name is absent, the
// returned error wraps ErrKeyNotFound.
func (h *Header) Pop(name string) (string, error) {
	v, ok := h.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	h.Del(name)
	return v, nil
}

// PopDefault removes name and returns its value, or def if name is
// absent.
func (h *Header) PopDefault(name, def string) string {
	v, err := h.Pop(name)
	if err != nil {
		return def
	}
	return v
}

// Copy returns an independent duplicate of h.
func (h *Header) Copy() *Header {
	c := &Header{
		entries: make([]Pair, len(h.entries)),
		index:   make(map[string]int, len(h.index)),
	}
	copy(c.entries, h.entries)
	for k, i := range h.index {
		c.index[k] = i
	}
	return c
}

// Update sets every field found in source, replacing existing values
// rather than appending to them.
//
// At most one source may be given. It must be a map[string]string, an
// http.Header, a *Header, a []Pair, or a [][2]string; anything else,
// including nil, wraps ErrInvalidSource. Plain maps are applied in
// sorted key order. Multi-valued http.Header fields are
// comma-joined.
func (h *Header) Update(sources ...interface{}) error {
	if len(sources) > 1 {
		return fmt.Errorf("%w: expected at most 1, got %d", ErrTooManySources, len(sources))
	}
	if len(sources) == 0 {
		return nil
	}
	pairs, err := pairsOf(sources[0])
	if err != nil {
		return err
	}
	for _, p := range pairs {
		h.Set(p.Name, p.Value)
	}
	return nil
}

// Param returns the named parameter of the structured value stored
// for name. For example Param("Content-Type", "charset") returns
// "utf-8" for "text/html; charset=utf-8". It returns the empty string
// if the field or the parameter is missing or unparseable.
func (h *Header) Param(name, param string) string {
	v, ok := h.Lookup(name)
	if !ok {
		return ""
	}
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return params[strings.ToLower(param)]
}

// Validate checks every field name and value for characters that may
// not be sent on the wire.
func (h *Header) Validate() error {
	for _, p := range h.entries {
		if !httpguts.ValidHeaderFieldName(p.Name) {
			return fmt.Errorf("%w: name %q", ErrInvalidField, p.Name)
		}
		if !httpguts.ValidHeaderFieldValue(p.Value) {
			return fmt.Errorf("%w: value for %q", ErrInvalidField, p.Name)
		}
	}
	return nil
}

// HTTP returns the header as a net/http header with canonical keys.
func (h *Header) HTTP() http.Header {
	hh := make(http.Header, len(h.entries))
	for _, p := range h.entries {
		hh.Set(p.Name, p.Value)
	}
	return hh
}

// String formats the header one "Name: value" line per field.
func (h *Header) String() string {
	var b strings.Builder
	for _, p := range h.entries {
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString("\r\n")
	}
	return b.String()
}

// Normalize builds a new Header from source, which may be any of the
// shapes accepted by Update. Repeated names are not lost: their values
// are comma-joined in the order first seen, under the first-seen name.
func Normalize(source interface{}) (*Header, error) {
	pairs, err := pairsOf(source)
	if err != nil {
		return nil, err
	}
	h := New()
	for _, p := range pairs {
		if i, ok := h.index[key(p.Name)]; ok {
			h.entries[i].Value += ", " + p.Value
			continue
		}
		h.index[key(p.Name)] = len(h.entries)
		h.entries = append(h.entries, p)
	}
	return h, nil
}

func pairsOf(source interface{}) ([]Pair, error) {
	switch x := source.(type) {
	case *Header:
		if x == nil {
			return nil, nil
		}
		return x.Pairs(), nil
	case []Pair:
		return x, nil
	case [][2]string:
		pairs := make([]Pair, len(x))
		for i := range x {
			pairs[i] = Pair{Name: x[i][0], Value: x[i][1]}
		}
		return pairs, nil
	case map[string]string:
		pairs := make([]Pair, 0, len(x))
		for name, value := range x {
			pairs = append(pairs, Pair{Name: name, Value: value})
		}
		sortPairs(pairs)
		return pairs, nil
	case http.Header:
		pairs := make([]Pair, 0, len(x))
		for name, values := range x {
			pairs = append(pairs, Pair{Name: name, Value: strings.Join(values, ", ")})
		}
		sortPairs(pairs)
		return pairs, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSource, source)
	}
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Name < pairs[j].Name
	})
}
