// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeParams(t *testing.T) {
	testCases := []struct {
		name   string
		url    string
		params url.Values
		want   string
	}{
		{
			name:   "replace existing",
			url:    "http://foo.bar?a=b",
			params: url.Values{"a": {"c"}},
			want:   "http://foo.bar?a=c",
		},
		{
			name:   "add new",
			url:    "http://foo.bar?a=b",
			params: url.Values{"c": {"d"}},
			want:   "http://foo.bar?a=b&c=d",
		},
		{
			name:   "nil value keeps query",
			url:    "http://foo.bar/p?a=b&c=d",
			params: url.Values{"a": nil},
			want:   "http://foo.bar/p?a=b&c=d",
		},
		{
			name:   "empty slice keeps query",
			url:    "http://foo.bar/p?a=b",
			params: url.Values{"a": {}, "c": {"d"}},
			want:   "http://foo.bar/p?a=b&c=d",
		},
		{
			name:   "multiple values",
			url:    "http://foo.bar",
			params: url.Values{"k": {"1", "2"}},
			want:   "http://foo.bar?k=1&k=2",
		},
		{
			name:   "blank value kept",
			url:    "http://foo.bar",
			params: url.Values{"k": {""}},
			want:   "http://foo.bar?k=",
		},
		{
			name:   "sorted and escaped",
			url:    "http://foo.bar/?z=1",
			params: url.Values{"b": {"x y"}, "a": {"&"}},
			want:   "http://foo.bar/?a=%26&b=x+y&z=1",
		},
		{
			name: "no params leaves URL alone",
			url:  "http://foo.bar/?z=1&a=2#frag",
			want: "http://foo.bar/?z=1&a=2#frag",
		},
		{
			name:   "fragment kept",
			url:    "http://foo.bar/#frag",
			params: url.Values{"a": {"1"}},
			want:   "http://foo.bar/?a=1#frag",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := MergeParams(testCase.url, testCase.params)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
	t.Run("invalid URL", func(t *testing.T) {
		_, err := MergeParams("http://[::1", url.Values{"a": {"1"}})
		assert.Error(t, err)
	})
	t.Run("invalid query", func(t *testing.T) {
		_, err := MergeParams("http://foo.bar?a=%zz", url.Values{"a": {"1"}})
		assert.Error(t, err)
	})
}

func TestOverlay(t *testing.T) {
	base := url.Values{"a": {"1"}, "b": {"2"}}
	merged := overlay(base, url.Values{"b": {"3"}, "a": nil, "c": {}})
	assert.Equal(t, url.Values{"b": {"3"}}, merged)
	assert.Equal(t, url.Values{"a": {"1"}, "b": {"2"}}, base)
	assert.Empty(t, overlay(nil, nil))
}
