// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"net/url"
)

// MergeParams returns rawURL with params merged into its query string.
//
// A key in params replaces every value the query already has for that
// key. A key whose value is nil or empty is skipped, so the query keeps
// its own values for it. Keys not named in params are kept. The resulting query is
// sorted by key. If params is empty, rawURL is returned unchanged.
func MergeParams(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if len(params) == 0 {
		return rawURL, nil
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", err
	}
	for k, vs := range params {
		if len(vs) == 0 {
			continue
		}
		q[k] = append([]string(nil), vs...)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// overlay returns a copy of base with every key of top replacing the
// same key of base. A key whose value in top is nil or empty is removed
// from the copy.
func overlay(base, top url.Values) url.Values {
	merged := make(url.Values, len(base)+len(top))
	for k, vs := range base {
		merged[k] = vs
	}
	for k, vs := range top {
		if len(vs) == 0 {
			delete(merged, k)
			continue
		}
		merged[k] = vs
	}
	return merged
}
