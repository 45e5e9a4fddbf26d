// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"strings"

	"github.com/gogama/requisitor/request"
)

type digestKey struct{}

// Digest is an Intercept handler that answers an HTTP Digest
// authentication challenge (RFC 7616).
//
// Digest handles a 401 response carrying a "WWW-Authenticate: Digest"
// challenge when the request host equals Host. It retries the request
// once with a computed Authorization header. If the retry is rejected
// too, the 401 is left for the Fallback handlers.
//
// Algorithms MD5 and SHA-256 are supported, with or without qop
// "auth". Challenges requiring anything else are ignored.
type Digest struct {
	// Host is the URL authority (host, with port if any) the
	// credentials are valid for.
	Host     string
	User     string
	Password string
}

// Handle implements the Handler interface.
func (h *Digest) Handle(evt Event, e *request.Execution) error {
	if evt != Intercept || e.Response == nil || e.Response.StatusCode != http.StatusUnauthorized {
		return nil
	}
	if e.Request.URL.Host != h.Host || e.Value(digestKey{}) != nil {
		return nil
	}

	challenge, ok := findDigestChallenge(e.Response.Header.Values("WWW-Authenticate"))
	if !ok {
		return nil
	}
	authorization, ok, err := h.authorize(challenge, e.Request)
	if err != nil || !ok {
		return err
	}

	next := e.Request.Clone(e.Request.Context())
	if e.Request.GetBody != nil {
		if next.Body, err = e.Request.GetBody(); err != nil {
			return err
		}
	}
	next.Header.Set("Authorization", authorization)
	e.SetValue(digestKey{}, true)
	e.Logger.Debug().
		Str("url", e.Request.URL.String()).
		Str("realm", challenge["realm"]).
		Msg("answering digest challenge")
	e.Follow(next)
	return nil
}

func (h *Digest) authorize(c map[string]string, r *http.Request) (string, bool, error) {
	var newHash func() hash.Hash
	algorithm := c["algorithm"]
	switch strings.ToUpper(algorithm) {
	case "", "MD5":
		newHash = md5.New
	case "SHA-256":
		newHash = sha256.New
	default:
		return "", false, nil
	}
	digest := func(s string) string {
		hh := newHash()
		_, _ = io.WriteString(hh, s)
		return hex.EncodeToString(hh.Sum(nil))
	}

	var qop string
	if offered, ok := c["qop"]; ok {
		for _, q := range strings.Split(offered, ",") {
			if strings.TrimSpace(q) == "auth" {
				qop = "auth"
				break
			}
		}
		if qop == "" {
			return "", false, nil
		}
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	uri := r.URL.RequestURI()
	realm, nonce := c["realm"], c["nonce"]
	ha1 := digest(h.User + ":" + realm + ":" + h.Password)
	ha2 := digest(method + ":" + uri)

	parts := []string{
		fmt.Sprintf(`username="%s"`, h.User),
		fmt.Sprintf(`realm="%s"`, realm),
		fmt.Sprintf(`nonce="%s"`, nonce),
		fmt.Sprintf(`uri="%s"`, uri),
	}
	if qop == "" {
		parts = append(parts, fmt.Sprintf(`response="%s"`, digest(ha1+":"+nonce+":"+ha2)))
	} else {
		cnonce, err := newCnonce()
		if err != nil {
			return "", false, err
		}
		const nc = "00000001"
		response := digest(strings.Join([]string{ha1, nonce, nc, cnonce, qop, ha2}, ":"))
		parts = append(parts,
			fmt.Sprintf(`response="%s"`, response),
			"qop="+qop,
			"nc="+nc,
			fmt.Sprintf(`cnonce="%s"`, cnonce),
		)
	}
	if algorithm != "" {
		parts = append(parts, "algorithm="+algorithm)
	}
	if opaque, ok := c["opaque"]; ok {
		parts = append(parts, fmt.Sprintf(`opaque="%s"`, opaque))
	}
	return "Digest " + strings.Join(parts, ", "), true, nil
}

func newCnonce() (string, error) {
	b := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func findDigestChallenge(values []string) (map[string]string, bool) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if len(v) < 7 || !strings.EqualFold(v[:7], "digest ") {
			continue
		}
		return parseChallenge(v[7:]), true
	}
	return nil, false
}

// parseChallenge splits the comma separated auth-params of a challenge.
// Quoted values may contain commas and backslash escapes.
func parseChallenge(s string) map[string]string {
	params := make(map[string]string)
	for {
		s = strings.TrimLeft(s, " \t,")
		if s == "" {
			return params
		}
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return params
		}
		key := strings.ToLower(strings.TrimSpace(s[:eq]))
		s = strings.TrimLeft(s[eq+1:], " \t")

		var value string
		if strings.HasPrefix(s, `"`) {
			var b strings.Builder
			i := 1
			for ; i < len(s) && s[i] != '"'; i++ {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				b.WriteByte(s[i])
			}
			value = b.String()
			if i < len(s) {
				i++
			}
			s = s[i:]
		} else if comma := strings.IndexByte(s, ','); comma >= 0 {
			value, s = strings.TrimSpace(s[:comma]), s[comma:]
		} else {
			value, s = strings.TrimSpace(s), ""
		}
		params[key] = value
	}
}
