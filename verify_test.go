// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"context"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var v Verify
		assert.False(t, v.IsInsecure())
		assert.Empty(t, v.CABundle())
		assert.Equal(t, "system", v.String())
		cfg, err := v.tlsConfig()
		require.NoError(t, err)
		assert.False(t, cfg.InsecureSkipVerify)
		assert.Nil(t, cfg.RootCAs)
	})
	t.Run("insecure", func(t *testing.T) {
		assert.True(t, Insecure.IsInsecure())
		assert.Equal(t, "insecure", Insecure.String())
		cfg, err := Insecure.tlsConfig()
		require.NoError(t, err)
		assert.True(t, cfg.InsecureSkipVerify)
	})
	t.Run("CA bundle", func(t *testing.T) {
		path := writeServerCA(t, httpsServer)
		v := CABundle(path)
		assert.False(t, v.IsInsecure())
		assert.Equal(t, path, v.CABundle())
		assert.Equal(t, "ca-bundle:"+path, v.String())
		cfg, err := v.tlsConfig()
		require.NoError(t, err)
		assert.NotNil(t, cfg.RootCAs)
		assert.False(t, cfg.InsecureSkipVerify)
	})
	t.Run("CA bundle without certificates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pem")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		cfg, err := CABundle(path).tlsConfig()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrInvalidCABundle)
	})
	t.Run("CA bundle missing", func(t *testing.T) {
		cfg, err := CABundle(filepath.Join(t.TempDir(), "nope.pem")).tlsConfig()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidateCert(t *testing.T) {
	want := &Cert{CertFile: "c.pem", KeyFile: "k.pem"}
	testCases := []struct {
		name string
		v    interface{}
		want *Cert
	}{
		{"nil", nil, nil},
		{"Cert", Cert{CertFile: "c.pem", KeyFile: "k.pem"}, want},
		{"*Cert", want, want},
		{"array", [2]string{"c.pem", "k.pem"}, want},
		{"slice", []string{"c.pem", "k.pem"}, want},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			c, err := validateCert(testCase.v)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, c)
		})
	}
	for _, bad := range []interface{}{"c.pem", []string{"c.pem"}, 1} {
		c, err := validateCert(bad)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrInvalidCert)
	}
}

func TestURLErrorOp(t *testing.T) {
	assert.Equal(t, "Get", urlErrorOp(""))
	assert.Equal(t, "Get", urlErrorOp("GET"))
	assert.Equal(t, "Propfind", urlErrorOp("PROPFIND"))
}

func TestCABundle_KeepsSystemRoots(t *testing.T) {
	if systemServer == nil {
		t.Skip("system roots can only be replaced through SSL_CERT_FILE on Linux")
	}
	ctx := context.Background()
	bundle := writeServerCA(t, httpsServer)

	t.Run("default verification trusts system root", func(t *testing.T) {
		e := getEcho(t)(NewSession().Get(ctx, systemServer.URL+"/echo"))
		assert.Equal(t, "GET", e.Method)
	})
	t.Run("bundle adds to system roots", func(t *testing.T) {
		s := NewSession()
		s.Verify = CABundle(bundle)
		e := getEcho(t)(s.Get(ctx, systemServer.URL+"/echo"))
		assert.Equal(t, "GET", e.Method)
		e = getEcho(t)(s.Get(ctx, httpsServer.URL+"/echo"))
		assert.Equal(t, "GET", e.Method)
	})
	t.Run("pool holds both", func(t *testing.T) {
		cfg, err := CABundle(bundle).tlsConfig()
		require.NoError(t, err)
		sys, err := x509.SystemCertPool()
		require.NoError(t, err)
		assert.False(t, sys.Equal(cfg.RootCAs))
		sys.AddCert(httpsServer.Certificate())
		assert.True(t, sys.Equal(cfg.RootCAs))
	})
}
