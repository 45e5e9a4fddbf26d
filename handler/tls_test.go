// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeClientCert writes a self-signed certificate and its key as PEM
// files and returns their paths.
func writeClientCert(t *testing.T) (certFile, keyFile string) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "requisitor test client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "client.crt")
	keyFile = filepath.Join(dir, "client.key")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))
	return
}

func TestClientAuth(t *testing.T) {
	t.Run("no certificate", func(t *testing.T) {
		base := &tls.Config{InsecureSkipVerify: true}
		e := newExecution(t, "GET", "https://example.com/")
		require.NoError(t, (&ClientAuth{Config: base}).Handle(BeforeConnect, e))
		require.NotNil(t, e.Transport.TLSClientConfig)
		assert.NotSame(t, base, e.Transport.TLSClientConfig)
		assert.True(t, e.Transport.TLSClientConfig.InsecureSkipVerify)
		assert.Empty(t, e.Transport.TLSClientConfig.Certificates)
		assert.Nil(t, e.Transport.DialTLSContext)
	})
	t.Run("nil config", func(t *testing.T) {
		e := newExecution(t, "GET", "https://example.com/")
		require.NoError(t, (&ClientAuth{}).Handle(BeforeConnect, e))
		assert.NotNil(t, e.Transport.TLSClientConfig)
	})
	t.Run("other events ignored", func(t *testing.T) {
		e := newExecution(t, "GET", "https://example.com/")
		require.NoError(t, (&ClientAuth{}).Handle(BeforeSend, e))
		assert.Nil(t, e.Transport.TLSClientConfig)
	})
	t.Run("separate key file", func(t *testing.T) {
		certFile, keyFile := writeClientCert(t)
		e := newExecution(t, "GET", "https://example.com/")
		require.NoError(t, (&ClientAuth{CertFile: certFile, KeyFile: keyFile}).Handle(BeforeConnect, e))
		assert.Len(t, e.Transport.TLSClientConfig.Certificates, 1)
	})
	t.Run("key inside cert file", func(t *testing.T) {
		certFile, keyFile := writeClientCert(t)
		certPEM, err := os.ReadFile(certFile)
		require.NoError(t, err)
		keyPEM, err := os.ReadFile(keyFile)
		require.NoError(t, err)
		combined := filepath.Join(t.TempDir(), "combined.pem")
		require.NoError(t, os.WriteFile(combined, append(certPEM, keyPEM...), 0o600))
		e := newExecution(t, "GET", "https://example.com/")
		require.NoError(t, (&ClientAuth{CertFile: combined}).Handle(BeforeConnect, e))
		assert.Len(t, e.Transport.TLSClientConfig.Certificates, 1)
	})
	t.Run("missing certificate", func(t *testing.T) {
		e := newExecution(t, "GET", "https://example.com/")
		err := (&ClientAuth{CertFile: filepath.Join(t.TempDir(), "nope.pem")}).Handle(BeforeConnect, e)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Nil(t, e.Transport.TLSClientConfig)
	})
}

func TestClientAuth_MutualTLS(t *testing.T) {
	certFile, keyFile := writeClientCert(t)
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, r.TLS.PeerCertificates[0].Subject.CommonName)
	}))
	server.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	server.StartTLS()
	defer server.Close()
	roots := x509.NewCertPool()
	roots.AddCert(server.Certificate())

	testCases := []struct {
		name string
		dial DialFunc
	}{
		{name: "transport dialer"},
		{
			name: "injected dialer",
			dial: func(ctx context.Context, network, addr string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "tcp", server.Listener.Addr().String())
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			e := newExecution(t, "GET", server.URL)
			h := &ClientAuth{
				Config:   &tls.Config{RootCAs: roots},
				CertFile: certFile,
				KeyFile:  keyFile,
				Dial:     testCase.dial,
			}
			require.NoError(t, h.Handle(BeforeConnect, e))
			defer e.Transport.CloseIdleConnections()
			resp, err := e.Transport.RoundTrip(e.Request)
			require.NoError(t, err)
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "requisitor test client", string(b))
		})
	}
}
