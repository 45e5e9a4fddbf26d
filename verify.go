// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Verify selects how the server's TLS certificate is verified. The
// zero value verifies against the system trust store.
type Verify struct {
	insecure bool
	caBundle string
}

// Insecure disables verification of the server's certificate chain
// and host name.
var Insecure = Verify{insecure: true}

// CABundle verifies the server's certificate against the system trust
// store plus the PEM encoded certificates in the file at path.
func CABundle(path string) Verify {
	return Verify{caBundle: path}
}

// IsInsecure reports whether v disables verification.
func (v Verify) IsInsecure() bool {
	return v.insecure
}

// CABundle returns the CA bundle path, if any.
func (v Verify) CABundle() string {
	return v.caBundle
}

func (v Verify) String() string {
	switch {
	case v.insecure:
		return "insecure"
	case v.caBundle != "":
		return "ca-bundle:" + v.caBundle
	default:
		return "system"
	}
}

func (v Verify) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{}
	if v.insecure {
		cfg.InsecureSkipVerify = true
		return cfg, nil
	}
	if v.caBundle == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(v.caBundle)
	if err != nil {
		return nil, err
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCABundle, v.caBundle)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

// Cert names the PEM files holding a client certificate and its private
// key. If KeyFile is empty the key is read from CertFile.
type Cert struct {
	CertFile string
	KeyFile  string
}

func validateCert(v interface{}) (*Cert, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Cert:
		return &x, nil
	case *Cert:
		return x, nil
	case [2]string:
		return &Cert{CertFile: x[0], KeyFile: x[1]}, nil
	case []string:
		if len(x) != 2 {
			return nil, fmt.Errorf("%w: need cert and key file, got %d values", ErrInvalidCert, len(x))
		}
		return &Cert{CertFile: x[0], KeyFile: x[1]}, nil
	default:
		return nil, fmt.Errorf("%w: cannot be type %T", ErrInvalidCert, v)
	}
}
