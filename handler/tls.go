// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/gogama/requisitor/request"
)

// A DialFunc opens a raw connection, with the signature of
// http.Transport's DialContext.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// ClientAuth is a BeforeConnect handler that configures TLS for the
// dispatch: the trust settings in Config and, optionally, a client
// certificate for mutual TLS.
type ClientAuth struct {
	// Config is the base TLS configuration. It is cloned, never
	// modified. A nil Config means the defaults of crypto/tls.
	Config *tls.Config
	// CertFile is a PEM file holding the client certificate. If empty,
	// no client certificate is presented.
	CertFile string
	// KeyFile is a PEM file holding the private key. If empty, the key
	// is read from CertFile.
	KeyFile string
	// Dial, if not nil, opens the raw connection over which the TLS
	// handshake is performed, for example a Unix-domain socket.
	Dial DialFunc
}

// Handle implements the Handler interface.
func (h *ClientAuth) Handle(evt Event, e *request.Execution) error {
	if evt != BeforeConnect || e.Transport == nil {
		return nil
	}

	cfg, err := h.tlsConfig()
	if err != nil {
		return err
	}
	e.Transport.TLSClientConfig = cfg
	if h.Dial != nil {
		e.Transport.DialTLSContext = h.dialTLS(cfg)
	}
	return nil
}

func (h *ClientAuth) tlsConfig() (*tls.Config, error) {
	var cfg *tls.Config
	if h.Config != nil {
		cfg = h.Config.Clone()
	} else {
		cfg = &tls.Config{}
	}
	if h.CertFile == "" {
		return cfg, nil
	}

	keyFile := h.KeyFile
	if keyFile == "" {
		keyFile = h.CertFile
	}
	cert, err := tls.LoadX509KeyPair(h.CertFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("requisitor/handler: loading client certificate: %w", err)
	}
	cfg.Certificates = append(cfg.Certificates, cert)
	return cfg, nil
}

func (h *ClientAuth) dialTLS(cfg *tls.Config) DialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		raw, err := h.Dial(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		c := cfg
		if c.ServerName == "" {
			c = cfg.Clone()
			if host, _, err := net.SplitHostPort(addr); err == nil {
				c.ServerName = host
			} else {
				c.ServerName = addr
			}
		}
		conn := tls.Client(raw, c)
		if err := conn.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			return nil, err
		}
		return conn, nil
	}
}
