// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"

	"github.com/bassosimone/xfer/capi"
)

// tlsConfig returns the TLS configuration for a connection to host.
func (t *transfer) tlsConfig(host string) (*tls.Config, capi.Code) {
	config := &tls.Config{
		ServerName:         host,
		NextProtos:         nextProtos(t.opts.httpVersion),
		ClientSessionCache: t.sessionCache(),
	}
	if t.opts.caInfo != "" {
		pem, err := os.ReadFile(t.opts.caInfo)
		if err != nil {
			return nil, t.fail(capi.CodeSSLCACertBadFile, "error setting certificate file: %s", t.opts.caInfo)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, t.fail(capi.CodeSSLCACertBadFile, "error setting certificate file: %s", t.opts.caInfo)
		}
		config.RootCAs = pool
	}
	switch {
	case !t.opts.verifyPeer:
		config.InsecureSkipVerify = true
	case !t.opts.verifyHost:
		config.InsecureSkipVerify = true
		config.VerifyConnection = verifyChainOnly(config.RootCAs)
	}
	return config, capi.CodeOK
}

// nextProtos returns the ALPN protocols to offer.
func nextProtos(version capi.HTTPVersion) []string {
	switch version {
	case capi.HTTPVersion1_0, capi.HTTPVersion1_1:
		return []string{"http/1.1"}
	default:
		return []string{"h2", "http/1.1"}
	}
}

// errNoPeerCertificates indicates that the server sent no certificates.
var errNoPeerCertificates = errors.New("native: no peer certificates")

// verifyChainOnly verifies the certificate chain without the host name.
func verifyChainOnly(roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(state tls.ConnectionState) error {
		if len(state.PeerCertificates) <= 0 {
			return errNoPeerCertificates
		}
		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range state.PeerCertificates[1:] {
			opts.Intermediates.AddCert(cert)
		}
		_, err := state.PeerCertificates[0].Verify(opts)
		return err
	}
}
