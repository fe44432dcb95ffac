// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/ocsp"
)

// LoadClientCertificate parses a PEM-encoded certificate and private key from
// certPEM/keyPEM and returns a tls.Certificate suitable for
// tls.Config.Certificates. If keyPassword is non-empty the key is assumed to
// be an encrypted PKCS#8 block and is decrypted with it.
func LoadClientCertificate(certPEM, keyPEM []byte, keyPassword string) (tls.Certificate, error) {
	if keyPassword == "" {
		return tls.X509KeyPair(certPEM, keyPEM)
	}

	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return tls.Certificate{}, fmt.Errorf("topology: no PEM block found in client key")
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, []byte(keyPassword))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("topology: decrypting PKCS#8 client key: %w", err)
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return tls.Certificate{}, fmt.Errorf("topology: no PEM block found in client certificate")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("topology: parsing client certificate: %w", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{certBlock.Bytes},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}

// verifyStapledOCSPResponse checks a server's stapled OCSP response, if one
// was sent during the handshake, against the leaf certificate's issuer. It
// returns nil when no response was stapled, and also returns nil without
// checking the response when the peer sent no issuer certificate after the
// leaf; otherwise a revoked, unknown-status or malformed stapled response
// is a connection error.
func verifyStapledOCSPResponse(cs tls.ConnectionState) error {
	if len(cs.OCSPResponse) == 0 || len(cs.PeerCertificates) < 2 {
		return nil
	}

	leaf, issuer := cs.PeerCertificates[0], cs.PeerCertificates[1]
	resp, err := ocsp.ParseResponseForCert(cs.OCSPResponse, leaf, issuer)
	if err != nil {
		return fmt.Errorf("topology: parsing stapled OCSP response: %w", err)
	}

	switch resp.Status {
	case ocsp.Good:
		return nil
	case ocsp.Revoked:
		return fmt.Errorf("topology: server certificate revoked per stapled OCSP response")
	default:
		return fmt.Errorf("topology: stapled OCSP response status unknown")
	}
}
