// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"crypto/tls"
	"testing"
)

func TestLoadClientCertificateRejectsMalformedKeyPEM(t *testing.T) {
	_, err := LoadClientCertificate([]byte("not a cert"), []byte("not a key"), "hunter2")
	if err == nil {
		t.Fatal("expected an error for a non-PEM key with a password set")
	}
}

func TestVerifyStapledOCSPResponseNoneStapledIsOK(t *testing.T) {
	if err := verifyStapledOCSPResponse(tls.ConnectionState{}); err != nil {
		t.Fatalf("expected no error when no OCSP response was stapled, got %v", err)
	}
}
