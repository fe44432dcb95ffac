// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package auth defines the seam between the topology layer and a
// connection's handshake-time credential exchange. Only the interface and
// a no-op implementation are exercised end to end here; the SCRAM-SHA-1
// conversation body is out of scope (see ScramSHA1).
package auth

import (
	"context"
	"errors"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

// ErrNotImplemented is returned by an Authenticator whose mechanism is
// recognized but whose conversation body isn't implemented by this core.
var ErrNotImplemented = errors.New("auth: mechanism recognized but not implemented")

// Credential holds the identity a connection authenticates with.
type Credential struct {
	Source   string // authentication database; no default is applied when empty
	Username string
	Password string
	Props    map[string]string
}

// Authenticator runs a connection's post-handshake credential exchange
// over rw before the connection is handed back to its pool.
type Authenticator struct {
	Mechanism string
	Handshake func(ctx context.Context, addr address.Address, rw wiremessage.ReadWriter, cred Credential) error
}

// NoAuth performs no handshake; it is the default for an unauthenticated
// connection string.
var NoAuth = Authenticator{
	Mechanism: "",
	Handshake: func(context.Context, address.Address, wiremessage.ReadWriter, Credential) error { return nil },
}

// NewScramSHA1 returns the SCRAM-SHA-1 authenticator descriptor, grounded on
// the xdg-go/scram client/conversation types. Conducting the actual
// challenge/response exchange over the legacy saslStart/saslContinue
// commands is not implemented; Handshake always fails with
// ErrNotImplemented once a client has been constructed, proving out the
// dependency wiring without claiming a conversation this core never drives.
func NewScramSHA1(cred Credential) (Authenticator, error) {
	if _, err := newScramClient(cred); err != nil {
		return Authenticator{}, err
	}
	return Authenticator{
		Mechanism: "SCRAM-SHA-1",
		Handshake: func(ctx context.Context, addr address.Address, rw wiremessage.ReadWriter, cred Credential) error {
			return ErrNotImplemented
		},
	}, nil
}
