// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/auth"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

func TestReadWireMessageAbortsOnContextCancelWithoutDeadline(t *testing.T) {
	conn, err := Connect(context.Background(), address.Address("h:27017"), WithDialer(pipeDialer()))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := conn.ReadWireMessage(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error once the connection was closed by cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("ReadWireMessage did not return after context cancellation")
	}
}

func TestConnectRunsAuthenticatorHandshake(t *testing.T) {
	var gotAddr address.Address
	var gotCred auth.Credential
	authenticator := auth.Authenticator{
		Mechanism: "TEST",
		Handshake: func(ctx context.Context, addr address.Address, rw wiremessage.ReadWriter, cred auth.Credential) error {
			gotAddr, gotCred = addr, cred
			return nil
		},
	}
	cred := auth.Credential{Source: "admin", Username: "u", Password: "p"}

	conn, err := Connect(context.Background(), address.Address("h:27017"),
		WithDialer(pipeDialer()), WithAuthenticator(authenticator, cred))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()

	if gotAddr != address.Address("h:27017") {
		t.Fatalf("handshake saw addr %q, want h:27017", gotAddr)
	}
	if gotCred.Source != cred.Source || gotCred.Username != cred.Username || gotCred.Password != cred.Password {
		t.Fatalf("handshake saw credential %+v, want %+v", gotCred, cred)
	}
}

func TestConnectFailsWhenAuthenticatorErrors(t *testing.T) {
	boom := errors.New("boom")
	authenticator := auth.Authenticator{
		Mechanism: "TEST",
		Handshake: func(context.Context, address.Address, wiremessage.ReadWriter, auth.Credential) error {
			return boom
		},
	}

	_, err := Connect(context.Background(), address.Address("h:27017"),
		WithDialer(pipeDialer()), WithAuthenticator(authenticator, auth.Credential{}))
	if err == nil {
		t.Fatal("expected Connect to fail when the authenticator handshake errors")
	}
}
