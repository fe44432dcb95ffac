// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package auth

import (
	"fmt"

	"github.com/xdg-go/scram"
	"github.com/xdg-go/stringprep"
)

// scramConversation is everything newScramClient builds before the
// not-implemented conversation body would begin: a normalized identity and
// a scram.Client ready to start a client-first message.
type scramConversation struct {
	client *scram.Client
}

// newScramClient normalizes cred's username/password per RFC 4013 (SASLprep)
// and constructs the SHA-1 SCRAM client the real handshake would step
// through.
func newScramClient(cred Credential) (*scramConversation, error) {
	username, err := stringprep.SASLprep.Prepare(cred.Username)
	if err != nil {
		return nil, fmt.Errorf("auth: SASLprep username: %w", err)
	}
	password, err := stringprep.SASLprep.Prepare(cred.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: SASLprep password: %w", err)
	}

	client, err := scram.SHA1.NewClient(username, password, "")
	if err != nil {
		return nil, fmt.Errorf("auth: build SCRAM-SHA-1 client: %w", err)
	}
	return &scramConversation{client: client}, nil
}
