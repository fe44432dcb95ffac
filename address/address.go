// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package address provides canonical host:port identifiers for servers in a
// topology.
package address

import (
	"net"
	"strings"
)

// Address is a host:port identifier for a mongod/mongos process. A bare
// hostname (no colon) is treated as carrying the default MongoDB port.
type Address string

const defaultPort = "27017"

// Canonicalize lower-cases the address and fills in the default port when
// none was given, so that two textually different spellings of the same
// endpoint compare equal.
func (a Address) Canonicalize() Address {
	s := strings.ToLower(strings.TrimSpace(string(a)))
	if s == "" {
		return Address("localhost:" + defaultPort)
	}
	if strings.HasPrefix(s, "/") {
		// Unix domain socket path; left as-is aside from case folding.
		return Address(s)
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		// No port present.
		return Address(s + ":" + defaultPort)
	}
	if port == "" {
		port = defaultPort
	}
	return Address(host + ":" + port)
}

// Host returns the hostname portion, or the full address for a socket path.
func (a Address) Host() string {
	if strings.HasPrefix(string(a), "/") {
		return string(a)
	}
	host, _, err := net.SplitHostPort(string(a))
	if err != nil {
		return string(a)
	}
	return host
}

// String implements fmt.Stringer.
func (a Address) String() string { return string(a) }
