// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

// ServerType classifies what kind of mongod/mongos process a Server is, as
// derived from its most recent isMaster reply.
type ServerType uint32

// The recognized server types.
const (
	Unknown ServerType = iota
	Standalone
	Mongos
	RSPrimary
	RSSecondary
	RSArbiter
	RSOther
	RSGhost
	PossiblePrimary
)

// String implements fmt.Stringer, using the names the SDAM spec tests
// compare against.
func (st ServerType) String() string {
	switch st {
	case Standalone:
		return "Standalone"
	case Mongos:
		return "Mongos"
	case RSPrimary:
		return "RSPrimary"
	case RSSecondary:
		return "RSSecondary"
	case RSArbiter:
		return "RSArbiter"
	case RSOther:
		return "RSOther"
	case RSGhost:
		return "RSGhost"
	case PossiblePrimary:
		return "PossiblePrimary"
	default:
		return "Unknown"
	}
}

// NewServerType derives a ServerType from the boolean/string flags present
// in an isMaster reply, per the precedence order in the wire protocol spec.
func NewServerType(ismaster, secondary, arbiterOnly, hidden, isReplicaSet bool, setName, msg string) ServerType {
	switch {
	case msg == "isdbgrid":
		return Mongos
	case setName == "" && !isReplicaSet:
		return Standalone
	case ismaster:
		return RSPrimary
	case secondary && !hidden:
		return RSSecondary
	case arbiterOnly:
		return RSArbiter
	case isReplicaSet && setName == "":
		return RSGhost
	default:
		return RSOther
	}
}
