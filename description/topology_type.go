// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

// TopologyType classifies the shape of the deployment as a whole.
type TopologyType uint32

// The recognized topology types.
const (
	TopologyUnknown TopologyType = iota
	Single
	Sharded
	ReplicaSetNoPrimary
	ReplicaSetWithPrimary
)

// String implements fmt.Stringer, using the names the SDAM spec tests
// compare against.
func (tt TopologyType) String() string {
	switch tt {
	case Single:
		return "Single"
	case Sharded:
		return "Sharded"
	case ReplicaSetNoPrimary:
		return "ReplicaSetNoPrimary"
	case ReplicaSetWithPrimary:
		return "ReplicaSetWithPrimary"
	default:
		return "Unknown"
	}
}
