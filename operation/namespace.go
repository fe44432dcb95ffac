// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package operation builds, dispatches, and decodes the command and
// query/getMore/killCursors wire messages that make up the driver's CRUD
// and administrative surface. Every operation selects a server through a
// topology.Topology, checks out a connection, round-trips exactly the
// bytes the legacy wire protocol expects, and translates an {ok: 0} reply
// into a *mongoerr.Error.
package operation

import "fmt"

// Namespace identifies a collection by its owning database and name.
type Namespace struct {
	DB         string
	Collection string
}

// FullName renders the namespace as "<db>.<collection>", the form the
// legacy OP_QUERY/OP_GET_MORE full collection name field expects.
func (ns Namespace) FullName() string {
	return fmt.Sprintf("%s.%s", ns.DB, ns.Collection)
}

// CommandNamespace renders "<db>.$cmd", the pseudo-collection every legacy
// command is addressed to.
func (ns Namespace) CommandNamespace() string {
	return ns.DB + ".$cmd"
}
