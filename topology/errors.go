// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import "fmt"

// ErrServerSelection is returned by Topology.SelectServer when no server
// satisfying the requested Selector became available before the deadline.
type ErrServerSelection struct {
	Pref Selector
}

func (e *ErrServerSelection) Error() string {
	return fmt.Sprintf("topology: server selection timed out: %s", e.Pref)
}
