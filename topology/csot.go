// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"time"
)

// withServerSelectionTimeout bounds ctx by the smaller of its own deadline
// (if any) and timeout, so a caller-supplied deadline tighter than
// ServerSelectionTimeout is never silently widened. Non-positive timeouts
// with no parent deadline leave ctx unbounded.
func withServerSelectionTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := parent.Deadline()
	remaining := time.Until(deadline)

	switch {
	case !hasDeadline && timeout <= 0:
		return context.WithCancel(parent)
	case !hasDeadline:
		return context.WithTimeout(parent, timeout)
	case timeout > 0 && timeout < remaining:
		return context.WithTimeout(parent, timeout)
	default:
		return context.WithCancel(parent)
	}
}
