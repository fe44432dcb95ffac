// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"testing"
	"time"
)

func TestWithServerSelectionTimeoutNoParentDeadline(t *testing.T) {
	ctx, cancel := withServerSelectionTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected context to expire within the given timeout")
	}
}

func TestWithServerSelectionTimeoutKeepsTighterParentDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer parentCancel()

	ctx, cancel := withServerSelectionTimeout(parent, time.Hour)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > 50*time.Millisecond {
		t.Fatalf("expected the tighter parent deadline to win, got %v remaining", time.Until(deadline))
	}
}

func TestWithServerSelectionTimeoutNoTimeoutNoDeadline(t *testing.T) {
	ctx, cancel := withServerSelectionTimeout(context.Background(), 0)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Fatal("expected no deadline when timeout is zero and parent has none")
	}
}
