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
	"github.com/nimbusdb/nimbus-go-driver/description"
)

func TestInvalidateMarksServerUnknownAndClearsItsPool(t *testing.T) {
	addr := address.Address("a:27017")
	topo := New(Options{
		Kind:           description.ReplicaSetNoPrimary,
		SetName:        "rs0",
		Seeds:          []address.Address{addr},
		ConnectionOpts: []ConnectionOption{WithDialer(pipeDialer())},
	})
	defer topo.Close()

	sv1 := int64(1)
	primary := description.IsMasterResult{
		IsMaster: true, SetName: "rs0", SetVersion: &sv1, Hosts: []string{"a:27017"},
	}
	if err := topo.applyIsMaster(addr, primary, time.Millisecond); err != nil {
		t.Fatalf("applyIsMaster: %v", err)
	}
	if topo.Describe().Kind() != description.ReplicaSetWithPrimary {
		t.Fatalf("Kind() = %v, want ReplicaSetWithPrimary", topo.Describe().Kind())
	}

	srv, ok := topo.server(addr)
	if !ok {
		t.Fatal("expected a live Server for the seed address")
	}
	c1, err := srv.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	srv.Checkin(c1)

	topo.Invalidate(addr, errors.New("not master"))

	sdesc, ok := topo.Describe().Server(addr)
	if !ok || sdesc.Kind() != description.Unknown {
		t.Fatalf("expected %s to become Unknown after Invalidate", addr)
	}

	c2, err := srv.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout after Invalidate: %v", err)
	}
	if c2 == c1 {
		t.Fatal("Invalidate must clear the server's pool: the pre-invalidation connection must not be reused")
	}
}
