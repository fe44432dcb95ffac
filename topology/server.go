// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"sync"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/description"
)

// Server is a host plus everything the driver tracks about it: its SDAM
// description, a user-facing connection pool, and a background Monitor
// that keeps the description current. A Server is exclusively owned by a
// Topology and exclusively owns its Pool and Monitor.
type Server struct {
	addr address.Address
	desc *description.Server
	pool *Pool

	monitor *Monitor

	closeOnce sync.Once
}

// ServerOptions configures a newly-constructed Server.
type ServerOptions struct {
	MaxPoolSize     int64
	ConnectionOpts  []ConnectionOption
	HeartbeatHook   func(description.IsMasterResult, error)
}

// NewServer constructs a Server for addr, backed by desc, and starts its
// background monitor. topo is notified of every probe outcome.
func NewServer(addr address.Address, desc *description.Server, topo *Topology, opts ServerOptions) *Server {
	s := &Server{
		addr: addr,
		desc: desc,
		pool: NewPool(addr, opts.MaxPoolSize, opts.ConnectionOpts...),
	}
	s.monitor = StartMonitor(addr, topo, opts.ConnectionOpts, opts.HeartbeatHook)
	return s
}

// Addr returns the server's address.
func (s *Server) Addr() address.Address { return s.addr }

// Description returns the server's current SDAM description.
func (s *Server) Description() *description.Server { return s.desc }

// Checkout obtains a connection from this server's user-facing pool.
func (s *Server) Checkout(ctx context.Context) (*Connection, error) {
	return s.pool.Checkout(ctx)
}

// Checkin returns a connection to this server's pool.
func (s *Server) Checkin(c *Connection) { s.pool.Checkin(c) }

// Clear bumps this server's pool generation, discarding every idle
// connection immediately and closing (rather than reusing) any connection
// still checked out once it is returned via Checkin.
func (s *Server) Clear() { s.pool.Clear() }

// Close stops the monitor and drains the pool. Idempotent.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.monitor.Stop()
		s.pool.Close()
	})
}
