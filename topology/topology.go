// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/description"
)

func errNotOK(reply *bson.Document) error {
	return fmt.Errorf("topology: command reply had ok != 1")
}

// Options configures a Topology at construction.
type Options struct {
	Kind                   description.TopologyType
	SetName                string
	Seeds                  []address.Address
	MaxPoolSize            int64
	ConnectionOpts         []ConnectionOption
	HeartbeatFrequency     time.Duration
	LocalThreshold         time.Duration
	ServerSelectionTimeout time.Duration
	HeartbeatHook          func(address.Address, description.IsMasterResult, error)
}

// Topology is the aggregate, concurrently-used view of a deployment: the
// SDAM description plus one live Server (pool + monitor) per tracked host.
// The Topology exclusively owns its Servers, which exclusively own their
// Pool and Monitor.
type Topology struct {
	desc *description.Topology

	mu      sync.Mutex
	servers map[address.Address]*Server
	cfg     Options
	closed  bool

	waiterMu     sync.Mutex
	waiters      map[int64]chan struct{}
	lastWaiterID int64
}

// New constructs a Topology seeded with cfg.Seeds, all Unknown, and starts
// a background monitor for each.
func New(cfg Options) *Topology {
	desc := description.New(cfg.Kind, cfg.SetName, cfg.Seeds)
	if cfg.HeartbeatFrequency > 0 {
		desc.HeartbeatFrequency = cfg.HeartbeatFrequency
	}
	if cfg.LocalThreshold > 0 {
		desc.LocalThreshold = cfg.LocalThreshold
	}
	if cfg.ServerSelectionTimeout > 0 {
		desc.ServerSelectionTimeout = cfg.ServerSelectionTimeout
	}

	t := &Topology{
		desc:    desc,
		servers: make(map[address.Address]*Server, len(cfg.Seeds)),
		cfg:     cfg,
		waiters: make(map[int64]chan struct{}),
	}
	for _, addr := range cfg.Seeds {
		t.addServerLocked(addr)
	}
	return t
}

// HeartbeatFrequency returns the configured monitor interval.
func (t *Topology) HeartbeatFrequency() time.Duration { return t.desc.HeartbeatFrequency }

// Describe returns the current aggregate SDAM description.
func (t *Topology) Describe() *description.Topology { return t.desc }

func (t *Topology) addServerLocked(addr address.Address) *Server {
	sdesc, _ := t.desc.Server(addr)
	hook := func(r description.IsMasterResult, err error) {
		if t.cfg.HeartbeatHook != nil {
			t.cfg.HeartbeatHook(addr, r, err)
		}
	}
	srv := NewServer(addr, sdesc, t, ServerOptions{
		MaxPoolSize:    t.cfg.MaxPoolSize,
		ConnectionOpts: t.cfg.ConnectionOpts,
		HeartbeatHook:  hook,
	})
	t.servers[addr] = srv
	return srv
}

// applyIsMaster is called by a Monitor on every successful probe.
func (t *Topology) applyIsMaster(addr address.Address, result description.IsMasterResult, rtt time.Duration) error {
	err := t.desc.ApplyIsMaster(addr, result, rtt)
	t.syncServers()
	t.notify()
	return err
}

// applyError is called by a Monitor on every failed probe.
func (t *Topology) applyError(addr address.Address, probeErr error) {
	t.desc.ApplyError(addr, probeErr)
	t.syncServers()
	t.notify()
}

// syncServers starts monitors for hosts the SDAM transition just added and
// tears down monitors for hosts it just removed.
func (t *Topology) syncServers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	live := make(map[address.Address]struct{})
	for _, sdesc := range t.desc.Servers() {
		live[sdesc.Addr()] = struct{}{}
		if _, ok := t.servers[sdesc.Addr()]; !ok {
			t.addServerLocked(sdesc.Addr())
		}
	}
	for addr, srv := range t.servers {
		if _, ok := live[addr]; !ok {
			srv.Close()
			delete(t.servers, addr)
		}
	}
}

func (t *Topology) notify() {
	t.waiterMu.Lock()
	defer t.waiterMu.Unlock()
	for _, ch := range t.waiters {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// subscribe registers a channel that receives a signal on every topology
// change, mirroring the teacher's subscriber-channel fan-out.
func (t *Topology) subscribe() (<-chan struct{}, int64) {
	t.waiterMu.Lock()
	defer t.waiterMu.Unlock()
	t.lastWaiterID++
	id := t.lastWaiterID
	ch := make(chan struct{}, 1)
	t.waiters[id] = ch
	return ch, id
}

func (t *Topology) unsubscribe(id int64) {
	t.waiterMu.Lock()
	defer t.waiterMu.Unlock()
	delete(t.waiters, id)
}

// RequestRescan forces an immediate heartbeat on every currently Unknown
// server, used after a user operation observes a "not master"/"node is
// recovering" error.
func (t *Topology) RequestRescan() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for addr, srv := range t.servers {
		if sdesc, ok := t.desc.Server(addr); ok && sdesc.Kind() == description.Unknown {
			srv.monitor.RequestImmediateCheck()
		}
	}
}

// server returns the live Server wrapper for addr, if any.
func (t *Topology) server(addr address.Address) (*Server, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.servers[addr]
	return s, ok
}

// Invalidate marks addr's description Unknown, the same way a failed probe
// would, and requests an immediate rescan. It is used when a command
// reply itself reveals the server is stale (most commonly a NotMaster
// family error from a server that no longer believes it is primary) rather
// than waiting for the next scheduled heartbeat to notice. addr's
// connection pool is cleared too, since a server reporting NotMaster means
// its other pooled connections were negotiated against the stale primary
// epoch and must not be handed back out.
func (t *Topology) Invalidate(addr address.Address, err error) {
	t.desc.ApplyError(addr, err)
	t.syncServers()
	t.notify()
	t.RequestRescan()

	if srv, ok := t.server(addr); ok {
		srv.Clear()
	}
}

// Close stops every server's monitor and drains every pool.
func (t *Topology) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, srv := range t.servers {
		srv.Close()
	}
}

// SelectServer blocks until a server satisfying pref is available, the
// context is cancelled, or desc.ServerSelectionTimeout elapses.
func (t *Topology) SelectServer(ctx context.Context, pref Selector) (*Server, error) {
	ctx, cancel := withServerSelectionTimeout(ctx, t.desc.ServerSelectionTimeout)
	defer cancel()

	updates, id := t.subscribe()
	defer t.unsubscribe(id)

	poll := time.NewTicker(15 * time.Millisecond)
	defer poll.Stop()

	for {
		candidates := pref.Select(t.desc)
		if len(candidates) > 0 {
			chosen := candidates[pickRandomIndex(len(candidates))]
			if srv, ok := t.server(chosen); ok {
				return srv, nil
			}
		}

		t.RequestRescan()

		select {
		case <-ctx.Done():
			return nil, &ErrServerSelection{Pref: pref}
		case <-updates:
		case <-poll.C:
		}
	}
}
