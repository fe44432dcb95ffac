// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

import (
	"sync"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/objectid"
)

// Default timing parameters, overridable via connstring options.
const (
	DefaultHeartbeatFrequency     = 10 * time.Second
	DefaultLocalThreshold         = 15 * time.Millisecond
	DefaultServerSelectionTimeout = 30 * time.Second
)

// Topology is the aggregate, concurrently-read-and-written description of a
// deployment: its type, replica-set identity, and the per-host Server
// descriptions that compose it. The topology exclusively owns its Servers.
type Topology struct {
	mu sync.RWMutex

	kind          TopologyType
	setName       string
	maxSetVersion *int64
	maxElectionID objectid.ObjectID
	hasMaxElectionID bool

	servers     map[address.Address]*Server
	seedCount   int
	primaryAddr address.Address

	HeartbeatFrequency     time.Duration
	LocalThreshold         time.Duration
	ServerSelectionTimeout time.Duration
}

// New builds a Topology seeded with the given hosts, all Unknown. kind
// should be Single when exactly one seed host is given without a
// replicaSet connection-string option, ReplicaSetNoPrimary when a
// replicaSet name is known, and Unknown otherwise (the usual case for a
// freshly seeded multi-host, no-replica-set-name topology).
func New(kind TopologyType, setName string, seeds []address.Address) *Topology {
	t := &Topology{
		kind:                   kind,
		setName:                setName,
		servers:                make(map[address.Address]*Server, len(seeds)),
		seedCount:              len(seeds),
		HeartbeatFrequency:     DefaultHeartbeatFrequency,
		LocalThreshold:         DefaultLocalThreshold,
		ServerSelectionTimeout: DefaultServerSelectionTimeout,
	}
	for _, addr := range seeds {
		t.servers[addr] = NewServer(addr)
	}
	return t
}

// Kind returns the topology's current type.
func (t *Topology) Kind() TopologyType {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.kind
}

// SetName returns the replica set name, if the topology is a replica set.
func (t *Topology) SetName() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.setName
}

// MaxSetVersion and MaxElectionID return the monotone high-water marks used
// to resolve conflicting primary reports.
func (t *Topology) MaxSetVersion() *int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxSetVersion
}

func (t *Topology) MaxElectionID() (objectid.ObjectID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxElectionID, t.hasMaxElectionID
}

// Server returns the Server description for addr, if the topology tracks it.
func (t *Topology) Server(addr address.Address) (*Server, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.servers[addr]
	return s, ok
}

// Servers returns a snapshot slice of every tracked Server.
func (t *Topology) Servers() []*Server {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Server, 0, len(t.servers))
	for _, s := range t.servers {
		out = append(out, s)
	}
	return out
}

// addServer registers a brand-new Unknown server; callers must hold t.mu.
func (t *Topology) addServer(addr address.Address) *Server {
	s := NewServer(addr)
	t.servers[addr] = s
	return s
}

// removeServer drops a server from the topology; callers must hold t.mu.
func (t *Topology) removeServer(addr address.Address) {
	delete(t.servers, addr)
}

// Diff describes the servers added or removed between two Topology
// snapshots, used by subscribers (e.g. a connection-pool owner) to react to
// membership changes without re-deriving it themselves.
type Diff struct {
	AddedServers   []address.Address
	RemovedServers []address.Address
}

// DiffTopology computes the Diff between two point-in-time Server address
// sets. A nil `old` is treated as empty (every server in `new` is "added").
func DiffTopology(old, new *Topology) Diff {
	var d Diff
	oldAddrs := map[address.Address]struct{}{}
	if old != nil {
		old.mu.RLock()
		for a := range old.servers {
			oldAddrs[a] = struct{}{}
		}
		old.mu.RUnlock()
	}
	new.mu.RLock()
	newAddrs := map[address.Address]struct{}{}
	for a := range new.servers {
		newAddrs[a] = struct{}{}
	}
	new.mu.RUnlock()

	for a := range newAddrs {
		if _, ok := oldAddrs[a]; !ok {
			d.AddedServers = append(d.AddedServers, a)
		}
	}
	for a := range oldAddrs {
		if _, ok := newAddrs[a]; !ok {
			d.RemovedServers = append(d.RemovedServers, a)
		}
	}
	return d
}
