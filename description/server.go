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

// Server is a point-in-time description of a single host, built from its
// most recent isMaster probe (successful or failed). Every accessor and
// mutator takes the description's own lock; callers never see a torn read.
type Server struct {
	mu sync.RWMutex

	addr          address.Address
	kind          ServerType
	setName       string
	setVersion    *int64
	electionID    objectid.ObjectID
	hasElectionID bool
	hosts         []string
	passives      []string
	arbiters      []string
	tags          map[string]string

	averageRTT    time.Duration
	hasRTT        bool
	lastErr       error
	lastUpdate    time.Time

	minWireVersion int32
	maxWireVersion int32
}

// NewServer returns a freshly seeded, Unknown description for addr.
func NewServer(addr address.Address) *Server {
	return &Server{addr: addr, kind: Unknown, lastUpdate: time.Now()}
}

// Addr returns the server's canonical address. Immutable after construction.
func (s *Server) Addr() address.Address { return s.addr }

// Kind returns the server's current type.
func (s *Server) Kind() ServerType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// SetName returns the replica set name this server last reported, if any.
func (s *Server) SetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setName
}

// SetVersion returns the replica set version this server last reported.
func (s *Server) SetVersion() *int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setVersion
}

// ElectionID returns the election id this server last reported, and whether
// one was present at all.
func (s *Server) ElectionID() (objectid.ObjectID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.electionID, s.hasElectionID
}

// Hosts returns the union of hosts/passives/arbiters this server last
// reported as members of its replica set.
func (s *Server) Hosts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]string, 0, len(s.hosts)+len(s.passives)+len(s.arbiters))
	all = append(all, s.hosts...)
	all = append(all, s.passives...)
	all = append(all, s.arbiters...)
	return all
}

// Tags returns the server's tag set.
func (s *Server) Tags() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags
}

// AverageRTT returns the server's smoothed round-trip time and whether a
// successful probe has ever completed.
func (s *Server) AverageRTT() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averageRTT, s.hasRTT
}

// LastError returns the error from the most recent failed probe, if the
// server's last probe failed.
func (s *Server) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// WireVersionRange returns the min/max wire versions this server advertised.
func (s *Server) WireVersionRange() (min, max int32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.minWireVersion, s.maxWireVersion
}

// Update applies a successful isMaster probe, recomputing every derived
// field and folding rtt into the exponentially-weighted moving average
// (newRtt = 0.2*sample + 0.8*oldRtt; the first sample replaces outright).
func (s *Server) Update(result IsMasterResult, rtt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = result.ServerType()
	s.setName = result.SetName
	s.setVersion = result.SetVersion
	s.electionID = result.ElectionID
	s.hasElectionID = result.HasElectionID
	s.hosts = result.Hosts
	s.passives = result.Passives
	s.arbiters = result.Arbiters
	s.tags = result.Tags
	s.minWireVersion = result.MinWireVersion
	s.maxWireVersion = result.MaxWireVersion
	s.lastErr = nil
	s.lastUpdate = time.Now()

	if !s.hasRTT {
		s.averageRTT = rtt
	} else {
		s.averageRTT = time.Duration(0.2*float64(rtt) + 0.8*float64(s.averageRTT))
	}
	s.hasRTT = true
}

// markUnknown resets a description to Unknown without attributing it to a
// probe failure, used when the topology invalidates a server as a side
// effect of a transition (e.g. a stale PossiblePrimary).
func (s *Server) markUnknown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = Unknown
}

// SetErr records a failed probe: the server becomes Unknown and its rtt
// becomes undefined.
func (s *Server) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = Unknown
	s.lastErr = err
	s.hasRTT = false
	s.setName = ""
	s.setVersion = nil
	s.hasElectionID = false
	s.hosts = nil
	s.passives = nil
	s.arbiters = nil
	s.tags = nil
	s.lastUpdate = time.Now()
}

// snapshot returns an immutable copy of the description's fields, used by
// Topology.Describe and by the selection/fsm logic so they never read
// under another goroutine's in-progress mutation.
func (s *Server) snapshot() serverSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hosts := make([]string, 0, len(s.hosts)+len(s.passives)+len(s.arbiters))
	hosts = append(hosts, s.hosts...)
	hosts = append(hosts, s.passives...)
	hosts = append(hosts, s.arbiters...)
	return serverSnapshot{
		addr:          s.addr,
		kind:          s.kind,
		setName:       s.setName,
		setVersion:    s.setVersion,
		electionID:    s.electionID,
		hasElectionID: s.hasElectionID,
		hosts:         hosts,
		tags:          s.tags,
		averageRTT:    s.averageRTT,
		hasRTT:        s.hasRTT,
	}
}

type serverSnapshot struct {
	addr          address.Address
	kind          ServerType
	setName       string
	setVersion    *int64
	electionID    objectid.ObjectID
	hasElectionID bool
	hosts         []string
	tags          map[string]string
	averageRTT    time.Duration
	hasRTT        bool
}
