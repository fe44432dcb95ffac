// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

import (
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
)

// ErrStaleRescanNeeded is returned by ApplyIsMaster when a report is
// ignored because it lost the (setVersion, electionId) tie-break; callers
// should schedule an immediate topology rescan.
type ErrStaleRescanNeeded struct{ Addr address.Address }

func (e *ErrStaleRescanNeeded) Error() string {
	return "description: stale primary report from " + string(e.Addr) + ", rescan scheduled"
}

// ApplyIsMaster feeds a successful isMaster probe into the SDAM transition
// table, updating the reporting server's description and, as a side
// effect, the topology's aggregate type. It never removes the reporting
// server itself for reporting a type that merely doesn't fit the current
// topology view; see the per-branch rules below for which hosts it can
// remove.
func (t *Topology) ApplyIsMaster(addr address.Address, result IsMasterResult, rtt time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	srv, ok := t.servers[addr]
	if !ok {
		srv = t.addServer(addr)
	}

	kind := result.ServerType()

	switch t.kind {
	case TopologyUnknown:
		t.applyUnknown(srv, addr, kind, result, rtt)
	case Single:
		srv.Update(result, rtt)
	case Sharded:
		t.applySharded(srv, addr, kind, result, rtt)
	case ReplicaSetNoPrimary:
		return t.applyRSNoPrimary(srv, addr, kind, result, rtt)
	case ReplicaSetWithPrimary:
		return t.applyRSWithPrimary(srv, addr, kind, result, rtt)
	}
	return nil
}

// ApplyError feeds a failed probe: the server becomes Unknown. Per §4.4,
// monitor errors never remove a server; only the transition rules above do.
func (t *Topology) ApplyError(addr address.Address, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	srv, ok := t.servers[addr]
	if !ok {
		srv = t.addServer(addr)
	}
	srv.SetErr(err)

	if t.kind == ReplicaSetWithPrimary && addr == t.primaryAddr {
		t.kind = ReplicaSetNoPrimary
		t.primaryAddr = ""
	}
}

func (t *Topology) applyUnknown(srv *Server, addr address.Address, kind ServerType, result IsMasterResult, rtt time.Duration) {
	switch kind {
	case Standalone:
		srv.Update(result, rtt)
		if t.seedCount == 1 {
			t.kind = Single
		} else {
			t.removeServer(addr)
		}
	case Mongos:
		srv.Update(result, rtt)
		t.kind = Sharded
	case RSPrimary, RSSecondary, RSArbiter, RSOther:
		srv.Update(result, rtt)
		t.setName = result.SetName
		if kind == RSPrimary {
			t.kind = ReplicaSetWithPrimary
			t.primaryAddr = addr
			t.recordMax(result)
		} else {
			t.kind = ReplicaSetNoPrimary
		}
		t.mergeHosts(srv.Hosts())
	default: // RSGhost, Unknown
		srv.Update(result, rtt)
	}
}

func (t *Topology) applySharded(srv *Server, addr address.Address, kind ServerType, result IsMasterResult, rtt time.Duration) {
	if kind != Mongos {
		t.removeServer(addr)
		return
	}
	srv.Update(result, rtt)
}

func (t *Topology) applyRSNoPrimary(srv *Server, addr address.Address, kind ServerType, result IsMasterResult, rtt time.Duration) error {
	if result.SetName != "" && t.setName != "" && result.SetName != t.setName {
		t.removeServer(addr)
		return nil
	}

	switch kind {
	case RSPrimary:
		if !t.isAtLeastMax(result) {
			return &ErrStaleRescanNeeded{Addr: addr}
		}
		srv.Update(result, rtt)
		t.setName = result.SetName
		t.recordMax(result)
		t.kind = ReplicaSetWithPrimary
		t.primaryAddr = addr
		for a, s := range t.servers {
			if a != addr && s.Kind() == PossiblePrimary {
				s.markUnknown()
			}
		}
		t.mergeHosts(srv.Hosts())
	case RSSecondary, RSArbiter, RSOther:
		srv.Update(result, rtt)
		t.mergeHosts(srv.Hosts())
	default:
		srv.Update(result, rtt)
	}
	return nil
}

func (t *Topology) applyRSWithPrimary(srv *Server, addr address.Address, kind ServerType, result IsMasterResult, rtt time.Duration) error {
	if result.SetName != "" && t.setName != "" && result.SetName != t.setName {
		t.removeServer(addr)
		return nil
	}

	switch {
	case kind == RSPrimary && addr == t.primaryAddr:
		srv.Update(result, rtt)
		t.recordMax(result)
		t.mergeHosts(srv.Hosts())
		return nil
	case kind == RSPrimary:
		if !t.isAtLeastMax(result) {
			return &ErrStaleRescanNeeded{Addr: addr}
		}
		if old, ok := t.servers[t.primaryAddr]; ok {
			old.markUnknown()
		}
		srv.Update(result, rtt)
		t.recordMax(result)
		t.primaryAddr = addr
		t.mergeHosts(srv.Hosts())
		return nil
	case addr == t.primaryAddr:
		// the primary reported a non-primary type or an implicit step-down
		srv.Update(result, rtt)
		t.kind = ReplicaSetNoPrimary
		t.primaryAddr = ""
		return nil
	default:
		srv.Update(result, rtt)
		t.mergeHosts(srv.Hosts())
		return nil
	}
}

// recordMax advances (maxSetVersion, maxElectionID) if result's values are
// not older; callers must hold t.mu.
func (t *Topology) recordMax(result IsMasterResult) {
	if result.SetVersion != nil && t.maxSetVersion != nil && *result.SetVersion < *t.maxSetVersion {
		return
	}
	newerVersion := result.SetVersion != nil && (t.maxSetVersion == nil || *result.SetVersion > *t.maxSetVersion)
	if newerVersion {
		v := *result.SetVersion
		t.maxSetVersion = &v
	}
	if result.HasElectionID && (newerVersion || !t.hasMaxElectionID || result.ElectionID.Compare(t.maxElectionID) > 0) {
		t.maxElectionID = result.ElectionID
		t.hasMaxElectionID = true
	}
}

// isAtLeastMax reports whether result's (setVersion, electionId) is not
// older than the topology's recorded max; callers must hold t.mu.
func (t *Topology) isAtLeastMax(result IsMasterResult) bool {
	if t.maxSetVersion == nil {
		return true
	}
	if result.SetVersion == nil {
		return false
	}
	if *result.SetVersion > *t.maxSetVersion {
		return true
	}
	if *result.SetVersion < *t.maxSetVersion {
		return false
	}
	// Equal setVersion: compare electionId; equal on both ties in favor of
	// the existing primary, i.e. is NOT considered "at least" new.
	if !t.hasMaxElectionID {
		return true
	}
	if !result.HasElectionID {
		return false
	}
	return result.ElectionID.Compare(t.maxElectionID) > 0
}

// mergeHosts adds any host in the union not yet tracked, as Unknown, and
// drops any tracked host (seeded or discovered) absent from the union;
// callers must hold t.mu.
func (t *Topology) mergeHosts(union []string) {
	keep := make(map[address.Address]struct{}, len(union))
	for _, h := range union {
		a := address.Address(h).Canonicalize()
		keep[a] = struct{}{}
		if _, ok := t.servers[a]; !ok {
			t.addServer(a)
		}
	}
	for a := range t.servers {
		if _, ok := keep[a]; !ok {
			delete(t.servers, a)
		}
	}
}
