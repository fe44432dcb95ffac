// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/description"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
)

// Selector narrows a Topology description down to the addresses that may
// serve an operation. Select may be called repeatedly against an
// ever-changing Topology; it must not retain any state between calls.
type Selector interface {
	fmt.Stringer
	Select(topo *description.Topology) []address.Address
}

// WriteSelector always resolves to the replica set primary, the sole
// standalone, or any mongos: the only servers writes may ever target.
type WriteSelector struct{}

// String implements fmt.Stringer.
func (WriteSelector) String() string { return "write" }

// Select implements Selector.
func (WriteSelector) Select(topo *description.Topology) []address.Address {
	switch topo.Kind() {
	case description.Single:
		return soleServer(topo)
	case description.Sharded:
		return serversOfKind(topo, description.Mongos)
	case description.ReplicaSetWithPrimary:
		return serversOfKind(topo, description.RSPrimary)
	default:
		return nil
	}
}

// ReadPrefSelector narrows candidates per a readpref.ReadPref's mode, tag
// sets, and (for Nearest) latency window.
type ReadPrefSelector struct {
	Pref *readpref.ReadPref
}

// String implements fmt.Stringer.
func (s ReadPrefSelector) String() string {
	if s.Pref == nil {
		return "readPref(primary)"
	}
	return fmt.Sprintf("readPref(%s)", s.Pref.Mode())
}

// Select implements Selector.
func (s ReadPrefSelector) Select(topo *description.Topology) []address.Address {
	pref := s.Pref
	if pref == nil {
		pref = readpref.Primary()
	}

	switch topo.Kind() {
	case description.Single:
		return soleServer(topo)
	case description.Sharded:
		return serversOfKind(topo, description.Mongos)
	case description.ReplicaSetWithPrimary, description.ReplicaSetNoPrimary:
		return selectFromReplicaSet(topo, pref)
	default:
		return nil
	}
}

func soleServer(topo *description.Topology) []address.Address {
	servers := topo.Servers()
	if len(servers) != 1 || servers[0].Kind() == description.Unknown {
		return nil
	}
	return []address.Address{servers[0].Addr()}
}

func serversOfKind(topo *description.Topology, kind description.ServerType) []address.Address {
	var out []address.Address
	for _, s := range topo.Servers() {
		if s.Kind() == kind {
			out = append(out, s.Addr())
		}
	}
	return out
}

func selectFromReplicaSet(topo *description.Topology, pref *readpref.ReadPref) []address.Address {
	servers := topo.Servers()

	var primary []*description.Server
	var secondaries []*description.Server
	for _, s := range servers {
		switch s.Kind() {
		case description.RSPrimary:
			primary = append(primary, s)
		case description.RSSecondary:
			secondaries = append(secondaries, s)
		}
	}

	var candidates []*description.Server
	primaryOnly := false
	switch pref.Mode() {
	case readpref.PrimaryMode:
		candidates = primary
		primaryOnly = true
	case readpref.PrimaryPreferredMode:
		if len(primary) > 0 {
			candidates = primary
			primaryOnly = true
		} else {
			candidates = secondaries
		}
	case readpref.SecondaryMode:
		candidates = secondaries
	case readpref.SecondaryPreferredMode:
		if len(secondaries) > 0 {
			candidates = secondaries
		} else {
			candidates = primary
			primaryOnly = true
		}
	case readpref.NearestMode:
		candidates = append(append([]*description.Server{}, primary...), secondaries...)
	}

	// Primary-only candidates are never tag-filtered: a primary always
	// satisfies every read preference that falls back to it. This is
	// judged by whether the resolved candidate set *is* the primary (the
	// primaryOnly flag set above), not by pref.Mode() itself: a
	// PrimaryPreferred selection that resolved to the primary is exactly
	// such a fall-back and must skip tag filtering too, same as
	// PrimaryMode. Nearest's mixed primary+secondary set is never
	// primary-only and is always filtered.
	if !primaryOnly && len(candidates) > 0 {
		candidates = filterByTagSets(candidates, pref.TagSets())
	}

	return latencyWindow(candidates, topo.LocalThreshold)
}

func filterByTagSets(candidates []*description.Server, tagSets []bson.Document) []*description.Server {
	if len(tagSets) == 0 {
		return candidates
	}
	for _, tagSet := range tagSets {
		var matched []*description.Server
		for _, s := range candidates {
			if tagsMatch(s.Tags(), &tagSet) {
				matched = append(matched, s)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	return nil
}

func tagsMatch(serverTags map[string]string, tagSet *bson.Document) bool {
	for i := 0; i < tagSet.Len(); i++ {
		el, err := tagSet.ElementAt(i)
		if err != nil {
			return false
		}
		want, ok := el.Value().StringValueOK()
		if !ok || serverTags[el.Key()] != want {
			return false
		}
	}
	return true
}

func latencyWindow(candidates []*description.Server, localThreshold time.Duration) []address.Address {
	if len(candidates) == 0 {
		return nil
	}
	min := time.Duration(-1)
	for _, s := range candidates {
		rtt, _ := s.AverageRTT()
		if min == -1 || rtt < min {
			min = rtt
		}
	}

	var out []address.Address
	for _, s := range candidates {
		rtt, _ := s.AverageRTT()
		if rtt <= min+localThreshold {
			out = append(out, s.Addr())
		}
	}
	return out
}

func pickRandomIndex(n int) int {
	if n == 1 {
		return 0
	}
	return rand.Intn(n)
}
