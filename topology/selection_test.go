package topology

import (
	"testing"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/description"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
)

func addr(s string) address.Address { return address.Address(s) }

func buildReplicaSet(t *testing.T, members map[string]description.IsMasterResult, rtts map[string]time.Duration) *description.Topology {
	t.Helper()
	seeds := make([]address.Address, 0, len(members))
	for h := range members {
		seeds = append(seeds, addr(h))
	}
	topo := description.New(description.ReplicaSetNoPrimary, "rs0", seeds)
	for h, im := range members {
		if err := topo.ApplyIsMaster(addr(h), im, rtts[h]); err != nil {
			t.Fatalf("ApplyIsMaster(%s): %v", h, err)
		}
	}
	return topo
}

func TestSelectSecondaryByTagSet(t *testing.T) {
	members := map[string]description.IsMasterResult{
		"a:27017": {IsMaster: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}},
		"b:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}, Tags: map[string]string{"dc": "east"}},
		"c:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}, Tags: map[string]string{"dc": "west"}},
	}
	topo := buildReplicaSet(t, members, nil)

	tagSet := *bson.NewDocument(bson.EC.String("dc", "west"))
	sel := ReadPrefSelector{Pref: readpref.Secondary(tagSet)}
	got := sel.Select(topo)

	if len(got) != 1 || got[0] != addr("c:27017") {
		t.Fatalf("expected only c:27017 to match dc=west, got %v", got)
	}
}

func TestSelectNearestWithinLatencyWindow(t *testing.T) {
	members := map[string]description.IsMasterResult{
		"a:27017": {IsMaster: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}},
		"b:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}},
		"c:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017", "c:27017"}},
	}
	rtts := map[string]time.Duration{
		"a:27017": 10 * time.Millisecond,
		"b:27017": 12 * time.Millisecond,
		"c:27017": 50 * time.Millisecond,
	}
	topo := buildReplicaSet(t, members, rtts)
	topo.LocalThreshold = 15 * time.Millisecond

	sel := ReadPrefSelector{Pref: readpref.Nearest()}
	got := sel.Select(topo)

	want := map[address.Address]bool{addr("a:27017"): true, addr("b:27017"): true}
	if len(got) != 2 {
		t.Fatalf("expected 2 servers within the latency window, got %v", got)
	}
	for _, a := range got {
		if !want[a] {
			t.Fatalf("unexpected server %v selected outside latency window", a)
		}
	}
}

func TestSelectPrimaryPreferredFallsBackToSecondary(t *testing.T) {
	members := map[string]description.IsMasterResult{
		"a:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017"}},
		"b:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017"}},
	}
	topo := buildReplicaSet(t, members, nil)

	sel := ReadPrefSelector{Pref: readpref.PrimaryPreferred()}
	got := sel.Select(topo)
	if len(got) != 2 {
		t.Fatalf("expected both secondaries as fallback candidates, got %v", got)
	}
}

func TestSelectPrimaryPreferredReturnsPrimaryRegardlessOfTags(t *testing.T) {
	members := map[string]description.IsMasterResult{
		"a:27017": {IsMaster: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017"}},
		"b:27017": {Secondary: true, SetName: "rs0", Hosts: []string{"a:27017", "b:27017"}, Tags: map[string]string{"dc": "east"}},
	}
	topo := buildReplicaSet(t, members, nil)

	tagSet := *bson.NewDocument(bson.EC.String("dc", "west"))
	sel := ReadPrefSelector{Pref: readpref.PrimaryPreferred(tagSet)}
	got := sel.Select(topo)

	if len(got) != 1 || got[0] != addr("a:27017") {
		t.Fatalf("expected the primary despite the tag mismatch, got %v", got)
	}
}
