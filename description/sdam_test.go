package description

import (
	"errors"
	"testing"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/objectid"
)

func addr(s string) address.Address { return address.Address(s).Canonicalize() }

func TestStandaloneDiscovery(t *testing.T) {
	topo := New(TopologyUnknown, "", []address.Address{addr("h:27017")})

	result := IsMasterResult{IsMaster: true, MaxWireVersion: 4}
	if err := topo.ApplyIsMaster(addr("h:27017"), result, 5*time.Millisecond); err != nil {
		t.Fatalf("ApplyIsMaster: %v", err)
	}

	if topo.Kind() != Single {
		t.Fatalf("Kind() = %v, want Single", topo.Kind())
	}
	srv, ok := topo.Server(addr("h:27017"))
	if !ok {
		t.Fatal("expected server to be tracked")
	}
	if srv.Kind() != Standalone {
		t.Fatalf("server Kind() = %v, want Standalone", srv.Kind())
	}
}

func TestReplicaSetPrimaryStepDown(t *testing.T) {
	seeds := []address.Address{addr("a"), addr("b"), addr("c")}
	topo := New(TopologyUnknown, "", seeds)

	e1 := objectid.New()
	sv1 := int64(1)

	primaryResult := func(self address.Address) IsMasterResult {
		return IsMasterResult{
			IsMaster:      true,
			SetName:       "rs0",
			SetVersion:    &sv1,
			ElectionID:    e1,
			HasElectionID: true,
			Hosts:         []string{"a", "b", "c"},
		}
	}
	secondaryResult := IsMasterResult{
		Secondary: true,
		SetName:   "rs0",
		Hosts:     []string{"a", "b", "c"},
	}

	if err := topo.ApplyIsMaster(addr("a"), primaryResult(addr("a")), time.Millisecond); err != nil {
		t.Fatalf("a primary report: %v", err)
	}
	if topo.Kind() != ReplicaSetWithPrimary {
		t.Fatalf("Kind() = %v, want ReplicaSetWithPrimary", topo.Kind())
	}

	if err := topo.ApplyIsMaster(addr("b"), secondaryResult, time.Millisecond); err != nil {
		t.Fatalf("b secondary report: %v", err)
	}
	if err := topo.ApplyIsMaster(addr("c"), secondaryResult, time.Millisecond); err != nil {
		t.Fatalf("c secondary report: %v", err)
	}

	// a steps down.
	stepDown := IsMasterResult{Secondary: true, SetName: "rs0", Hosts: []string{"a", "b", "c"}}
	if err := topo.ApplyIsMaster(addr("a"), stepDown, time.Millisecond); err != nil {
		t.Fatalf("a step-down report: %v", err)
	}

	if topo.Kind() != ReplicaSetNoPrimary {
		t.Fatalf("Kind() = %v, want ReplicaSetNoPrimary", topo.Kind())
	}
	aSrv, _ := topo.Server(addr("a"))
	if aSrv.Kind() != RSSecondary {
		t.Fatalf("a Kind() = %v, want RSSecondary", aSrv.Kind())
	}
	if got := topo.MaxSetVersion(); got == nil || *got != 1 {
		t.Fatalf("MaxSetVersion() = %v, want 1", got)
	}
}

func TestConflictingPrimaries(t *testing.T) {
	seeds := []address.Address{addr("a"), addr("b"), addr("c")}
	topo := New(TopologyUnknown, "", seeds)

	sv1 := int64(1)
	e1 := objectid.New()
	e0 := objectid.Nil // zero ObjectID sorts before any freshly generated one

	primary := IsMasterResult{
		IsMaster:      true,
		SetName:       "rs0",
		SetVersion:    &sv1,
		ElectionID:    e1,
		HasElectionID: true,
		Hosts:         []string{"a", "b", "c"},
	}
	if err := topo.ApplyIsMaster(addr("a"), primary, time.Millisecond); err != nil {
		t.Fatalf("a primary report: %v", err)
	}

	staleClaim := IsMasterResult{
		IsMaster:      true,
		SetName:       "rs0",
		SetVersion:    &sv1,
		ElectionID:    e0,
		HasElectionID: true,
		Hosts:         []string{"a", "b", "c"},
	}
	err := topo.ApplyIsMaster(addr("c"), staleClaim, time.Millisecond)
	var stale *ErrStaleRescanNeeded
	if !errors.As(err, &stale) {
		t.Fatalf("ApplyIsMaster = %v, want *ErrStaleRescanNeeded", err)
	}

	if topo.Kind() != ReplicaSetWithPrimary {
		t.Fatalf("Kind() = %v, want ReplicaSetWithPrimary", topo.Kind())
	}
	aSrv, _ := topo.Server(addr("a"))
	if aSrv.Kind() != RSPrimary {
		t.Fatalf("a Kind() = %v, want RSPrimary (a must remain primary)", aSrv.Kind())
	}
}

func TestApplyErrorDemotesPrimaryLoss(t *testing.T) {
	seeds := []address.Address{addr("a")}
	topo := New(TopologyUnknown, "", seeds)
	sv1 := int64(1)
	e1 := objectid.New()
	primary := IsMasterResult{
		IsMaster: true, SetName: "rs0", SetVersion: &sv1, ElectionID: e1, HasElectionID: true,
		Hosts: []string{"a"},
	}
	if err := topo.ApplyIsMaster(addr("a"), primary, time.Millisecond); err != nil {
		t.Fatalf("primary report: %v", err)
	}

	topo.ApplyError(addr("a"), errors.New("connection reset"))
	if topo.Kind() != ReplicaSetNoPrimary {
		t.Fatalf("Kind() = %v, want ReplicaSetNoPrimary after losing the primary", topo.Kind())
	}
	aSrv, _ := topo.Server(addr("a"))
	if aSrv.Kind() != Unknown {
		t.Fatalf("a Kind() = %v, want Unknown", aSrv.Kind())
	}
}
