package writeconcern

import "testing"

func TestDefaultIsAcknowledged(t *testing.T) {
	if !New().IsAcknowledged() {
		t.Fatal("default write concern should be acknowledged")
	}
}

func TestUnacknowledged(t *testing.T) {
	wc := Unacknowledged()
	if wc.IsAcknowledged() {
		t.Fatal("w=0 write concern should not be acknowledged")
	}
}

func TestNilReceiverIsAcknowledged(t *testing.T) {
	var wc *WriteConcern
	if !wc.IsAcknowledged() {
		t.Fatal("nil write concern should be treated as the server default (acknowledged)")
	}
}

func TestMajorityToBSON(t *testing.T) {
	doc := Majority().ToBSON()
	el, ok := doc.Lookup("w")
	if !ok {
		t.Fatal("expected w field")
	}
	if el.Value().StringValue() != "majority" {
		t.Fatalf("w = %v, want majority", el.Value())
	}
}

func TestJournaledToBSON(t *testing.T) {
	wc := New()
	wc.J = true
	doc := wc.ToBSON()
	el, ok := doc.Lookup("j")
	if !ok {
		t.Fatal("expected j field")
	}
	if !el.Value().Boolean() {
		t.Fatal("j should be true")
	}
}
