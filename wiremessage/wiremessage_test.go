package wiremessage

import (
	"testing"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

func TestRequestIDsAreMonotonicallyIncreasing(t *testing.T) {
	a := NextRequestID()
	b := NextRequestID()
	if b <= a {
		t.Fatalf("NextRequestID() not increasing: %d then %d", a, b)
	}
}

func mustMarshal(t *testing.T, d *bson.Document) bson.Reader {
	t.Helper()
	r, err := bson.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return r
}

func TestQueryRoundTrip(t *testing.T) {
	q := Query{
		MsgHeader:          Header{RequestID: 7},
		Flags:              SlaveOK,
		FullCollectionName: "db.$cmd",
		NumberToSkip:       0,
		NumberToReturn:     -1,
		Query:              mustMarshal(t, bson.NewDocument(bson.EC.Int32("ismaster", 1))),
	}
	buf, err := q.AppendWireMessage(nil)
	if err != nil {
		t.Fatalf("AppendWireMessage: %v", err)
	}

	hdr, err := ReadHeader(buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.OpCode != OpQuery {
		t.Fatalf("OpCode = %s, want OP_QUERY", hdr.OpCode)
	}
	if int(hdr.MessageLength) != len(buf) {
		t.Fatalf("MessageLength = %d, want %d", hdr.MessageLength, len(buf))
	}

	var decoded Query
	if err := decoded.UnmarshalWireMessage(buf); err != nil {
		t.Fatalf("UnmarshalWireMessage: %v", err)
	}
	if decoded.FullCollectionName != "db.$cmd" {
		t.Errorf("FullCollectionName = %q", decoded.FullCollectionName)
	}
	if decoded.NumberToReturn != -1 {
		t.Errorf("NumberToReturn = %d", decoded.NumberToReturn)
	}
	if decoded.Flags != SlaveOK {
		t.Errorf("Flags = %v", decoded.Flags)
	}
}

func TestGetMoreRoundTrip(t *testing.T) {
	g := GetMore{FullCollectionName: "db.coll", NumberToReturn: 100, CursorID: 42}
	buf, err := g.AppendWireMessage(nil)
	if err != nil {
		t.Fatalf("AppendWireMessage: %v", err)
	}
	var decoded GetMore
	if err := decoded.UnmarshalWireMessage(buf); err != nil {
		t.Fatalf("UnmarshalWireMessage: %v", err)
	}
	if decoded.CursorID != 42 || decoded.NumberToReturn != 100 || decoded.FullCollectionName != "db.coll" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestKillCursorsRoundTrip(t *testing.T) {
	k := KillCursors{CursorIDs: []int64{1, 2, 3}}
	buf, err := k.AppendWireMessage(nil)
	if err != nil {
		t.Fatalf("AppendWireMessage: %v", err)
	}
	var decoded KillCursors
	if err := decoded.UnmarshalWireMessage(buf); err != nil {
		t.Fatalf("UnmarshalWireMessage: %v", err)
	}
	if decoded.NumberOfCursorIDs != 3 || len(decoded.CursorIDs) != 3 || decoded.CursorIDs[2] != 3 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestReplyRoundTripAndNumberReturnedMismatch(t *testing.T) {
	doc := mustMarshal(t, bson.NewDocument(bson.EC.Int32("ok", 1)))
	r := Reply{CursorID: 7, NumberReturned: 1, Documents: []bson.Reader{doc}}
	buf, err := r.AppendWireMessage(nil)
	if err != nil {
		t.Fatalf("AppendWireMessage: %v", err)
	}

	var decoded Reply
	if err := decoded.UnmarshalWireMessage(buf); err != nil {
		t.Fatalf("UnmarshalWireMessage: %v", err)
	}
	if decoded.CursorID != 7 || len(decoded.Documents) != 1 {
		t.Fatalf("decoded = %+v", decoded)
	}

	// Corrupt numberReturned to simulate a protocol violation.
	patched := append([]byte{}, buf...)
	patched[16+4+8+4] = 2 // numberReturned field, low byte
	var bad Reply
	if err := bad.UnmarshalWireMessage(patched); err == nil {
		t.Fatal("expected mismatch between numberReturned and document count to error")
	}
}
