package bson

import (
	"testing"

	"github.com/nimbusdb/nimbus-go-driver/objectid"
)

func TestMarshalRoundTrip(t *testing.T) {
	id := objectid.New()
	doc := NewDocument(
		EC.Int32("ok", 1),
		EC.String("name", "nimbus"),
		EC.Int64("count", 42),
		EC.Boolean("flag", true),
		EC.ObjectID("_id", id),
		EC.Null("nothing"),
		EC.SubDocument("nested", NewDocument(EC.String("k", "v"))),
		EC.ArrayFromStrings("tags", []string{"a", "b", "c"}),
	)

	raw, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := raw.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	it, err := raw.Iterator()
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}

	got := map[string]*Element{}
	for it.Next() {
		e := *it.Element()
		got[e.Key()] = &e
	}
	if it.Err() != nil {
		t.Fatalf("iteration error: %v", it.Err())
	}

	if v, ok := got["ok"].Value().Int32OK(); !ok || v != 1 {
		t.Errorf("ok = %v, %v", v, ok)
	}
	if v, ok := got["name"].Value().StringValueOK(); !ok || v != "nimbus" {
		t.Errorf("name = %v, %v", v, ok)
	}
	if v, ok := got["count"].Value().Int64OK(); !ok || v != 42 {
		t.Errorf("count = %v, %v", v, ok)
	}
	if v, ok := got["flag"].Value().BooleanOK(); !ok || !v {
		t.Errorf("flag = %v, %v", v, ok)
	}
	if v, ok := got["_id"].Value().ObjectIDOK(); !ok || v != id {
		t.Errorf("_id = %v, %v", v, ok)
	}
	if !got["nothing"].Value().IsNull() {
		t.Errorf("nothing should be null")
	}
	nested, ok := got["nested"].Value().Document()
	if !ok {
		t.Fatal("nested should be a document")
	}
	nestedElem, ok := nested.Lookup("k")
	if !ok {
		t.Fatal("nested.k missing")
	}
	if s, _ := nestedElem.Value().StringValueOK(); s != "v" {
		t.Errorf("nested.k = %q", s)
	}

	tags, ok := got["tags"].Value().Document()
	if !ok || tags.Len() != 3 {
		t.Fatalf("tags array decode failed: %v %v", ok, tags)
	}
}

func TestValidateRejectsTruncated(t *testing.T) {
	doc := NewDocument(EC.Int32("a", 1))
	raw, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	truncated := raw[:len(raw)-2]
	if _, err := truncated.Validate(); err == nil {
		t.Fatal("expected Validate to reject a truncated document")
	}
}

func TestValidateRejectsMissingTrailingNull(t *testing.T) {
	doc := NewDocument(EC.Int32("a", 1))
	raw, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	mutated := append([]byte{}, raw...)
	mutated[len(mutated)-1] = 1
	if _, err := Reader(mutated).Validate(); err == nil {
		t.Fatal("expected Validate to reject a document missing its trailing null byte")
	}
}
