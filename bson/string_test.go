// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "testing"

func TestDocumentStringRendersEmptyDocument(t *testing.T) {
	if got := NewDocument().String(); got != "{  }" {
		t.Fatalf("String() = %q, want %q", got, "{  }")
	}
}

func TestDocumentStringRendersScalarFields(t *testing.T) {
	doc := NewDocument(EC.String("drop", "logging"))
	if got := doc.String(); got != `{ drop: "logging" }` {
		t.Fatalf("String() = %q, want %q", got, `{ drop: "logging" }`)
	}
}

func TestDocumentStringRendersNestedDocumentsAndArrays(t *testing.T) {
	doc := NewDocument(
		EC.String("insert", "logging"),
		EC.Array("documents", NewDocument(EC.SubDocument("0", NewDocument(EC.Int32("_id", 1))))),
		EC.Boolean("ordered", true),
	)
	want := `{ insert: "logging", documents: [{ _id: 1 }], ordered: true }`
	if got := doc.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestValueStringCoversScalarTypes(t *testing.T) {
	cases := []struct {
		el   *Element
		want string
	}{
		{EC.Int32("x", 7), "7"},
		{EC.Int64("x", 42), "42"},
		{EC.Boolean("x", false), "false"},
		{EC.Null("x"), "null"},
		{EC.String("x", `quoted"value`), `"quoted\"value"`},
	}
	for _, c := range cases {
		if got := c.el.Value().String(); got != c.want {
			t.Fatalf("Value.String() = %q, want %q", got, c.want)
		}
	}
}
