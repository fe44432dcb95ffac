// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package cursor

import (
	"context"
	"testing"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/operation"
)

func doc(n int32) *bson.Document {
	return bson.NewDocument(bson.EC.Int32("x", n))
}

func TestCursorIteratesSingleExhaustedBatch(t *testing.T) {
	cr := operation.CursorResult{
		FirstBatch: []*bson.Document{doc(1), doc(2), doc(3)},
		ID:         0,
		Namespace:  "db.coll",
	}
	c := New(nil, nil, cr, 0)

	var got []int32
	for c.Next(context.Background()) {
		el, _ := c.Current().Lookup("x")
		v, _ := el.Value().Int32OK()
		got = append(got, v)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected documents: %v", got)
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice must not panic or error.
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCursorAllDrainsRemainingDocuments(t *testing.T) {
	cr := operation.CursorResult{
		FirstBatch: []*bson.Document{doc(1), doc(2)},
		ID:         0,
		Namespace:  "db.coll",
	}
	c := New(nil, nil, cr, 0)

	docs, err := c.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestCursorNextFalseOnEmptyExhaustedBatch(t *testing.T) {
	c := New(nil, nil, operation.CursorResult{}, 0)
	if c.Next(context.Background()) {
		t.Fatal("expected Next to return false for an empty, already-exhausted cursor")
	}
	if c.Err() != nil {
		t.Fatalf("unexpected error: %v", c.Err())
	}
}
