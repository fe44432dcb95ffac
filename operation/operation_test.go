// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/mongoerr"
)

func TestNamespaceRendering(t *testing.T) {
	ns := Namespace{DB: "test", Collection: "widgets"}
	require.Equal(t, "test.widgets", ns.FullName())
	require.Equal(t, "test.$cmd", ns.CommandNamespace())
}

func TestCheckOKPassesAcknowledgedReply(t *testing.T) {
	reply := bson.NewDocument(bson.EC.Int32("ok", 1), bson.EC.Int32("n", 3))
	require.NoError(t, checkOK(reply))
}

func TestCheckOKTranslatesCodedFailure(t *testing.T) {
	reply := bson.NewDocument(
		bson.EC.Int32("ok", 0),
		bson.EC.Int32("code", int32(mongoerr.DuplicateKey)),
		bson.EC.String("errmsg", "E11000 duplicate key error"),
	)
	err := checkOK(reply)
	require.Error(t, err)

	merr, ok := err.(*mongoerr.Error)
	require.True(t, ok, "expected *mongoerr.Error, got %T", err)
	require.Equal(t, mongoerr.DuplicateKey, merr.Code)
}

func TestCheckOKWithoutCodeFallsBackToOperationKind(t *testing.T) {
	reply := bson.NewDocument(bson.EC.Int32("ok", 0), bson.EC.String("errmsg", "bad cmd"))
	err := checkOK(reply)
	merr, ok := err.(*mongoerr.Error)
	require.True(t, ok)
	require.Equal(t, mongoerr.KindOperation, merr.Kind)
}

func TestSplitDocumentsRespectsMaxCount(t *testing.T) {
	docs := make([]*bson.Document, 5)
	for i := range docs {
		docs[i] = bson.NewDocument(bson.EC.Int32("x", int32(i)))
	}

	batches, err := splitDocuments(docs, 2, DefaultMaxDocumentSize)
	if err != nil {
		t.Fatalf("splitDocuments: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 || len(batches[2]) != 1 {
		t.Fatalf("unexpected batch sizes: %v", batchSizes(batches))
	}
}

func batchSizes(batches [][]*bson.Document) []int {
	out := make([]int, len(batches))
	for i, b := range batches {
		out[i] = len(b)
	}
	return out
}

func TestParseWriteErrors(t *testing.T) {
	weArr := bson.NewDocument(bson.EC.SubDocument("0", bson.NewDocument(
		bson.EC.Int32("index", 2),
		bson.EC.Int32("code", int32(mongoerr.DuplicateKey)),
		bson.EC.String("errmsg", "dup"),
	)))
	reply := bson.NewDocument(bson.EC.Array("writeErrors", weArr))

	errs := parseWriteErrors(reply)
	want := []WriteError{{Index: 2, Code: int32(mongoerr.DuplicateKey), Message: "dup"}}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("parseWriteErrors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCursorResult(t *testing.T) {
	batch := bson.NewDocument(bson.EC.SubDocument("0", bson.NewDocument(bson.EC.Int32("x", 1))))
	cursorDoc := bson.NewDocument(
		bson.EC.Int64("id", 42),
		bson.EC.String("ns", "db.coll"),
		bson.EC.Array("firstBatch", batch),
	)
	reply := bson.NewDocument(bson.EC.SubDocument("cursor", cursorDoc))

	cr := parseCursorResult(reply)
	if cr.ID != 42 || cr.Namespace != "db.coll" || len(cr.FirstBatch) != 1 {
		t.Fatalf("unexpected cursor result: %+v", cr)
	}
}

func TestUpdateModelToDocument(t *testing.T) {
	m := UpdateModel{
		Filter: bson.NewDocument(bson.EC.Int32("_id", 1)),
		Update: bson.NewDocument(bson.EC.SubDocument("$set", bson.NewDocument(bson.EC.Int32("a", 2)))),
		Upsert: true,
		Multi:  false,
	}
	doc := m.toDocument()
	if _, ok := doc.Lookup("q"); !ok {
		t.Fatal("expected q field")
	}
	el, ok := doc.Lookup("upsert")
	if !ok {
		t.Fatal("expected upsert field")
	}
	if b, _ := el.Value().BooleanOK(); !b {
		t.Fatal("expected upsert=true")
	}
}
