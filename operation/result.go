// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import "github.com/nimbusdb/nimbus-go-driver/bson"

// WriteError is a single document's failure within a batch write.
type WriteError struct {
	Index   int32
	Code    int32
	Message string
}

// InsertResult reports how many documents an insert command acknowledged.
type InsertResult struct {
	InsertedCount int64
	WriteErrors   []WriteError
}

// UpdateResult reports how many documents an update command matched and
// modified, plus the _id of any document it upserted.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    *bson.Value
	WriteErrors   []WriteError
}

// DeleteResult reports how many documents a delete command removed.
type DeleteResult struct {
	DeletedCount int64
	WriteErrors  []WriteError
}

// CursorResult is the portion of a reply describing a server-side cursor:
// the batch already returned plus the id to page through the rest with,
// shared by find, aggregate, and listCollections.
type CursorResult struct {
	FirstBatch []*bson.Document
	ID         int64
	Namespace  string
}

func parseWriteErrors(reply *bson.Document) []WriteError {
	el, ok := reply.Lookup("writeErrors")
	if !ok {
		return nil
	}
	arr, ok := el.Value().Document()
	if !ok {
		return nil
	}
	var out []WriteError
	for i := 0; i < arr.Len(); i++ {
		elem, err := arr.ElementAt(i)
		if err != nil {
			continue
		}
		doc, ok := elem.Value().Document()
		if !ok {
			continue
		}
		var we WriteError
		if v, ok := doc.Lookup("index"); ok {
			we.Index, _ = v.Value().Int32OK()
		}
		if v, ok := doc.Lookup("code"); ok {
			we.Code, _ = v.Value().Int32OK()
		}
		if v, ok := doc.Lookup("errmsg"); ok {
			we.Message, _ = v.Value().StringValueOK()
		}
		out = append(out, we)
	}
	return out
}

func lookupInt64(doc *bson.Document, key string) int64 {
	el, ok := doc.Lookup(key)
	if !ok {
		return 0
	}
	switch el.Value().Type() {
	case bson.TypeInt64:
		v, _ := el.Value().Int64OK()
		return v
	case bson.TypeInt32:
		v, _ := el.Value().Int32OK()
		return int64(v)
	case bson.TypeDouble:
		v, _ := el.Value().DoubleOK()
		return int64(v)
	default:
		return 0
	}
}

func parseCursorResult(reply *bson.Document) CursorResult {
	el, ok := reply.Lookup("cursor")
	if !ok {
		return CursorResult{}
	}
	cursorDoc, ok := el.Value().Document()
	if !ok {
		return CursorResult{}
	}
	var cr CursorResult
	cr.ID = lookupInt64(cursorDoc, "id")
	if v, ok := cursorDoc.Lookup("ns"); ok {
		cr.Namespace, _ = v.Value().StringValueOK()
	}
	batchKey := "firstBatch"
	if _, ok := cursorDoc.Lookup("nextBatch"); ok {
		batchKey = "nextBatch"
	}
	if v, ok := cursorDoc.Lookup(batchKey); ok {
		if arr, ok := v.Value().Document(); ok {
			for i := 0; i < arr.Len(); i++ {
				elem, err := arr.ElementAt(i)
				if err != nil {
					continue
				}
				if d, ok := elem.Value().Document(); ok {
					cr.FirstBatch = append(cr.FirstBatch, d)
				}
			}
		}
	}
	return cr
}
