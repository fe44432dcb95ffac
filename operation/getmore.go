// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"context"
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/mongoerr"
	"github.com/nimbusdb/nimbus-go-driver/topology"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

// GetMore fetches the next batch of an open server-side cursor. It must be
// sent to the same server that produced the cursor, which is why Connection
// (not a Selector) is its entry point rather than Executor.
func GetMore(ctx context.Context, conn *topology.Connection, ns string, cursorID int64, batchSize int32) (CursorResult, error) {
	gm := wiremessage.GetMore{
		FullCollectionName: ns,
		NumberToReturn:     batchSize,
		CursorID:           cursorID,
	}
	if err := conn.WriteWireMessage(ctx, gm); err != nil {
		return CursorResult{}, mongoerr.Wrap(mongoerr.KindIO, "getMore write failed", err)
	}

	wm, err := conn.ReadWireMessage(ctx)
	if err != nil {
		return CursorResult{}, mongoerr.Wrap(mongoerr.KindIO, "getMore read failed", err)
	}
	reply, ok := wm.(wiremessage.Reply)
	if !ok {
		return CursorResult{}, fmt.Errorf("operation: unexpected reply message type %T", wm)
	}
	if reply.ResponseFlags&wiremessage.CursorNotFound != 0 {
		return CursorResult{}, mongoerr.New(mongoerr.KindCursorNotFound, "cursor not found")
	}

	docs := make([]*bson.Document, 0, len(reply.Documents))
	for _, rdr := range reply.Documents {
		it, err := rdr.Iterator()
		if err != nil {
			return CursorResult{}, err
		}
		doc := bson.NewDocument()
		for it.Next() {
			e := *it.Element()
			doc.Append(&e)
		}
		if it.Err() != nil {
			return CursorResult{}, it.Err()
		}
		docs = append(docs, doc)
	}

	return CursorResult{FirstBatch: docs, ID: reply.CursorID, Namespace: ns}, nil
}

// KillCursors tells the server to discard one or more open cursors. The
// legacy wire protocol defines no reply to OP_KILL_CURSORS, so this is
// best-effort: a write failure is returned but there is nothing to read.
func KillCursors(ctx context.Context, conn *topology.Connection, cursorIDs ...int64) error {
	kc := wiremessage.KillCursors{
		NumberOfCursorIDs: int32(len(cursorIDs)),
		CursorIDs:         cursorIDs,
	}
	return conn.WriteWireMessage(ctx, kc)
}
