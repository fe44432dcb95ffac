// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"context"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/topology"
	"github.com/nimbusdb/nimbus-go-driver/writeconcern"
)

// UpdateModel is a single entry of an update command's "updates" array.
type UpdateModel struct {
	Filter *bson.Document
	Update *bson.Document
	Upsert bool
	Multi  bool
}

func (m UpdateModel) toDocument() *bson.Document {
	return bson.NewDocument(
		bson.EC.SubDocument("q", m.Filter),
		bson.EC.SubDocument("u", m.Update),
		bson.EC.Boolean("upsert", m.Upsert),
		bson.EC.Boolean("multi", m.Multi),
	)
}

// Update represents the update command: apply one or more update
// specifications against matching documents.
type Update struct {
	NS           Namespace
	Updates      []UpdateModel
	Ordered      bool
	WriteConcern *writeconcern.WriteConcern
}

// Execute round-trips the update command and aggregates match/modify counts
// and any write errors across batches.
func (op *Update) Execute(ctx context.Context, ex *Executor) (UpdateResult, error) {
	docs := make([]*bson.Document, len(op.Updates))
	for i, m := range op.Updates {
		docs[i] = m.toDocument()
	}

	batches, err := splitDocuments(docs, DefaultMaxBatchCount, DefaultMaxDocumentSize)
	if err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	for _, batch := range batches {
		cmd := bson.NewDocument(
			bson.EC.String("update", op.NS.Collection),
			arrayOfDocuments("updates", batch),
			bson.EC.Boolean("ordered", op.Ordered),
		)
		if op.WriteConcern != nil {
			cmd.Append(bson.EC.SubDocument("writeConcern", op.WriteConcern.ToBSON()))
		}

		reply, err := ex.runCommand(ctx, "update", op.NS.DB, cmd, topology.WriteSelector{})
		if err != nil && reply == nil {
			return res, err
		}

		writeErrors := parseWriteErrors(reply)
		res.WriteErrors = append(res.WriteErrors, writeErrors...)
		res.MatchedCount += lookupInt64(reply, "n")
		res.ModifiedCount += lookupInt64(reply, "nModified")

		if el, ok := reply.Lookup("upserted"); ok {
			if arr, ok := el.Value().Document(); ok && arr.Len() > 0 {
				if first, err := arr.ElementAt(0); err == nil {
					if upDoc, ok := first.Value().Document(); ok {
						if idEl, ok := upDoc.Lookup("_id"); ok {
							v := idEl.Value()
							res.UpsertedID = &v
						}
					}
				}
			}
		}

		if op.Ordered && len(writeErrors) > 0 {
			break
		}
	}

	return res, nil
}
