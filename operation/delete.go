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

// DeleteModel is a single entry of a delete command's "deletes" array.
// Limit is 0 for "remove all matching" or 1 for "remove the first match".
type DeleteModel struct {
	Filter *bson.Document
	Limit  int32
}

func (m DeleteModel) toDocument() *bson.Document {
	return bson.NewDocument(
		bson.EC.SubDocument("q", m.Filter),
		bson.EC.Int32("limit", m.Limit),
	)
}

// Delete represents the delete command: remove documents matching one or
// more filter specifications.
type Delete struct {
	NS           Namespace
	Deletes      []DeleteModel
	Ordered      bool
	WriteConcern *writeconcern.WriteConcern
}

// Execute round-trips the delete command and aggregates the removed count
// and any write errors across batches.
func (op *Delete) Execute(ctx context.Context, ex *Executor) (DeleteResult, error) {
	docs := make([]*bson.Document, len(op.Deletes))
	for i, m := range op.Deletes {
		docs[i] = m.toDocument()
	}

	batches, err := splitDocuments(docs, DefaultMaxBatchCount, DefaultMaxDocumentSize)
	if err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult
	for _, batch := range batches {
		cmd := bson.NewDocument(
			bson.EC.String("delete", op.NS.Collection),
			arrayOfDocuments("deletes", batch),
			bson.EC.Boolean("ordered", op.Ordered),
		)
		if op.WriteConcern != nil {
			cmd.Append(bson.EC.SubDocument("writeConcern", op.WriteConcern.ToBSON()))
		}

		reply, err := ex.runCommand(ctx, "delete", op.NS.DB, cmd, topology.WriteSelector{})
		if err != nil && reply == nil {
			return res, err
		}

		writeErrors := parseWriteErrors(reply)
		res.WriteErrors = append(res.WriteErrors, writeErrors...)
		res.DeletedCount += lookupInt64(reply, "n")

		if op.Ordered && len(writeErrors) > 0 {
			break
		}
	}

	return res, nil
}
