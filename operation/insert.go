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

// Insert represents the insert command: write a set of documents to a
// collection. Documents are batched to DefaultMaxBatchCount/
// DefaultMaxDocumentSize; an unordered batch continues past a failed
// document, an ordered one stops at the first.
type Insert struct {
	NS           Namespace
	Docs         []*bson.Document
	Ordered      bool
	WriteConcern *writeconcern.WriteConcern
}

// Execute round-trips every batch this insert splits into, accumulating the
// total inserted count and any per-document write errors.
func (op *Insert) Execute(ctx context.Context, ex *Executor) (InsertResult, error) {
	batches, err := splitDocuments(op.Docs, DefaultMaxBatchCount, DefaultMaxDocumentSize)
	if err != nil {
		return InsertResult{}, err
	}

	var res InsertResult
	for _, docs := range batches {
		cmd := bson.NewDocument(
			bson.EC.String("insert", op.NS.Collection),
			arrayOfDocuments("documents", docs),
			bson.EC.Boolean("ordered", op.Ordered),
		)
		if op.WriteConcern != nil {
			cmd.Append(bson.EC.SubDocument("writeConcern", op.WriteConcern.ToBSON()))
		}

		reply, err := ex.runCommand(ctx, "insert", op.NS.DB, cmd, topology.WriteSelector{})
		if err != nil && reply == nil {
			return res, err
		}

		writeErrors := parseWriteErrors(reply)
		res.WriteErrors = append(res.WriteErrors, writeErrors...)
		res.InsertedCount += lookupInt64(reply, "n")

		if op.Ordered && len(writeErrors) > 0 {
			break
		}
	}

	return res, nil
}
