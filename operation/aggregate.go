// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"context"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// Aggregate represents the aggregate command: run a pipeline of stages
// against a collection and return the resulting cursor.
type Aggregate struct {
	NS        Namespace
	Pipeline  []*bson.Document
	BatchSize int32
	ReadPref  *readpref.ReadPref
}

func (op *Aggregate) buildCommand() *bson.Document {
	cursorOpt := bson.NewDocument()
	if op.BatchSize > 0 {
		cursorOpt.Append(bson.EC.Int32("batchSize", op.BatchSize))
	}

	return bson.NewDocument(
		bson.EC.String("aggregate", op.NS.Collection),
		arrayOfDocuments("pipeline", op.Pipeline),
		bson.EC.SubDocument("cursor", cursorOpt),
	)
}

// Execute runs the pipeline and returns the first batch plus cursor id,
// checking the connection back in once the reply is read.
func (op *Aggregate) Execute(ctx context.Context, ex *Executor) (CursorResult, error) {
	reply, err := ex.runCommand(ctx, "aggregate", op.NS.DB, op.buildCommand(), ReadSelector(op.ReadPref))
	if err != nil {
		return CursorResult{}, err
	}
	return parseCursorResult(reply), nil
}

// Open runs the pipeline and leaves the connection checked out, for
// wrapping in a cursor.Cursor that will page through getMore on the same
// server.
func (op *Aggregate) Open(ctx context.Context, ex *Executor) (*topology.Server, *topology.Connection, CursorResult, error) {
	return ex.OpenCommandCursor(ctx, "aggregate", op.NS.DB, op.buildCommand(), ReadSelector(op.ReadPref))
}

// ListCollections represents the listCollections command: the collections
// defined in a database, optionally narrowed by a filter.
type ListCollections struct {
	DB     string
	Filter *bson.Document
}

func (op *ListCollections) buildCommand() *bson.Document {
	cmd := bson.NewDocument(
		bson.EC.Int32("listCollections", 1),
		bson.EC.SubDocument("cursor", bson.NewDocument()),
	)
	if op.Filter != nil {
		cmd.Append(bson.EC.SubDocument("filter", op.Filter))
	}
	return cmd
}

// Execute runs listCollections and returns the first batch plus cursor id,
// checking the connection back in once the reply is read.
func (op *ListCollections) Execute(ctx context.Context, ex *Executor) (CursorResult, error) {
	reply, err := ex.runCommand(ctx, "listCollections", op.DB, op.buildCommand(), ReadSelector(readpref.Primary()))
	if err != nil {
		return CursorResult{}, err
	}
	return parseCursorResult(reply), nil
}

// Open runs listCollections and leaves the connection checked out, for
// wrapping in a cursor.Cursor.
func (op *ListCollections) Open(ctx context.Context, ex *Executor) (*topology.Server, *topology.Connection, CursorResult, error) {
	return ex.OpenCommandCursor(ctx, "listCollections", op.DB, op.buildCommand(), ReadSelector(readpref.Primary()))
}
