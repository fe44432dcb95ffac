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
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

// Find represents a query against a collection, sent as a legacy OP_QUERY
// directly to the collection namespace rather than as a $cmd command.
type Find struct {
	NS         Namespace
	Filter     *bson.Document
	Projection *bson.Document
	Sort       *bson.Document
	Skip       int32
	Limit      int32
	BatchSize  int32
	ReadPref   *readpref.ReadPref
}

func (op *Find) buildQuery() (wiremessage.Query, error) {
	filter := op.Filter
	if filter == nil {
		filter = bson.NewDocument()
	}

	queryDoc := filter
	if op.Sort != nil {
		queryDoc = bson.NewDocument(
			bson.EC.SubDocument("$query", filter),
			bson.EC.SubDocument("$orderby", op.Sort),
		)
	}

	body, err := bson.Marshal(queryDoc)
	if err != nil {
		return wiremessage.Query{}, err
	}

	var selector bson.Reader
	if op.Projection != nil {
		selector, err = bson.Marshal(op.Projection)
		if err != nil {
			return wiremessage.Query{}, err
		}
	}

	numberToReturn := op.BatchSize
	if op.Limit < 0 {
		numberToReturn = op.Limit
	} else if op.Limit > 0 && (op.BatchSize == 0 || op.Limit < op.BatchSize) {
		numberToReturn = op.Limit
	}

	var flags wiremessage.OpQueryFlags
	if op.ReadPref != nil && op.ReadPref.Mode() != readpref.PrimaryMode {
		flags |= wiremessage.SlaveOK
	}

	return wiremessage.Query{
		Flags:                flags,
		FullCollectionName:   op.NS.FullName(),
		NumberToSkip:         op.Skip,
		NumberToReturn:       numberToReturn,
		Query:                body,
		ReturnFieldsSelector: selector,
	}, nil
}

// Execute sends the query and returns the first batch plus cursor id,
// checking the connection back in once the reply is read. Use Open instead
// when the cursor id may be non-zero and the caller intends to page through
// the rest with getMore.
func (op *Find) Execute(ctx context.Context, ex *Executor) (CursorResult, error) {
	q, err := op.buildQuery()
	if err != nil {
		return CursorResult{}, err
	}
	return ex.queryFirstBatch(ctx, op.NS, q, ReadSelector(op.ReadPref))
}

// Open sends the query and leaves the connection checked out, for wrapping
// in a cursor.Cursor that will page through getMore on the same server.
func (op *Find) Open(ctx context.Context, ex *Executor) (*topology.Server, *topology.Connection, CursorResult, error) {
	q, err := op.buildQuery()
	if err != nil {
		return nil, nil, CursorResult{}, err
	}
	return ex.OpenQueryCursor(ctx, op.NS, q, ReadSelector(op.ReadPref))
}

// FindOne is Find with an implicit limit of one document.
type FindOne struct {
	NS         Namespace
	Filter     *bson.Document
	Projection *bson.Document
	Sort       *bson.Document
	ReadPref   *readpref.ReadPref
}

// Execute returns the first matching document, or nil if none matched.
func (op *FindOne) Execute(ctx context.Context, ex *Executor) (*bson.Document, error) {
	find := &Find{
		NS:         op.NS,
		Filter:     op.Filter,
		Projection: op.Projection,
		Sort:       op.Sort,
		Limit:      -1,
		ReadPref:   op.ReadPref,
	}
	cr, err := find.Execute(ctx, ex)
	if err != nil {
		return nil, err
	}
	if len(cr.FirstBatch) == 0 {
		return nil, nil
	}
	return cr.FirstBatch[0], nil
}
