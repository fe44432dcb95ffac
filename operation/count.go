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
)

// Count represents the count command: the number of documents in a
// collection matching an optional filter.
type Count struct {
	NS       Namespace
	Filter   *bson.Document
	Skip     int32
	Limit    int32
	ReadPref *readpref.ReadPref
}

// Execute returns the matched document count.
func (op *Count) Execute(ctx context.Context, ex *Executor) (int64, error) {
	cmd := bson.NewDocument(bson.EC.String("count", op.NS.Collection))
	if op.Filter != nil {
		cmd.Append(bson.EC.SubDocument("query", op.Filter))
	}
	if op.Skip != 0 {
		cmd.Append(bson.EC.Int32("skip", op.Skip))
	}
	if op.Limit != 0 {
		cmd.Append(bson.EC.Int32("limit", op.Limit))
	}

	reply, err := ex.runCommand(ctx, "count", op.NS.DB, cmd, ReadSelector(op.ReadPref))
	if err != nil {
		return 0, err
	}
	return lookupInt64(reply, "n"), nil
}

// Distinct represents the distinct command: the set of unique values for a
// field across documents matching an optional filter.
type Distinct struct {
	NS       Namespace
	Field    string
	Filter   *bson.Document
	ReadPref *readpref.ReadPref
}

// Execute returns the distinct values the server reported.
func (op *Distinct) Execute(ctx context.Context, ex *Executor) ([]bson.Value, error) {
	cmd := bson.NewDocument(
		bson.EC.String("distinct", op.NS.Collection),
		bson.EC.String("key", op.Field),
	)
	if op.Filter != nil {
		cmd.Append(bson.EC.SubDocument("query", op.Filter))
	}

	reply, err := ex.runCommand(ctx, "distinct", op.NS.DB, cmd, ReadSelector(op.ReadPref))
	if err != nil {
		return nil, err
	}

	el, ok := reply.Lookup("values")
	if !ok {
		return nil, nil
	}
	arr, ok := el.Value().Document()
	if !ok {
		return nil, nil
	}
	values := make([]bson.Value, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		e, err := arr.ElementAt(i)
		if err != nil {
			continue
		}
		values = append(values, e.Value())
	}
	return values, nil
}
