// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"context"
	"strings"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// Drop represents the drop command: remove a single collection.
type Drop struct {
	NS Namespace
}

// Execute drops the collection. Dropping a collection that does not exist
// is not an error; the server reports "ns not found", which this treats as
// success.
func (op *Drop) Execute(ctx context.Context, ex *Executor) error {
	cmd := bson.NewDocument(bson.EC.String("drop", op.NS.Collection))
	_, err := ex.runCommand(ctx, "drop", op.NS.DB, cmd, topology.WriteSelector{})
	if err == nil {
		return nil
	}
	if isNamespaceNotFound(err) {
		return nil
	}
	return err
}

// DropDatabase represents the dropDatabase command: remove an entire
// database and all of its collections.
type DropDatabase struct {
	DB string
}

// Execute drops the database.
func (op *DropDatabase) Execute(ctx context.Context, ex *Executor) error {
	cmd := bson.NewDocument(bson.EC.Int32("dropDatabase", 1))
	_, err := ex.runCommand(ctx, "dropDatabase", op.DB, cmd, topology.WriteSelector{})
	if err != nil && isNamespaceNotFound(err) {
		return nil
	}
	return err
}

// IndexModel describes a single index to create.
type IndexModel struct {
	Keys *bson.Document
	Name string
}

// CreateIndexes represents the createIndexes command: build one or more
// indexes on a collection.
type CreateIndexes struct {
	NS      Namespace
	Indexes []IndexModel
}

// Execute issues the createIndexes command.
func (op *CreateIndexes) Execute(ctx context.Context, ex *Executor) error {
	specs := make([]*bson.Document, len(op.Indexes))
	for i, idx := range op.Indexes {
		specs[i] = bson.NewDocument(
			bson.EC.SubDocument("key", idx.Keys),
			bson.EC.String("name", idx.Name),
		)
	}

	cmd := bson.NewDocument(
		bson.EC.String("createIndexes", op.NS.Collection),
		arrayOfDocuments("indexes", specs),
	)

	_, err := ex.runCommand(ctx, "createIndexes", op.NS.DB, cmd, topology.WriteSelector{})
	return err
}

func isNamespaceNotFound(err error) bool {
	return strings.Contains(err.Error(), "ns not found")
}
