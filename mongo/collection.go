// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"context"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/operation"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
)

// Collection is a handle to a named collection within a database. It is
// safe for concurrent use by multiple goroutines.
type Collection struct {
	db   *Database
	name string
}

// Name returns the name of the collection.
func (coll *Collection) Name() string { return coll.name }

// Database returns the Database the Collection was created from.
func (coll *Collection) Database() *Database { return coll.db }

func (coll *Collection) ns() operation.Namespace {
	return operation.Namespace{DB: coll.db.name, Collection: coll.name}
}

func (coll *Collection) ex() *operation.Executor { return coll.db.client.ex }

// InsertOne inserts a single document into the collection.
func (coll *Collection) InsertOne(ctx context.Context, doc *bson.Document) (operation.InsertResult, error) {
	if doc == nil {
		return operation.InsertResult{}, errNilDocument
	}
	return coll.InsertMany(ctx, []*bson.Document{doc})
}

// InsertMany inserts a batch of documents into the collection. Batches
// larger than the fixed operation.DefaultMaxBatchCount document count or
// operation.DefaultMaxDocumentSize byte size are split and sent as multiple
// insert commands transparently.
func (coll *Collection) InsertMany(ctx context.Context, docs []*bson.Document) (operation.InsertResult, error) {
	op := &operation.Insert{NS: coll.ns(), Docs: docs, Ordered: true}
	return op.Execute(ctx, coll.ex())
}

// UpdateOne applies update to the first document matching filter.
func (coll *Collection) UpdateOne(ctx context.Context, filter, update *bson.Document, upsert bool) (operation.UpdateResult, error) {
	op := &operation.Update{
		NS:      coll.ns(),
		Updates: []operation.UpdateModel{{Filter: filter, Update: update, Upsert: upsert}},
		Ordered: true,
	}
	return op.Execute(ctx, coll.ex())
}

// UpdateMany applies update to every document matching filter.
func (coll *Collection) UpdateMany(ctx context.Context, filter, update *bson.Document, upsert bool) (operation.UpdateResult, error) {
	op := &operation.Update{
		NS:      coll.ns(),
		Updates: []operation.UpdateModel{{Filter: filter, Update: update, Upsert: upsert, Multi: true}},
		Ordered: true,
	}
	return op.Execute(ctx, coll.ex())
}

// DeleteOne removes the first document matching filter.
func (coll *Collection) DeleteOne(ctx context.Context, filter *bson.Document) (operation.DeleteResult, error) {
	op := &operation.Delete{
		NS:      coll.ns(),
		Deletes: []operation.DeleteModel{{Filter: filter, Limit: 1}},
		Ordered: true,
	}
	return op.Execute(ctx, coll.ex())
}

// DeleteMany removes every document matching filter.
func (coll *Collection) DeleteMany(ctx context.Context, filter *bson.Document) (operation.DeleteResult, error) {
	op := &operation.Delete{
		NS:      coll.ns(),
		Deletes: []operation.DeleteModel{{Filter: filter, Limit: 0}},
		Ordered: true,
	}
	return op.Execute(ctx, coll.ex())
}

// FindOptions configures a Find call. The zero value queries every
// document, unsorted, with no projection or limit.
type FindOptions struct {
	Projection *bson.Document
	Sort       *bson.Document
	Skip       int32
	Limit      int32
	BatchSize  int32
	ReadPref   *readpref.ReadPref
}

// Find runs a query against the collection and returns a Cursor over the
// matching documents, paging through getMore as needed.
func (coll *Collection) Find(ctx context.Context, filter *bson.Document, opts ...FindOptions) (*Cursor, error) {
	var opt FindOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	op := &operation.Find{
		NS:         coll.ns(),
		Filter:     filter,
		Projection: opt.Projection,
		Sort:       opt.Sort,
		Skip:       opt.Skip,
		Limit:      opt.Limit,
		BatchSize:  opt.BatchSize,
		ReadPref:   opt.ReadPref,
	}
	srv, conn, cr, err := op.Open(ctx, coll.ex())
	if err != nil {
		return nil, err
	}
	return newCursor(srv, conn, cr, opt.BatchSize), nil
}

// FindOne returns the first document matching filter, or nil if none match.
func (coll *Collection) FindOne(ctx context.Context, filter *bson.Document, opts ...FindOptions) (*bson.Document, error) {
	var opt FindOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	op := &operation.FindOne{
		NS:         coll.ns(),
		Filter:     filter,
		Projection: opt.Projection,
		Sort:       opt.Sort,
		ReadPref:   opt.ReadPref,
	}
	return op.Execute(ctx, coll.ex())
}

// CountDocuments returns the number of documents matching filter.
func (coll *Collection) CountDocuments(ctx context.Context, filter *bson.Document) (int64, error) {
	op := &operation.Count{NS: coll.ns(), Filter: filter}
	return op.Execute(ctx, coll.ex())
}

// Distinct returns the distinct values of field across documents matching
// filter.
func (coll *Collection) Distinct(ctx context.Context, field string, filter *bson.Document) ([]bson.Value, error) {
	op := &operation.Distinct{NS: coll.ns(), Field: field, Filter: filter}
	return op.Execute(ctx, coll.ex())
}

// Aggregate runs an aggregation pipeline against the collection and returns
// a Cursor over the resulting documents.
func (coll *Collection) Aggregate(ctx context.Context, pipeline []*bson.Document, batchSize int32) (*Cursor, error) {
	op := &operation.Aggregate{NS: coll.ns(), Pipeline: pipeline, BatchSize: batchSize}
	srv, conn, cr, err := op.Open(ctx, coll.ex())
	if err != nil {
		return nil, err
	}
	return newCursor(srv, conn, cr, batchSize), nil
}

// Drop drops the collection. Dropping a collection that does not exist is
// not an error.
func (coll *Collection) Drop(ctx context.Context) error {
	op := &operation.Drop{NS: coll.ns()}
	return op.Execute(ctx, coll.ex())
}

// IndexView exposes index-management operations on the collection.
type IndexView struct {
	coll *Collection
}

// Indexes returns the IndexView for the collection.
func (coll *Collection) Indexes() IndexView {
	return IndexView{coll: coll}
}

// CreateOne creates a single index and returns its name.
func (iv IndexView) CreateOne(ctx context.Context, keys *bson.Document, name string) (string, error) {
	names, err := iv.CreateMany(ctx, []operation.IndexModel{{Keys: keys, Name: name}})
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}

// CreateMany creates the given indexes and returns their names in order.
func (iv IndexView) CreateMany(ctx context.Context, models []operation.IndexModel) ([]string, error) {
	op := &operation.CreateIndexes{NS: iv.coll.ns(), Indexes: models}
	if err := op.Execute(ctx, iv.coll.ex()); err != nil {
		return nil, err
	}
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names, nil
}
