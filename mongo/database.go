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
)

// Database is a handle to a named database on a deployment. It is safe for
// concurrent use by multiple goroutines.
type Database struct {
	client *Client
	name   string
}

// Client returns the Client the Database was created from.
func (db *Database) Client() *Client { return db.client }

// Name returns the name of the database.
func (db *Database) Name() string { return db.name }

// Collection returns a handle for the named collection.
func (db *Database) Collection(name string) *Collection {
	return &Collection{db: db, name: name}
}

// RunCommand runs cmd against the database's $cmd namespace and returns the
// raw reply document. It does not interpret the reply in any way, so the
// caller is responsible for checking any "ok" field that matters to it
// beyond the {ok: 0} failure already translated into the returned error.
func (db *Database) RunCommand(ctx context.Context, cmd *bson.Document) (*bson.Document, error) {
	if cmd.Len() == 0 {
		return nil, errEmptyCommand
	}
	return db.client.ex.RunCommand(ctx, db.name, cmd, operation.ReadSelector(nil))
}

// Drop drops the database. It ignores "namespace not found" errors so it is
// safe to call on a database that does not exist.
func (db *Database) Drop(ctx context.Context) error {
	op := &operation.DropDatabase{DB: db.name}
	return op.Execute(ctx, db.client.ex)
}

// ListCollectionNames returns the names of every collection in the
// database, optionally narrowed by filter (pass nil for no filter).
func (db *Database) ListCollectionNames(ctx context.Context, filter *bson.Document) ([]string, error) {
	op := &operation.ListCollections{DB: db.name, Filter: filter}
	srv, conn, cr, err := op.Open(ctx, db.client.ex)
	if err != nil {
		return nil, err
	}
	cur := newCursor(srv, conn, cr, 0)
	defer cur.Close(ctx)

	docs, err := cur.All(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		if el, ok := d.Lookup("name"); ok {
			if name, ok := el.Value().StringValueOK(); ok {
				names = append(names, name)
			}
		}
	}
	return names, nil
}
