// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongo

import (
	"context"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/cursor"
	"github.com/nimbusdb/nimbus-go-driver/operation"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// Cursor iterates the documents returned by a Find or Aggregate call. It
// wraps the lower-level cursor package so callers never import it directly.
type Cursor struct {
	c *cursor.Cursor
}

func newCursor(srv *topology.Server, conn *topology.Connection, cr operation.CursorResult, batchSize int32) *Cursor {
	return &Cursor{c: cursor.New(srv, conn, cr, batchSize)}
}

// Next advances the cursor to the next document, fetching a new batch from
// the server when necessary. It returns false when the cursor is exhausted
// or an error occurs; call Err to distinguish the two.
func (c *Cursor) Next(ctx context.Context) bool { return c.c.Next(ctx) }

// Current returns the document Next last advanced to.
func (c *Cursor) Current() *bson.Document { return c.c.Current() }

// Err returns the first error encountered during iteration, if any.
func (c *Cursor) Err() error { return c.c.Err() }

// Close releases the server-side cursor and returns the underlying
// connection to its pool.
func (c *Cursor) Close(ctx context.Context) error { return c.c.Close(ctx) }

// All drains every remaining document into a slice.
func (c *Cursor) All(ctx context.Context) ([]*bson.Document, error) { return c.c.All(ctx) }
