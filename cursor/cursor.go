// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package cursor implements lazy iteration over a server-side cursor,
// paging through batches with getMore and releasing the cursor with
// killCursors when it is closed before being exhausted.
package cursor

import (
	"context"
	"sync"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/mongoerr"
	"github.com/nimbusdb/nimbus-go-driver/operation"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// Cursor iterates a server-side result set one document at a time,
// transparently issuing getMore calls as each batch is exhausted. It is not
// safe for concurrent use by multiple goroutines.
type Cursor struct {
	srv       *topology.Server
	conn      *topology.Connection
	ns        string
	id        int64
	batchSize int32

	batch []*bson.Document
	pos   int

	current *bson.Document
	err     error

	closeOnce sync.Once
}

// New wraps the first batch of a command or query reply as a Cursor. srv
// and conn are the server and checked-out connection the cursor was opened
// on; every getMore and the final killCursors must be sent to that same
// server, and Close returns conn to srv's pool rather than closing it.
func New(srv *topology.Server, conn *topology.Connection, cr operation.CursorResult, batchSize int32) *Cursor {
	return &Cursor{
		srv:       srv,
		conn:      conn,
		ns:        cr.Namespace,
		id:        cr.ID,
		batchSize: batchSize,
		batch:     cr.FirstBatch,
	}
}

// Next advances to the next document, fetching a new batch via getMore when
// the current one is exhausted. It returns false when the cursor is
// exhausted or an error occurred; check Err to distinguish the two.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}

	for c.pos >= len(c.batch) {
		if c.id == 0 {
			return false
		}
		if err := c.fetchMore(ctx); err != nil {
			c.err = err
			return false
		}
		if len(c.batch) == 0 && c.id == 0 {
			return false
		}
	}

	c.current = c.batch[c.pos]
	c.pos++
	return true
}

func (c *Cursor) fetchMore(ctx context.Context) error {
	cr, err := operation.GetMore(ctx, c.conn, c.ns, c.id, c.batchSize)
	if err != nil {
		// A network failure talking to the cursor's home server leaves the
		// cursor itself unreachable and unresumable, the same practical
		// outcome as the server replying CursorNotFound outright.
		if mongoerr.IsNetworkError(err) {
			return mongoerr.Wrap(mongoerr.KindCursorNotFound, "cursor unreachable", err)
		}
		return err
	}
	c.batch = cr.FirstBatch
	c.pos = 0
	c.id = cr.ID
	return nil
}

// Current returns the document Next last advanced to.
func (c *Cursor) Current() *bson.Document { return c.current }

// Err returns the first error encountered during iteration, if any.
func (c *Cursor) Err() error { return c.err }

// Close releases the server-side cursor, if it is still open, and returns
// the borrowed connection to its pool. Safe to call more than once and safe
// to call after the cursor has been fully drained (then no killCursors is
// sent and only the connection is returned).
func (c *Cursor) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		if c.conn == nil {
			return
		}
		if c.id != 0 {
			// Best-effort: a failed killCursors just leaves the server to
			// reap the cursor on its own idle timeout.
			_ = operation.KillCursors(ctx, c.conn, c.id)
			c.id = 0
		}
		c.srv.Checkin(c.conn)
	})
	return nil
}

// All drains every remaining document into a slice. Intended for small
// result sets (tests, admin commands); production call sites should prefer
// Next/Current to avoid buffering an unbounded cursor.
func (c *Cursor) All(ctx context.Context) ([]*bson.Document, error) {
	var docs []*bson.Document
	for c.Next(ctx) {
		docs = append(docs, c.Current())
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
