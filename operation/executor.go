// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"context"
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/event"
	"github.com/nimbusdb/nimbus-go-driver/internal/logger"
	"github.com/nimbusdb/nimbus-go-driver/mongoerr"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
	"github.com/nimbusdb/nimbus-go-driver/topology"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

// Executor is the shared plumbing every operation in this package rides on:
// server selection, connection checkout, the single round trip, and the
// APM/logging hooks fired around it. A *mongo.Client owns exactly one
// Executor per Topology.
type Executor struct {
	Topology *topology.Topology
	Monitor  *event.CommandMonitor
	Logger   *logger.Logger
}

// NewExecutor builds an Executor over topo. monitor and log may be nil.
func NewExecutor(topo *topology.Topology, monitor *event.CommandMonitor, log *logger.Logger) *Executor {
	return &Executor{Topology: topo, Monitor: monitor, Logger: log}
}

// runCommand selects a server matching sel, checks out a connection, sends
// cmd as a legacy OP_QUERY command against db.$cmd, and returns the decoded
// reply. A reply carrying {ok: 0} is translated into a *mongoerr.Error and
// returned alongside the (still useful, for write-error inspection) reply.
func (ex *Executor) runCommand(ctx context.Context, name, db string, cmd *bson.Document, sel topology.Selector) (*bson.Document, error) {
	_, _, reply, err := ex.runCommandKeep(ctx, name, db, cmd, sel, true)
	return reply, err
}

// OpenCommandCursor runs a command expected to reply with a "cursor"
// sub-document and leaves the connection checked out, for a caller that
// wraps the result in a cursor.Cursor and pages through getMore on the same
// server.
func (ex *Executor) OpenCommandCursor(ctx context.Context, name, db string, cmd *bson.Document, sel topology.Selector) (*topology.Server, *topology.Connection, CursorResult, error) {
	srv, conn, reply, err := ex.runCommandKeep(ctx, name, db, cmd, sel, false)
	if err != nil {
		return nil, nil, CursorResult{}, err
	}
	return srv, conn, parseCursorResult(reply), nil
}

// runCommandKeep is the shared core of runCommand and OpenCommandCursor. When
// checkin is true the connection is always returned to the pool before this
// call returns; when false, a successful call leaves it checked out and it
// is the caller's responsibility (checkin happens on every error path
// regardless, since there is no cursor to keep alive).
func (ex *Executor) runCommandKeep(ctx context.Context, name, db string, cmd *bson.Document, sel topology.Selector, checkin bool) (*topology.Server, *topology.Connection, *bson.Document, error) {
	srv, err := ex.Topology.SelectServer(ctx, sel)
	if err != nil {
		return nil, nil, nil, err
	}

	conn, err := srv.Checkout(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	keepOpen := false
	defer func() {
		if !keepOpen {
			srv.Checkin(conn)
		}
	}()

	track := event.Start(ex.Monitor, name, srv.Addr(), cmd)
	ex.log(name, srv.Addr(), "started", nil)

	reply, err := topology.RunCommand(ctx, conn, db, cmd)
	if err != nil {
		track.Failed(err)
		ex.log(name, srv.Addr(), "failed", err)
		return nil, nil, nil, err
	}

	if err := checkOK(reply); err != nil {
		track.Failed(err)
		ex.log(name, srv.Addr(), "failed", err)
		if mongoerr.IsNotMaster(err) {
			ex.Topology.Invalidate(srv.Addr(), err)
		}
		return nil, nil, reply, err
	}

	track.Succeeded(reply)
	ex.log(name, srv.Addr(), "succeeded", nil)

	if !checkin {
		keepOpen = true
		return srv, conn, reply, nil
	}
	return nil, nil, reply, nil
}

// RunAdminCommand runs cmd against the admin database's $cmd namespace,
// checking the connection back in once the reply is read. Intended for
// deployment-wide commands like ping and listDatabases.
func (ex *Executor) RunAdminCommand(ctx context.Context, cmd *bson.Document, sel topology.Selector) (*bson.Document, error) {
	return ex.runCommand(ctx, cmd.Keys()[0], "admin", cmd, sel)
}

// RunCommand runs cmd against db's $cmd namespace and returns the decoded
// reply, checking the connection back in once it is read. Exported for
// callers (the mongo facade's Database.RunCommand) outside this package
// that need to run an arbitrary admin-style command.
func (ex *Executor) RunCommand(ctx context.Context, db string, cmd *bson.Document, sel topology.Selector) (*bson.Document, error) {
	return ex.runCommand(ctx, cmd.Keys()[0], db, cmd, sel)
}

func (ex *Executor) log(name string, addr address.Address, verb string, err error) {
	if ex.Logger == nil {
		return
	}
	level := logger.LevelInfo
	if verb == "started" {
		level = logger.LevelDebug
	}
	ex.Logger.Print(level, commandLogMessage{name: name, addr: addr, verb: verb, err: err})
}

// queryFirstBatch sends query as a legacy OP_QUERY directly against a
// collection namespace (not $cmd) and returns the resulting server-side
// cursor, used by FindOne and anywhere else the rest of the cursor (if any)
// is never going to be paged through.
func (ex *Executor) queryFirstBatch(ctx context.Context, ns Namespace, query wiremessage.Query, sel topology.Selector) (CursorResult, error) {
	srv, err := ex.Topology.SelectServer(ctx, sel)
	if err != nil {
		return CursorResult{}, err
	}

	conn, err := srv.Checkout(ctx)
	if err != nil {
		return CursorResult{}, err
	}
	defer srv.Checkin(conn)

	return sendQuery(ctx, conn, ns.FullName(), query)
}

// OpenQueryCursor behaves like queryFirstBatch but leaves the connection
// checked out on return, for a caller (the mongo facade) that wraps the
// result in a cursor.Cursor and must keep issuing getMore against the exact
// same server until the cursor is closed.
func (ex *Executor) OpenQueryCursor(ctx context.Context, ns Namespace, query wiremessage.Query, sel topology.Selector) (*topology.Server, *topology.Connection, CursorResult, error) {
	srv, err := ex.Topology.SelectServer(ctx, sel)
	if err != nil {
		return nil, nil, CursorResult{}, err
	}

	conn, err := srv.Checkout(ctx)
	if err != nil {
		return nil, nil, CursorResult{}, err
	}

	cr, err := sendQuery(ctx, conn, ns.FullName(), query)
	if err != nil {
		srv.Checkin(conn)
		return nil, nil, CursorResult{}, err
	}
	return srv, conn, cr, nil
}

func sendQuery(ctx context.Context, conn *topology.Connection, fullName string, query wiremessage.Query) (CursorResult, error) {
	if err := conn.WriteWireMessage(ctx, query); err != nil {
		return CursorResult{}, err
	}
	wm, err := conn.ReadWireMessage(ctx)
	if err != nil {
		return CursorResult{}, err
	}
	reply, ok := wm.(wiremessage.Reply)
	if !ok {
		return CursorResult{}, fmt.Errorf("operation: unexpected reply message type %T", wm)
	}

	docs := make([]*bson.Document, 0, len(reply.Documents))
	for _, rdr := range reply.Documents {
		it, err := rdr.Iterator()
		if err != nil {
			return CursorResult{}, err
		}
		doc := bson.NewDocument()
		for it.Next() {
			e := *it.Element()
			doc.Append(&e)
		}
		if it.Err() != nil {
			return CursorResult{}, it.Err()
		}
		docs = append(docs, doc)
	}

	if reply.ResponseFlags&wiremessage.QueryFailure != 0 {
		if len(docs) == 1 {
			return CursorResult{}, checkOK(docs[0])
		}
		return CursorResult{}, mongoerr.New(mongoerr.KindOperation, "query failed")
	}
	if reply.ResponseFlags&wiremessage.CursorNotFound != 0 {
		return CursorResult{}, mongoerr.New(mongoerr.KindCursorNotFound, "cursor not found")
	}

	return CursorResult{FirstBatch: docs, ID: reply.CursorID, Namespace: fullName}, nil
}

// ReadSelector returns the topology.Selector for pref, defaulting to a
// primary read when pref is nil.
func ReadSelector(pref *readpref.ReadPref) topology.Selector {
	if pref == nil {
		pref = readpref.Primary()
	}
	return topology.ReadPrefSelector{Pref: pref}
}
