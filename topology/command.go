// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

// RunCommand sends cmd as an OP_QUERY against "<db>.$cmd" with
// numberToReturn=-1 (single-reply, no cursor) and returns the single
// resulting document.
func RunCommand(ctx context.Context, rw wiremessage.ReadWriter, db string, cmd *bson.Document) (*bson.Document, error) {
	body, err := bson.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("topology: marshal command: %w", err)
	}

	q := wiremessage.Query{
		FullCollectionName: db + ".$cmd",
		NumberToReturn:     -1,
		Query:              body,
	}
	if err := rw.WriteWireMessage(ctx, q); err != nil {
		return nil, err
	}

	wm, err := rw.ReadWireMessage(ctx)
	if err != nil {
		return nil, err
	}
	reply, ok := wm.(wiremessage.Reply)
	if !ok {
		return nil, fmt.Errorf("topology: unexpected reply message type %T", wm)
	}
	if len(reply.Documents) != 1 {
		return nil, fmt.Errorf("topology: command reply carried %d documents, want 1", len(reply.Documents))
	}

	it, err := reply.Documents[0].Iterator()
	if err != nil {
		return nil, err
	}
	doc := bson.NewDocument()
	for it.Next() {
		e := *it.Element()
		doc.Append(&e)
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return doc, nil
}

// CommandOK reports whether a command reply indicates success: "ok" is
// truthy (1, 1.0, or true).
func CommandOK(reply *bson.Document) bool {
	el, ok := reply.Lookup("ok")
	if !ok {
		return false
	}
	switch el.Value().Type() {
	case bson.TypeDouble:
		f, _ := el.Value().DoubleOK()
		return f != 0
	case bson.TypeInt32:
		i, _ := el.Value().Int32OK()
		return i != 0
	case bson.TypeBoolean:
		b, _ := el.Value().BooleanOK()
		return b
	default:
		return false
	}
}
