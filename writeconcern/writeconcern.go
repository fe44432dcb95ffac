// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package writeconcern describes the acknowledgment a client asks the
// server to give before a write is considered successful.
package writeconcern

import (
	"time"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// WriteConcern requests replication/durability guarantees for a write.
type WriteConcern struct {
	W        int           // number of nodes that must acknowledge, 0 meaning unacknowledged
	WTimeout time.Duration // time to wait for W before giving up
	J        bool          // require the write be journaled
	FSync    bool          // require the write be fsynced to disk when not journaling
}

// New returns the driver's default write concern: acknowledged by the
// primary only, no timeout, no journal requirement.
func New() *WriteConcern {
	return &WriteConcern{W: 1}
}

// Majority returns a write concern requiring acknowledgment from a majority
// of the replica set's voting members. The server interprets the literal
// string "majority" for W; callers needing it as a command field should use
// ToBSON, which special-cases this sentinel.
func Majority() *WriteConcern {
	return &WriteConcern{W: -1}
}

// Unacknowledged returns a write concern that does not wait for any
// acknowledgment at all.
func Unacknowledged() *WriteConcern {
	return &WriteConcern{W: 0}
}

// IsAcknowledged reports whether the server is asked to acknowledge the
// write at all.
func (wc *WriteConcern) IsAcknowledged() bool {
	if wc == nil {
		return true
	}
	return wc.W != 0 || wc.J
}

// ToBSON renders the write concern as the document embedded under the
// "writeConcern" field of a command.
func (wc *WriteConcern) ToBSON() *bson.Document {
	doc := bson.NewDocument()
	switch {
	case wc.W == -1:
		doc.Append(bson.EC.String("w", "majority"))
	default:
		doc.Append(bson.EC.Int32("w", int32(wc.W)))
	}
	if wc.WTimeout > 0 {
		doc.Append(bson.EC.Int32("wtimeout", int32(wc.WTimeout/time.Millisecond)))
	}
	doc.Append(bson.EC.Boolean("j", wc.J))
	return doc
}
