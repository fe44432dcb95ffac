// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package event is the driver's APM seam: a CommandMonitor interface the
// operation dispatcher calls around every command, plus a LogSink that
// renders the same hooks as the conformance-test log line format.
package event

import (
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// CommandMonitor receives command lifecycle notifications. Any hook may be
// nil; delivery is synchronous and best-effort — a panicking hook is
// recovered and never propagates to the operation that triggered it.
type CommandMonitor struct {
	Started   func(name string, addr address.Address, body *bson.Document)
	Succeeded func(name string, addr address.Address, reply *bson.Document, duration time.Duration)
	Failed    func(name string, addr address.Address, err error, duration time.Duration)
}

func (m *CommandMonitor) notifyStarted(name string, addr address.Address, body *bson.Document) {
	if m == nil || m.Started == nil {
		return
	}
	defer func() { recover() }()
	m.Started(name, addr, body)
}

func (m *CommandMonitor) notifySucceeded(name string, addr address.Address, reply *bson.Document, d time.Duration) {
	if m == nil || m.Succeeded == nil {
		return
	}
	defer func() { recover() }()
	m.Succeeded(name, addr, reply, d)
}

func (m *CommandMonitor) notifyFailed(name string, addr address.Address, err error, d time.Duration) {
	if m == nil || m.Failed == nil {
		return
	}
	defer func() { recover() }()
	m.Failed(name, addr, err, d)
}

// Track wraps a single command's lifecycle: call Start once the command is
// about to be sent, then exactly one of Succeeded or Failed once the reply
// (or error) is known.
type Track struct {
	m     *CommandMonitor
	name  string
	addr  address.Address
	start time.Time
}

// Start notifies m.Started, if set, and returns a Track used to report the
// outcome.
func Start(m *CommandMonitor, name string, addr address.Address, body *bson.Document) Track {
	t := Track{m: m, name: name, addr: addr, start: time.Now()}
	m.notifyStarted(name, addr, body)
	return t
}

// Succeeded reports a successful reply.
func (t Track) Succeeded(reply *bson.Document) {
	t.m.notifySucceeded(t.name, t.addr, reply, time.Since(t.start))
}

// Failed reports a failed command.
func (t Track) Failed(err error) {
	t.m.notifyFailed(t.name, t.addr, err, time.Since(t.start))
}
