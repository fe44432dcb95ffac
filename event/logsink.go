// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package event

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// LogSink renders every command lifecycle hook as one line, matching the
// conformance-test harness's expected format:
//
//	COMMAND.<name> <host>:<port> STARTED: <body>
//	COMMAND.<name> <host>:<port> COMPLETED: <reply> (<ns> ns)
type LogSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogSink wraps w (typically an *os.File) as a LogSink.
func NewLogSink(w io.Writer) *LogSink { return &LogSink{w: w} }

// Monitor returns a CommandMonitor whose three hooks write to the sink.
func (s *LogSink) Monitor() *CommandMonitor {
	return &CommandMonitor{
		Started:   s.started,
		Succeeded: s.succeeded,
		Failed:    s.failed,
	}
}

func (s *LogSink) started(name string, addr address.Address, body *bson.Document) {
	s.writeLine("COMMAND.%s %s STARTED: %v\n", name, addr, body)
}

func (s *LogSink) succeeded(name string, addr address.Address, reply *bson.Document, d time.Duration) {
	s.writeLine("COMMAND.%s %s COMPLETED: %v (%d ns)\n", name, addr, reply, d.Nanoseconds())
}

func (s *LogSink) failed(name string, addr address.Address, err error, d time.Duration) {
	s.writeLine("COMMAND.%s %s COMPLETED: error %v (%d ns)\n", name, addr, err, d.Nanoseconds())
}

func (s *LogSink) writeLine(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}
