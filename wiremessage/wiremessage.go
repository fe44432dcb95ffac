// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package wiremessage implements the OP_QUERY / OP_GET_MORE /
// OP_KILL_CURSORS / OP_REPLY subset of the MongoDB wire protocol: framing,
// the process-wide request-id allocator, and a ReadWriter abstraction over
// a byte stream.
package wiremessage

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// OpCode identifies the kind of operation carried by a wire message.
type OpCode int32

// Supported opcodes. Anything else (OP_MSG, OP_COMPRESSED, OP_UPDATE, ...)
// is out of scope for this wire-version core.
const (
	OpReply      OpCode = 1
	OpQuery      OpCode = 2004
	OpGetMore    OpCode = 2005
	OpKillCursors OpCode = 2007
)

func (c OpCode) String() string {
	switch c {
	case OpReply:
		return "OP_REPLY"
	case OpQuery:
		return "OP_QUERY"
	case OpGetMore:
		return "OP_GET_MORE"
	case OpKillCursors:
		return "OP_KILL_CURSORS"
	default:
		return fmt.Sprintf("OpCode(%d)", int32(c))
	}
}

// DefaultMaxMessageSizeBytes is the default cap on an incoming message's
// declared length (48 MiB), per spec.md §4.1.
const DefaultMaxMessageSizeBytes = 48 * 1024 * 1024

// Query flag bits (OP_QUERY.flags).
const (
	TailableCursor OpQueryFlags = 1 << 1
	SlaveOK        OpQueryFlags = 1 << 2
	NoCursorTimeout OpQueryFlags = 1 << 4
	AwaitData      OpQueryFlags = 1 << 5
	Exhaust        OpQueryFlags = 1 << 6
	Partial        OpQueryFlags = 1 << 7
)

// OpQueryFlags is the bitmask carried in an OP_QUERY header.
type OpQueryFlags int32

// Reply response flag bits (OP_REPLY.responseFlags).
const (
	CursorNotFound   ReplyFlags = 1 << 0
	QueryFailure     ReplyFlags = 1 << 1
	ShardConfigStale ReplyFlags = 1 << 2
	AwaitCapable     ReplyFlags = 1 << 3
)

// ReplyFlags is the bitmask carried in an OP_REPLY header.
type ReplyFlags int32

// requestIDCounter is the process-wide, monotonically increasing
// request-id source. It starts at 1 and is shared by every connection.
var requestIDCounter int32

// NextRequestID allocates the next request id. Connections do not own or
// reset this counter themselves (spec.md §3, Connection invariant).
func NextRequestID() int32 {
	return atomic.AddInt32(&requestIDCounter, 1)
}

// Header is the 16-byte frame prefixed to every wire message.
type Header struct {
	MessageLength int32
	RequestID     int32
	ResponseTo    int32
	OpCode        OpCode
}

// AppendHeader appends the wire encoding of h to dst and returns the result.
// The MessageLength written here is only a placeholder; callers patch the
// real value in once the full message length is known (see
// patchMessageLength).
func (h Header) AppendHeader(dst []byte) []byte {
	dst = appendInt32(dst, h.MessageLength)
	dst = appendInt32(dst, h.RequestID)
	dst = appendInt32(dst, h.ResponseTo)
	dst = appendInt32(dst, int32(h.OpCode))
	return dst
}

// ReadHeader parses a Header from the first 16 bytes of buf.
func ReadHeader(buf []byte) (Header, error) {
	if len(buf) < 16 {
		return Header{}, fmt.Errorf("wiremessage: buffer too short for header: %d bytes", len(buf))
	}
	return Header{
		MessageLength: readInt32(buf[0:4]),
		RequestID:     readInt32(buf[4:8]),
		ResponseTo:    readInt32(buf[8:12]),
		OpCode:        OpCode(readInt32(buf[12:16])),
	}, nil
}

// WireMessage is implemented by every op-code specific message type.
type WireMessage interface {
	// AppendWireMessage appends this message's wire encoding (including its
	// header, with MessageLength filled in) to dst.
	AppendWireMessage(dst []byte) ([]byte, error)
}

// ReadWriter is the minimal interface a Connection exposes to higher
// layers: write one message, read one message.
type ReadWriter interface {
	WriteWireMessage(ctx context.Context, wm WireMessage) error
	ReadWireMessage(ctx context.Context) (WireMessage, error)
}

func appendInt32(dst []byte, v int32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return append(dst, buf[:]...)
}

func appendInt64(dst []byte, v int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return append(dst, buf[:]...)
}

func appendCString(dst []byte, s string) []byte {
	dst = append(dst, []byte(s)...)
	return append(dst, 0)
}

func readInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func readInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func readCString(b []byte) (string, int, error) {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	if i >= len(b) {
		return "", 0, fmt.Errorf("wiremessage: unterminated cstring")
	}
	return string(b[:i]), i + 1, nil
}

// patchMessageLength writes the final message length into the first 4
// bytes of a message that was built starting at offset start within dst.
func patchMessageLength(dst []byte, start int) {
	binary.LittleEndian.PutUint32(dst[start:start+4], uint32(len(dst)-start))
}
