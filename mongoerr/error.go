// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package mongoerr

import "fmt"

// Kind tags the category of failure an Error represents, mirroring the
// Rust original's Error enum (one Go struct standing in for the tagged
// union, per this codebase's "variants over inheritance" discipline).
type Kind int

// The error kinds this core distinguishes.
const (
	// KindDefault is an unclassified failure; prefer a more specific kind.
	KindDefault Kind = iota
	// KindIO is a socket read/write or TLS handshake failure.
	KindIO
	// KindCodec is malformed BSON or a truncated wire frame.
	KindCodec
	// KindArgument is invalid caller input (bad hex ObjectId, w<0).
	KindArgument
	// KindOperation is a server reply of {ok:0} or an unexpected shape.
	KindOperation
	// KindResponse is a reply that violated protocol expectations.
	KindResponse
	// KindWrite is a single-document write failure.
	KindWrite
	// KindBulkWrite aggregates per-document write failures.
	KindBulkWrite
	// KindCursorNotFound is a getMore/killCursors against a gone cursor.
	KindCursorNotFound
	// KindCoded is any recognised server error code; Code is populated.
	KindCoded
	// KindServerSelection is a selection timeout with no viable server.
	KindServerSelection
	// KindPoisonedLock is an unrecoverable guarded resource.
	KindPoisonedLock
	// KindMaliciousServer is a SCRAM verifier mismatch.
	KindMaliciousServer
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindCodec:
		return "Codec"
	case KindArgument:
		return "Argument"
	case KindOperation:
		return "Operation"
	case KindResponse:
		return "Response"
	case KindWrite:
		return "Write"
	case KindBulkWrite:
		return "BulkWrite"
	case KindCursorNotFound:
		return "CursorNotFound"
	case KindCoded:
		return "Coded"
	case KindServerSelection:
		return "ServerSelection"
	case KindPoisonedLock:
		return "PoisonedLock"
	case KindMaliciousServer:
		return "MaliciousServer"
	default:
		return "Default"
	}
}

// Error is the single error type this core returns. Kind tags which of the
// taxonomy's variants it represents; Code is only meaningful when Kind ==
// KindCoded.
type Error struct {
	Kind    Kind
	Message string
	Code    ErrorCode
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindCoded:
		return fmt.Sprintf("%s: %s (code %d, %s)", e.Kind, e.Message, e.Code, e.Code)
	default:
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Wrapped: cause}
}

// Coded builds a KindCoded Error for a server-returned {ok:0, code: ...}
// reply.
func Coded(code ErrorCode, message string) *Error {
	return &Error{Kind: KindCoded, Message: message, Code: code}
}

// IsNetworkError reports whether err is an I/O-kind Error or a coded error
// whose code names a transport failure.
func IsNetworkError(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == KindIO || (e.Kind == KindCoded && codeIsNetworkError(e.Code))
}

// IsInterruption reports whether err is a coded error naming an
// interruption (shutdown, time limit, cancellation).
func IsInterruption(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindCoded && codeIsInterruption(e.Code)
}

// IsIndexCreationError reports whether err is a coded error from a failed
// createIndexes call.
func IsIndexCreationError(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindCoded && codeIsIndexCreationError(e.Code)
}

// IsNotMaster reports whether err is a coded error naming a server that no
// longer considers itself primary. A true result means the server's
// description must be invalidated and a topology rescan triggered.
func IsNotMaster(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindCoded && codeIsNotMaster(e.Code)
}
