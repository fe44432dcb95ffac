// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package objectid generates and parses the 12-byte identifiers used as the
// default document primary key: a 4-byte timestamp, a 3-byte machine
// identifier, a 2-byte process identifier, and a 3-byte counter.
package objectid

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	timestampSize = 4
	machineIDSize = 3
	processIDSize = 2
	counterSize   = 3

	timestampOffset = 0
	machineIDOffset = timestampOffset + timestampSize
	processIDOffset = machineIDOffset + machineIDSize
	counterOffset   = processIDOffset + processIDSize

	counterMask = 0x00FFFFFF // 2^24 - 1
)

// ErrInvalidHex is returned when a string is not a valid 24-character hex ObjectID.
var ErrInvalidHex = errors.New("objectid: provided string must be a 12-byte (24-char) hexadecimal string")

// ObjectID is a 12-byte, globally unique (within the constraints of its
// generation scheme) document identifier.
type ObjectID [12]byte

// Nil is the zero-value ObjectID.
var Nil ObjectID

var (
	objectIDCounter uint32
	counterOnce     sync.Once

	machineID     [machineIDSize]byte
	machineIDOnce sync.Once
)

// New generates a fresh ObjectID from the current time, this process's
// machine/process identity, and the process-wide counter.
//
// Two ObjectIDs generated in strict succession within the same process are
// guaranteed to differ in at least their counter field.
func New() ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[timestampOffset:], uint32(time.Now().Unix()))
	copy(id[machineIDOffset:], getMachineID())
	binary.LittleEndian.PutUint16(id[processIDOffset:], uint16(os.Getpid()))
	putCounter(id[counterOffset:], nextCounter())
	return id
}

// FromTimestamp creates a dummy ObjectID carrying only a generation time,
// useful for range queries against a field of ObjectIDs; all other fields
// are zero.
func FromTimestamp(t time.Time) ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[timestampOffset:], uint32(t.Unix()))
	return id
}

// FromHex parses a 24-character hexadecimal string into an ObjectID.
func FromHex(s string) (ObjectID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Nil, ErrInvalidHex
	}
	if len(b) != 12 {
		return Nil, ErrInvalidHex
	}
	var id ObjectID
	copy(id[:], b)
	return id, nil
}

// Hex returns the lowercase 24-character hexadecimal encoding of the ObjectID.
func (id ObjectID) Hex() string { return hex.EncodeToString(id[:]) }

// String implements fmt.Stringer.
func (id ObjectID) String() string { return "ObjectID(\"" + id.Hex() + "\")" }

// IsZero reports whether the ObjectID is the zero value.
func (id ObjectID) IsZero() bool { return id == Nil }

// Compare returns -1, 0, or 1 according to the byte-wise ordering of id
// against other, matching the server's default BSON comparison for
// ObjectID-typed fields such as electionId.
func (id ObjectID) Compare(other ObjectID) int {
	for i := range id {
		if id[i] != other[i] {
			if id[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Timestamp returns the generation time encoded in the ObjectID.
func (id ObjectID) Timestamp() time.Time {
	sec := binary.BigEndian.Uint32(id[timestampOffset:])
	return time.Unix(int64(sec), 0).UTC()
}

// MachineID returns the 3-byte machine identifier component, left-padded into a uint32.
func (id ObjectID) MachineID() uint32 {
	var buf [4]byte
	copy(buf[1:], id[machineIDOffset:machineIDOffset+machineIDSize])
	return binary.BigEndian.Uint32(buf[:])
}

// ProcessID returns the 2-byte process identifier component.
func (id ObjectID) ProcessID() uint16 {
	return binary.LittleEndian.Uint16(id[processIDOffset:])
}

// Counter returns the 3-byte, big-endian increment counter component.
func (id ObjectID) Counter() uint32 {
	var buf [4]byte
	copy(buf[1:], id[counterOffset:counterOffset+counterSize])
	return binary.BigEndian.Uint32(buf[:])
}

// storeCounter overwrites the process-wide counter. Exposed only for
// deterministic wraparound testing.
func storeCounter(v uint32) {
	atomic.StoreUint32(&objectIDCounter, v)
}

func putCounter(dst []byte, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	copy(dst[:counterSize], buf[1:])
}

// nextCounter returns the pre-increment counter value modulo 2^24. The
// underlying atomic counter itself is never reset to zero; only the view
// returned here wraps, so the 32-bit counter wrapping after 2^32
// generations is immaterial to callers.
func nextCounter() uint32 {
	counterOnce.Do(func() {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(counterMask)+1))
		var start uint32
		if err == nil {
			start = uint32(n.Int64())
		}
		atomic.StoreUint32(&objectIDCounter, start)
	})
	v := atomic.AddUint32(&objectIDCounter, 1) - 1
	return v & counterMask
}

// getMachineID computes, once per process, a 3-byte machine identifier from
// the hostname: MD5-hash it, hex-encode the digest, and take the first three
// bytes of that hex string (not of the raw digest). Concurrent first calls
// are idempotent: they all compute the same deterministic value.
func getMachineID() []byte {
	machineIDOnce.Do(func() {
		host, err := os.Hostname()
		if err != nil {
			host = "localhost"
		}
		sum := md5.Sum([]byte(host))
		hexSum := hex.EncodeToString(sum[:])
		copy(machineID[:], hexSum[:machineIDSize])
	})
	return machineID[:]
}
