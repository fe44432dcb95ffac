// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nimbusdb/nimbus-go-driver/address"
)

// ErrPoolClosed is returned by Checkout once the pool has been closed.
var ErrPoolClosed = errors.New("topology: connection pool is closed")

// DefaultMaxPoolSize is the default bound on connections per host.
const DefaultMaxPoolSize = 5

// Pool is a bounded set of Connections to a single host. Checkout blocks
// once maxSize connections are outstanding; Checkin returns a connection
// for reuse unless it is broken, in which case it is discarded and the
// slot freed.
type Pool struct {
	addr    address.Address
	maxSize int64
	opts    []ConnectionOption

	sem *semaphore.Weighted

	mu         sync.Mutex
	generation uint64
	idle       []*pooledConn
	closed     bool
}

type pooledConn struct {
	conn       *Connection
	generation uint64
}

// NewPool creates a Pool bounded to maxSize connections against addr. A
// maxSize of 0 uses DefaultMaxPoolSize.
func NewPool(addr address.Address, maxSize int64, opts ...ConnectionOption) *Pool {
	if maxSize <= 0 {
		maxSize = DefaultMaxPoolSize
	}
	return &Pool{
		addr:    addr,
		maxSize: maxSize,
		opts:    opts,
		sem:     semaphore.NewWeighted(maxSize),
	}
}

// Checkout returns an idle connection from the current generation, or
// dials a new one if the pool has capacity. It blocks until a slot is
// available or ctx is done.
func (p *Pool) Checkout(ctx context.Context) (*Connection, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("topology: checkout from %s: %w", p.addr, err)
	}

	// The acquired semaphore slot is spent on exactly one returned
	// Connection, below -- either reused from the idle list or freshly
	// dialed. A stale/dead idle connection is discarded and the loop tries
	// the next one without touching the semaphore.
	for {
		p.mu.Lock()
		if len(p.idle) == 0 {
			p.mu.Unlock()
			break
		}
		pc := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		stale := pc.generation != p.generation
		p.mu.Unlock()

		if stale || !pc.conn.Alive() {
			pc.conn.Close()
			continue
		}
		return pc.conn, nil
	}

	p.mu.Lock()
	gen := p.generation
	p.mu.Unlock()

	conn, err := Connect(ctx, p.addr, p.opts...)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}
	conn.generation = gen
	return conn, nil
}

// Checkin returns conn to the pool unless it is broken, or was checked out
// under a generation Clear has since superseded, in which case it is
// closed and its slot freed instead of being reused.
func (p *Pool) Checkin(conn *Connection) {
	p.mu.Lock()
	if p.closed || !conn.Alive() || conn.generation != p.generation {
		p.mu.Unlock()
		conn.Close()
		p.sem.Release(1)
		return
	}
	p.idle = append(p.idle, &pooledConn{conn: conn, generation: p.generation})
	p.mu.Unlock()
	p.sem.Release(1)
}

// Clear marks the current generation stale: idle connections from the
// prior generation are discarded immediately, and in-flight checked-out
// connections are closed the next time they are checked in rather than
// reused.
func (p *Pool) Clear() {
	p.mu.Lock()
	p.generation++
	stale := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, pc := range stale {
		pc.conn.Close()
	}
}

// Close drains the pool, closing every idle connection.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, pc := range idle {
		pc.conn.Close()
	}
}
