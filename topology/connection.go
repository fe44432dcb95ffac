// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package topology implements the connection, pool, server, and monitor
// layers (C2–C6) that sit between the wire codec and operation dispatch:
// one TCP stream per Connection, a bounded Pool of them per host, a Server
// owning its Pool and background Monitor, and the aggregate Topology that
// applies the SDAM transition table and answers selection queries.
package topology

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/auth"
	"github.com/nimbusdb/nimbus-go-driver/internal"
	"github.com/nimbusdb/nimbus-go-driver/wiremessage"
)

var globalConnectionID uint64

func nextConnectionID() uint64 { return atomic.AddUint64(&globalConnectionID, 1) }

// Dialer opens a network connection; satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// DialerFunc adapts a function to a Dialer.
type DialerFunc func(ctx context.Context, network, address string) (net.Conn, error)

// DialContext implements Dialer.
func (f DialerFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

// DefaultDialer is used when no Dialer is configured.
var DefaultDialer Dialer = &net.Dialer{}

// connConfig configures a single Connection.
type connConfig struct {
	dialer       Dialer
	tlsConfig    *tls.Config
	connectTimeout time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	maxMessageSize int32
	authenticator  *auth.Authenticator
	credential     auth.Credential
}

func newConnConfig(opts ...ConnectionOption) *connConfig {
	cfg := &connConfig{
		dialer:         DefaultDialer,
		connectTimeout: 30 * time.Second,
		maxMessageSize: wiremessage.DefaultMaxMessageSizeBytes,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// ConnectionOption configures a Connection at construction.
type ConnectionOption func(*connConfig)

// WithDialer overrides the network dialer.
func WithDialer(d Dialer) ConnectionOption { return func(c *connConfig) { c.dialer = d } }

// WithTLSConfig enables TLS using cfg.
func WithTLSConfig(cfg *tls.Config) ConnectionOption {
	return func(c *connConfig) { c.tlsConfig = cfg }
}

// WithReadTimeout bounds each socket read.
func WithReadTimeout(d time.Duration) ConnectionOption {
	return func(c *connConfig) { c.readTimeout = d }
}

// WithWriteTimeout bounds each socket write.
func WithWriteTimeout(d time.Duration) ConnectionOption {
	return func(c *connConfig) { c.writeTimeout = d }
}

// WithMaxMessageSize overrides the default 48 MiB reply-size cap.
func WithMaxMessageSize(n int32) ConnectionOption {
	return func(c *connConfig) { c.maxMessageSize = n }
}

// WithAuthenticator runs a's handshake with cred against every connection
// immediately after it is dialed (and, if configured, TLS-wrapped), before
// the connection is handed back to its caller.
func WithAuthenticator(a auth.Authenticator, cred auth.Credential) ConnectionOption {
	return func(c *connConfig) {
		c.authenticator = &a
		c.credential = cred
	}
}

// Connection is a single bidirectional stream to one host. It tracks its
// own "broken" flag: once an I/O error occurs, the connection must not be
// reused and the pool discards it on checkin.
type Connection struct {
	id         string
	addr       address.Address
	nc         net.Conn
	cfg        *connConfig
	broken     bool
	generation uint64
}

// Connect dials addr and, if cfg.tlsConfig is set, performs the TLS
// handshake before returning.
func Connect(ctx context.Context, addr address.Address, opts ...ConnectionOption) (*Connection, error) {
	cfg := newConnConfig(opts...)

	dialCtx := ctx
	var cancel context.CancelFunc
	if cfg.connectTimeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, cfg.connectTimeout)
		defer cancel()
	}

	nc, err := cfg.dialer.DialContext(dialCtx, "tcp", string(addr))
	if err != nil {
		return nil, fmt.Errorf("topology: dial %s: %w", addr, err)
	}

	if cfg.tlsConfig != nil {
		tlsConn := tls.Client(nc, cfg.tlsConfig.Clone())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			nc.Close()
			return nil, fmt.Errorf("topology: TLS handshake with %s: %w", addr, err)
		}
		if !cfg.tlsConfig.InsecureSkipVerify {
			if err := verifyStapledOCSPResponse(tlsConn.ConnectionState()); err != nil {
				tlsConn.Close()
				return nil, err
			}
		}
		nc = tlsConn
	}

	conn := &Connection{
		id:   fmt.Sprintf("%s[%d]", addr, nextConnectionID()),
		addr: addr,
		nc:   nc,
		cfg:  cfg,
	}

	if cfg.authenticator != nil && cfg.authenticator.Mechanism != "" {
		if err := cfg.authenticator.Handshake(ctx, addr, conn, cfg.credential); err != nil {
			conn.Close()
			return nil, fmt.Errorf("topology: authenticate %s: %w", addr, err)
		}
	}

	return conn, nil
}

// ID returns a human-readable, process-unique connection identifier.
func (c *Connection) ID() string { return c.id }

// Alive reports whether the connection has not yet hit an I/O error.
func (c *Connection) Alive() bool { return !c.broken }

// Close closes the underlying stream.
func (c *Connection) Close() error { return c.nc.Close() }

// WriteWireMessage encodes and writes wm, marking the connection broken on
// any I/O error.
func (c *Connection) WriteWireMessage(ctx context.Context, wm wiremessage.WireMessage) error {
	if c.broken {
		return fmt.Errorf("topology: connection %s is broken", c.id)
	}
	buf, err := wm.AppendWireMessage(nil)
	if err != nil {
		return err
	}
	if c.cfg.writeTimeout > 0 {
		c.nc.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
	} else if dl, ok := ctx.Deadline(); ok {
		c.nc.SetWriteDeadline(dl)
	}
	if _, err := c.nc.Write(buf); err != nil {
		c.broken = true
		return fmt.Errorf("topology: write to %s: %w", c.addr, err)
	}
	return nil
}

// ReadWireMessage reads exactly one framed message (header, then body per
// the declared messageLength) and decodes it as an OP_REPLY -- the only
// message type a server ever sends back in this wire-version core.
func (c *Connection) ReadWireMessage(ctx context.Context) (wiremessage.WireMessage, error) {
	if c.broken {
		return nil, fmt.Errorf("topology: connection %s is broken", c.id)
	}
	if c.cfg.readTimeout > 0 {
		c.nc.SetReadDeadline(time.Now().Add(c.cfg.readTimeout))
	} else if dl, ok := ctx.Deadline(); ok {
		c.nc.SetReadDeadline(dl)
	} else if ctx.Done() != nil {
		// No deadline on the connection itself and no context deadline to
		// derive one from (e.g. a context.WithCancel): race the blocking
		// read against ctx.Done() and close the connection to unblock it,
		// rather than reading forever past cancellation.
		listener := internal.NewCancellationListener()
		defer listener.StopListening()
		go listener.Listen(ctx, func() { c.nc.Close() })
	}

	header := make([]byte, 16)
	if _, err := readFull(c.nc, header); err != nil {
		c.broken = true
		return nil, fmt.Errorf("topology: read header from %s: %w", c.addr, err)
	}
	hdr, err := wiremessage.ReadHeader(header)
	if err != nil {
		c.broken = true
		return nil, err
	}
	if hdr.MessageLength < 16 || hdr.MessageLength > c.cfg.maxMessageSize {
		c.broken = true
		return nil, fmt.Errorf("topology: reply from %s declares messageLength=%d, exceeds cap %d",
			c.addr, hdr.MessageLength, c.cfg.maxMessageSize)
	}

	buf := make([]byte, hdr.MessageLength)
	copy(buf, header)
	if _, err := readFull(c.nc, buf[16:]); err != nil {
		c.broken = true
		return nil, fmt.Errorf("topology: read body from %s: %w", c.addr, err)
	}

	var reply wiremessage.Reply
	if err := reply.UnmarshalWireMessage(buf); err != nil {
		c.broken = true
		return nil, err
	}
	return reply, nil
}

func readFull(r net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
