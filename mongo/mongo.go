// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package mongo is the thin, user-facing facade over the rest of this
// driver core: it turns a mongodb:// URI into a live Topology, and gives
// callers Client/Database/Collection handles that build operation.* command
// structs and run them through an operation.Executor.
package mongo

import (
	"context"
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/auth"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/connstring"
	"github.com/nimbusdb/nimbus-go-driver/description"
	"github.com/nimbusdb/nimbus-go-driver/event"
	"github.com/nimbusdb/nimbus-go-driver/internal/logger"
	"github.com/nimbusdb/nimbus-go-driver/operation"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// ClientOptions configures a Client beyond what the connection string
// itself carries. Every field is optional.
type ClientOptions struct {
	Monitor        *event.CommandMonitor
	Logger         *logger.Logger
	MaxPoolSize    int64
	ConnectionOpts []topology.ConnectionOption
	Auth           auth.Authenticator
}

// Client is a handle to a deployment: one Topology (with its background
// monitors) and one Executor wired to the caller's APM/logging hooks.
type Client struct {
	topo *topology.Topology
	ex   *operation.Executor
	cs   *connstring.ConnString
}

// Connect parses uri, builds a Topology seeded from its host list, and
// returns a Client. Monitoring starts immediately in the background;
// Connect does not itself wait for a server to become reachable, matching
// the original driver's fire-and-discover connection model.
func Connect(ctx context.Context, uri string, opts ...ClientOptions) (*Client, error) {
	cs, err := connstring.Parse(uri)
	if err != nil {
		return nil, err
	}
	if len(cs.Hosts) == 0 {
		return nil, fmt.Errorf("mongo: connection string %q names no hosts", uri)
	}

	var opt ClientOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	seeds := make([]address.Address, len(cs.Hosts))
	for i, h := range cs.Hosts {
		seeds[i] = address.Address(h)
	}

	kind := description.TopologyUnknown
	switch {
	case cs.ReplicaSet != "":
		kind = description.ReplicaSetNoPrimary
	case len(seeds) == 1:
		kind = description.Single
	}

	connOpts := opt.ConnectionOpts
	if cs.Username != "" {
		authenticator := opt.Auth
		if authenticator.Mechanism == "" {
			authenticator = auth.NoAuth
		}
		cred := auth.Credential{
			Source:   cs.AuthSource,
			Username: cs.Username,
			Password: cs.Password,
		}
		connOpts = append(connOpts, topology.WithAuthenticator(authenticator, cred))
	}

	topo := topology.New(topology.Options{
		Kind:                   kind,
		SetName:                cs.ReplicaSet,
		Seeds:                  seeds,
		MaxPoolSize:            opt.MaxPoolSize,
		ConnectionOpts:         connOpts,
		HeartbeatFrequency:     cs.HeartbeatFrequency,
		LocalThreshold:         cs.LocalThreshold,
		ServerSelectionTimeout: cs.ServerSelectionTimeout,
	})

	ex := operation.NewExecutor(topo, opt.Monitor, opt.Logger)
	return &Client{topo: topo, ex: ex, cs: cs}, nil
}

// Disconnect stops every background monitor and closes every pooled
// connection. The Client must not be used afterward.
func (c *Client) Disconnect(ctx context.Context) error {
	c.topo.Close()
	return nil
}

// Database returns a handle to the named database. Database creation is
// implicit on the server; this call does nothing over the wire.
func (c *Client) Database(name string) *Database {
	return &Database{client: c, name: name}
}

// Ping round-trips the "ping" command against a server matching pref,
// defaulting to a primary read if pref is nil.
func (c *Client) Ping(ctx context.Context, pref *readpref.ReadPref) error {
	cmd := bson.NewDocument(bson.EC.Int32("ping", 1))
	_, err := c.ex.RunAdminCommand(ctx, cmd, operation.ReadSelector(pref))
	return err
}

// ListDatabaseNames returns the names of every database on the deployment.
func (c *Client) ListDatabaseNames(ctx context.Context) ([]string, error) {
	cmd := bson.NewDocument(bson.EC.Int32("listDatabases", 1), bson.EC.Boolean("nameOnly", true))
	reply, err := c.ex.RunAdminCommand(ctx, cmd, operation.ReadSelector(readpref.Primary()))
	if err != nil {
		return nil, err
	}

	el, ok := reply.Lookup("databases")
	if !ok {
		return nil, nil
	}
	arr, ok := el.Value().Document()
	if !ok {
		return nil, nil
	}

	names := make([]string, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		e, err := arr.ElementAt(i)
		if err != nil {
			continue
		}
		entry, ok := e.Value().Document()
		if !ok {
			continue
		}
		if nameEl, ok := entry.Lookup("name"); ok {
			if name, ok := nameEl.Value().StringValueOK(); ok {
				names = append(names, name)
			}
		}
	}
	return names, nil
}
