// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package topology

import (
	"context"
	"sync"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/description"
)

const minHeartbeatInterval = 500 * time.Millisecond

// Monitor repeatedly probes one server with isMaster on a dedicated
// connection (separate from the user-facing Pool), updating topo on every
// outcome and sleeping between heartbeats unless an immediate rescan is
// requested.
type Monitor struct {
	addr address.Address
	topo *Topology
	opts []ConnectionOption
	hook func(description.IsMasterResult, error)

	rescan chan struct{}
	done   chan struct{}
	stop   chan struct{}
	once   sync.Once
}

// StartMonitor launches a Monitor for addr against topo and returns
// immediately; the first probe runs in the background.
func StartMonitor(addr address.Address, topo *Topology, opts []ConnectionOption, hook func(description.IsMasterResult, error)) *Monitor {
	m := &Monitor{
		addr:   addr,
		topo:   topo,
		opts:   opts,
		hook:   hook,
		rescan: make(chan struct{}, 1),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go m.run()
	return m
}

// RequestImmediateCheck asks the monitor to probe now instead of waiting
// for its next scheduled heartbeat. Non-blocking; redundant requests
// collapse into one pending check.
func (m *Monitor) RequestImmediateCheck() {
	select {
	case m.rescan <- struct{}{}:
	default:
	}
}

// Stop signals the monitor to exit and waits for it to do so.
func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Monitor) run() {
	defer close(m.done)

	freq := description.DefaultHeartbeatFrequency
	if m.topo != nil {
		freq = m.topo.HeartbeatFrequency()
	}

	timer := time.NewTimer(0) // fire immediately for the first probe
	defer timer.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-timer.C:
			m.probeOnce()
			timer.Reset(freq)
		case <-m.rescan:
			if !timer.Stop() {
				<-timer.C
			}
			m.probeOnce()
			timer.Reset(freq)
		}
	}
}

func (m *Monitor) probeOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := Connect(ctx, m.addr, m.opts...)
	if err != nil {
		m.report(description.IsMasterResult{}, err)
		return
	}
	defer conn.Close()

	start := time.Now()
	cmd := bson.NewDocument(bson.EC.Int32("isMaster", 1))
	reply, err := RunCommand(ctx, conn, "admin", cmd)
	rtt := time.Since(start)
	if err != nil {
		m.report(description.IsMasterResult{}, err)
		return
	}
	if !CommandOK(reply) {
		m.report(description.IsMasterResult{}, errNotOK(reply))
		return
	}

	result := description.ParseIsMasterResult(reply)
	if m.topo != nil {
		if err := m.topo.applyIsMaster(m.addr, result, rtt); err != nil {
			if _, ok := err.(*description.ErrStaleRescanNeeded); ok {
				m.RequestImmediateCheck()
			}
		}
	}
	if m.hook != nil {
		m.hook(result, nil)
	}
}

func (m *Monitor) report(result description.IsMasterResult, err error) {
	if m.topo != nil {
		m.topo.applyError(m.addr, err)
	}
	if m.hook != nil {
		m.hook(result, err)
	}
}
