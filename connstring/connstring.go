// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package connstring parses mongodb:// connection strings into a seed list
// plus typed options, the way the teacher's now-absent connstring package
// fed its cluster/topology constructors.
package connstring

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/readpref"
)

// ConnString is the parsed form of a mongodb:// URI.
type ConnString struct {
	Hosts    []string
	Database string

	Username string
	Password string
	AuthSource string

	ReplicaSet string
	SSL        bool

	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	LocalThreshold         time.Duration
	HeartbeatFrequency     time.Duration

	W        int
	WTimeout time.Duration
	Journal  bool

	ReadPreference        readpref.Mode
	ReadPreferenceTagSets []bson.Document
}

// Parse parses a mongodb://[user:pass@]host1[,host2,...][/database][?opts]
// URI. Unix-domain-socket hosts and mongodb+srv:// discovery are not
// supported; an unadorned host list is.
func Parse(uri string) (*ConnString, error) {
	if !strings.HasPrefix(uri, "mongodb://") {
		return nil, fmt.Errorf("connstring: scheme must be mongodb://, got %q", uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("connstring: %w", err)
	}

	cs := &ConnString{
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 30 * time.Second,
		ReadPreference:         readpref.PrimaryMode,
	}

	if u.User != nil {
		cs.Username = u.User.Username()
		cs.Password, _ = u.User.Password()
	}

	cs.Hosts = strings.Split(u.Host, ",")
	for i, h := range cs.Hosts {
		if !strings.Contains(h, ":") {
			cs.Hosts[i] = h + ":27017"
		}
	}
	if len(cs.Hosts) == 0 || cs.Hosts[0] == "" {
		return nil, fmt.Errorf("connstring: at least one host is required")
	}

	cs.Database = strings.TrimPrefix(u.Path, "/")

	q := u.Query()
	if rs := q.Get("replicaSet"); rs != "" {
		cs.ReplicaSet = rs
	}
	if ssl := q.Get("ssl"); ssl != "" {
		cs.SSL, err = strconv.ParseBool(ssl)
		if err != nil {
			return nil, fmt.Errorf("connstring: ssl: %w", err)
		}
	}
	if v := q.Get("authSource"); v != "" {
		cs.AuthSource = v
	} else {
		cs.AuthSource = cs.Database
	}
	if err := parseDurationMS(q, "connectTimeoutMS", &cs.ConnectTimeout); err != nil {
		return nil, err
	}
	if err := parseDurationMS(q, "serverSelectionTimeoutMS", &cs.ServerSelectionTimeout); err != nil {
		return nil, err
	}
	if err := parseDurationMS(q, "localThresholdMS", &cs.LocalThreshold); err != nil {
		return nil, err
	}
	if err := parseDurationMS(q, "heartbeatFrequencyMS", &cs.HeartbeatFrequency); err != nil {
		return nil, err
	}
	if err := parseDurationMS(q, "wTimeoutMS", &cs.WTimeout); err != nil {
		return nil, err
	}
	if v := q.Get("w"); v != "" {
		if v == "majority" {
			cs.W = -1
		} else if n, err := strconv.Atoi(v); err == nil {
			cs.W = n
		} else {
			return nil, fmt.Errorf("connstring: invalid w value %q", v)
		}
	}
	if v := q.Get("journal"); v != "" {
		cs.Journal, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("connstring: journal: %w", err)
		}
	}
	if v := q.Get("readPreference"); v != "" {
		mode, ok := parseReadPrefMode(v)
		if !ok {
			return nil, fmt.Errorf("connstring: unknown readPreference %q", v)
		}
		cs.ReadPreference = mode
	}
	for _, raw := range q["readPreferenceTags"] {
		doc := bson.NewDocument()
		for _, pair := range strings.Split(raw, ",") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			doc.Append(bson.EC.String(kv[0], kv[1]))
		}
		cs.ReadPreferenceTagSets = append(cs.ReadPreferenceTagSets, *doc)
	}

	return cs, nil
}

func parseDurationMS(q url.Values, key string, dst *time.Duration) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("connstring: %s: %w", key, err)
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}

func parseReadPrefMode(v string) (readpref.Mode, bool) {
	switch strings.ToLower(v) {
	case "primary":
		return readpref.PrimaryMode, true
	case "primarypreferred":
		return readpref.PrimaryPreferredMode, true
	case "secondary":
		return readpref.SecondaryMode, true
	case "secondarypreferred":
		return readpref.SecondaryPreferredMode, true
	case "nearest":
		return readpref.NearestMode, true
	default:
		return 0, false
	}
}
