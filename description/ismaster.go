// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

import (
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/objectid"
)

// IsMasterResult is the parsed form of an isMaster command reply, carrying
// exactly the fields the topology state machine and wire-version
// negotiation consume.
type IsMasterResult struct {
	IsMaster            bool
	Secondary            bool
	ArbiterOnly          bool
	Hidden               bool
	IsReplicaSet         bool
	SetName              string
	SetVersion           *int64
	ElectionID           objectid.ObjectID
	HasElectionID        bool
	Primary              string
	Hosts                []string
	Passives             []string
	Arbiters             []string
	Tags                 map[string]string
	Msg                  string
	MaxWireVersion       int32
	MinWireVersion       int32
	MaxBSONObjectSize    int32
	MaxMessageSizeBytes  int32
}

// ParseIsMasterResult decodes the reply document from an isMaster command
// into an IsMasterResult.
func ParseIsMasterResult(doc *bson.Document) IsMasterResult {
	var r IsMasterResult
	r.MaxMessageSizeBytes = 48 * 1024 * 1024

	lookupBool := func(key string) bool {
		el, ok := doc.Lookup(key)
		if !ok {
			return false
		}
		b, _ := el.Value().BooleanOK()
		return b
	}
	lookupString := func(key string) string {
		el, ok := doc.Lookup(key)
		if !ok {
			return ""
		}
		s, _ := el.Value().StringValueOK()
		return s
	}
	lookupInt32 := func(key string) (int32, bool) {
		el, ok := doc.Lookup(key)
		if !ok {
			return 0, false
		}
		i, ok := el.Value().Int32OK()
		return i, ok
	}
	lookupStrings := func(key string) []string {
		el, ok := doc.Lookup(key)
		if !ok {
			return nil
		}
		arr, ok := el.Value().Document()
		if !ok {
			return nil
		}
		out := make([]string, 0, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			e, err := arr.ElementAt(i)
			if err != nil {
				continue
			}
			if s, ok := e.Value().StringValueOK(); ok {
				out = append(out, s)
			}
		}
		return out
	}

	r.IsMaster = lookupBool("ismaster")
	r.Secondary = lookupBool("secondary")
	r.ArbiterOnly = lookupBool("arbiterOnly")
	r.Hidden = lookupBool("hidden")
	r.IsReplicaSet = lookupBool("isreplicaset")
	r.SetName = lookupString("setName")
	r.Primary = lookupString("primary")
	r.Msg = lookupString("msg")
	r.Hosts = lookupStrings("hosts")
	r.Passives = lookupStrings("passives")
	r.Arbiters = lookupStrings("arbiters")

	if v, ok := lookupInt32("maxWireVersion"); ok {
		r.MaxWireVersion = v
	}
	if v, ok := lookupInt32("minWireVersion"); ok {
		r.MinWireVersion = v
	}
	if v, ok := lookupInt32("maxBsonObjectSize"); ok {
		r.MaxBSONObjectSize = v
	}
	if v, ok := lookupInt32("maxMessageSizeBytes"); ok {
		r.MaxMessageSizeBytes = v
	}
	if el, ok := doc.Lookup("setVersion"); ok {
		if i64, ok := el.Value().Int64OK(); ok {
			r.SetVersion = &i64
		} else if i32, ok := el.Value().Int32OK(); ok {
			v := int64(i32)
			r.SetVersion = &v
		}
	}
	if el, ok := doc.Lookup("electionId"); ok {
		if id, ok := el.Value().ObjectIDOK(); ok {
			r.ElectionID = id
			r.HasElectionID = true
		}
	}
	if el, ok := doc.Lookup("tags"); ok {
		if tagsDoc, ok := el.Value().Document(); ok {
			r.Tags = make(map[string]string, tagsDoc.Len())
			for i := 0; i < tagsDoc.Len(); i++ {
				e, err := tagsDoc.ElementAt(i)
				if err != nil {
					continue
				}
				if s, ok := e.Value().StringValueOK(); ok {
					r.Tags[e.Key()] = s
				}
			}
		}
	}

	return r
}

// ServerType derives the ServerType this reply describes.
func (r IsMasterResult) ServerType() ServerType {
	return NewServerType(r.IsMaster, r.Secondary, r.ArbiterOnly, r.Hidden, r.IsReplicaSet, r.SetName, r.Msg)
}
