// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package readpref describes how a client picks which server in a topology
// to route a read operation to.
package readpref

import "github.com/nimbusdb/nimbus-go-driver/bson"

// Mode is one of the five standard read preference modes.
type Mode uint8

// The five read preference modes.
const (
	PrimaryMode Mode = iota
	PrimaryPreferredMode
	SecondaryMode
	SecondaryPreferredMode
	NearestMode
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case PrimaryMode:
		return "primary"
	case PrimaryPreferredMode:
		return "primaryPreferred"
	case SecondaryMode:
		return "secondary"
	case SecondaryPreferredMode:
		return "secondaryPreferred"
	case NearestMode:
		return "nearest"
	default:
		return "unknown"
	}
}

// ReadPref pairs a mode with an ordered list of tag sets used to narrow
// candidate servers. An empty TagSets means "any tags".
type ReadPref struct {
	mode    Mode
	tagSets []bson.Document
}

// New builds a ReadPref. Supplying tag sets with PrimaryMode is a caller
// error by the server selection spec, but is not rejected here; the
// topology layer simply never consults tags for a primary-only read.
func New(mode Mode, tagSets ...bson.Document) *ReadPref {
	return &ReadPref{mode: mode, tagSets: tagSets}
}

// Primary returns the (tagless) primary-only read preference.
func Primary() *ReadPref { return New(PrimaryMode) }

// PrimaryPreferred returns a primary-preferred read preference.
func PrimaryPreferred(tagSets ...bson.Document) *ReadPref {
	return New(PrimaryPreferredMode, tagSets...)
}

// Secondary returns a secondary-only read preference.
func Secondary(tagSets ...bson.Document) *ReadPref { return New(SecondaryMode, tagSets...) }

// SecondaryPreferred returns a secondary-preferred read preference.
func SecondaryPreferred(tagSets ...bson.Document) *ReadPref {
	return New(SecondaryPreferredMode, tagSets...)
}

// Nearest returns a nearest read preference.
func Nearest(tagSets ...bson.Document) *ReadPref { return New(NearestMode, tagSets...) }

// Mode returns the read preference's mode.
func (rp *ReadPref) Mode() Mode { return rp.mode }

// TagSets returns the ordered tag sets to match against, in preference order.
func (rp *ReadPref) TagSets() []bson.Document { return rp.tagSets }
