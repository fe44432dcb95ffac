// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson implements the minimal subset of the BSON document codec
// that the driver's own wire commands and isMaster replies need: a
// document builder (NewDocument/EC), a raw-bytes Reader with an Iterator
// for walking a decoded reply, and a Value type with typed accessors.
//
// A full, reflection-based BSON codec (struct tags, custom registries,
// extended JSON) is an explicitly out-of-scope collaborator for this
// core driver; see SPEC_FULL.md §4.0 and DESIGN.md.
package bson

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nimbusdb/nimbus-go-driver/objectid"
)

// Type is a BSON element type tag.
type Type byte

// Supported element types.
const (
	TypeDouble          Type = 0x01
	TypeString          Type = 0x02
	TypeEmbeddedDocument Type = 0x03
	TypeArray           Type = 0x04
	TypeBinary          Type = 0x05
	TypeObjectID        Type = 0x07
	TypeBoolean         Type = 0x08
	TypeDateTime        Type = 0x09
	TypeNull            Type = 0x0A
	TypeInt32           Type = 0x10
	TypeTimestamp       Type = 0x11
	TypeInt64           Type = 0x12
)

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeEmbeddedDocument:
		return "embedded document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeObjectID:
		return "objectID"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeNull:
		return "null"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	default:
		return fmt.Sprintf("unknown type %#x", byte(t))
	}
}

// Element is a single key/value pair within a Document.
type Element struct {
	key   string
	value Value
}

// Key returns the element's field name.
func (e *Element) Key() string { return e.key }

// Value returns the element's value.
func (e *Element) Value() Value { return e.value }

// Value is a typed BSON value. The zero Value is invalid; Values are
// produced by the EC constructors or by decoding a Reader.
type Value struct {
	t   Type
	raw []byte // type-specific payload, already in wire form
	doc *Document
}

// Type returns the value's BSON type tag.
func (v Value) Type() Type { return v.t }

// Double returns the value as a float64; panics if the type does not match.
func (v Value) Double() float64 {
	f, ok := v.DoubleOK()
	if !ok {
		panic("value is not a double")
	}
	return f
}

// DoubleOK returns the value as a float64 and whether the type matched.
func (v Value) DoubleOK() (float64, bool) {
	if v.t != TypeDouble {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.raw)), true
}

// StringValue returns the value as a string; panics if the type does not match.
func (v Value) StringValue() string {
	s, ok := v.StringValueOK()
	if !ok {
		panic("value is not a string")
	}
	return s
}

// StringValueOK returns the value as a string and whether the type matched.
func (v Value) StringValueOK() (string, bool) {
	if v.t != TypeString {
		return "", false
	}
	n := binary.LittleEndian.Uint32(v.raw)
	return string(v.raw[4 : 4+n-1]), true
}

// Int32 returns the value as an int32; panics if the type does not match.
func (v Value) Int32() int32 {
	i, ok := v.Int32OK()
	if !ok {
		panic("value is not an int32")
	}
	return i
}

// Int32OK returns the value as an int32 and whether the type matched.
func (v Value) Int32OK() (int32, bool) {
	if v.t != TypeInt32 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(v.raw)), true
}

// Int64 returns the value as an int64; panics if the type does not match.
func (v Value) Int64() int64 {
	i, ok := v.Int64OK()
	if !ok {
		panic("value is not an int64")
	}
	return i
}

// Int64OK returns the value as an int64 and whether the type matched.
func (v Value) Int64OK() (int64, bool) {
	if v.t != TypeInt64 && v.t != TypeTimestamp {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(v.raw)), true
}

// Boolean returns the value as a bool; panics if the type does not match.
func (v Value) Boolean() bool {
	b, ok := v.BooleanOK()
	if !ok {
		panic("value is not a boolean")
	}
	return b
}

// BooleanOK returns the value as a bool and whether the type matched.
func (v Value) BooleanOK() (bool, bool) {
	if v.t != TypeBoolean {
		return false, false
	}
	return v.raw[0] != 0, true
}

// ObjectID returns the value as an objectid.ObjectID; panics if the type does not match.
func (v Value) ObjectID() objectid.ObjectID {
	id, ok := v.ObjectIDOK()
	if !ok {
		panic("value is not an objectID")
	}
	return id
}

// ObjectIDOK returns the value as an objectid.ObjectID and whether the type matched.
func (v Value) ObjectIDOK() (objectid.ObjectID, bool) {
	if v.t != TypeObjectID {
		return objectid.Nil, false
	}
	var id objectid.ObjectID
	copy(id[:], v.raw)
	return id, true
}

// Document returns the value as a *Document for TypeEmbeddedDocument or TypeArray.
func (v Value) Document() (*Document, bool) {
	if v.t != TypeEmbeddedDocument && v.t != TypeArray {
		return nil, false
	}
	return v.doc, true
}

// IsNull reports whether the value is BSON null.
func (v Value) IsNull() bool { return v.t == TypeNull }

// Document is a mutable, ordered list of elements that can be built up with
// EC constructors and marshalled to wire bytes.
type Document struct {
	elems []*Element
}

// NewDocument creates a Document from the given elements, in order.
func NewDocument(elems ...*Element) *Document {
	d := &Document{elems: make([]*Element, 0, len(elems))}
	d.Append(elems...)
	return d
}

// Append adds elements to the end of the document.
func (d *Document) Append(elems ...*Element) *Document {
	d.elems = append(d.elems, elems...)
	return d
}

// Len returns the number of elements in the document.
func (d *Document) Len() int { return len(d.elems) }

// ElementAt returns the i'th element.
func (d *Document) ElementAt(i int) (*Element, error) {
	if i < 0 || i >= len(d.elems) {
		return nil, errors.New("bson: index out of range")
	}
	return d.elems[i], nil
}

// Lookup returns the first element with the given key.
func (d *Document) Lookup(key string) (*Element, bool) {
	for _, e := range d.elems {
		if e.key == key {
			return e, true
		}
	}
	return nil, false
}

// Keys returns the document's keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.elems))
	for i, e := range d.elems {
		keys[i] = e.key
	}
	return keys
}

// SortedKeys returns a sorted copy of the document's keys, useful for
// deterministic debug output.
func (d *Document) SortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}

// ec is the namespace for element constructors, mirroring the teacher's bson.EC.
type ec struct{}

// EC is the element-constructor namespace: bson.EC.Int32("n", 1), etc.
var EC ec

func (ec) Double(key string, v float64) *Element {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, math.Float64bits(v))
	return &Element{key: key, value: Value{t: TypeDouble, raw: raw}}
}

func (ec) String(key, v string) *Element {
	raw := make([]byte, 4+len(v)+1)
	binary.LittleEndian.PutUint32(raw, uint32(len(v)+1))
	copy(raw[4:], v)
	raw[len(raw)-1] = 0
	return &Element{key: key, value: Value{t: TypeString, raw: raw}}
}

func (ec) Int32(key string, v int32) *Element {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, uint32(v))
	return &Element{key: key, value: Value{t: TypeInt32, raw: raw}}
}

func (ec) Int64(key string, v int64) *Element {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, uint64(v))
	return &Element{key: key, value: Value{t: TypeInt64, raw: raw}}
}

func (ec) Boolean(key string, v bool) *Element {
	raw := []byte{0}
	if v {
		raw[0] = 1
	}
	return &Element{key: key, value: Value{t: TypeBoolean, raw: raw}}
}

func (ec) ObjectID(key string, v objectid.ObjectID) *Element {
	raw := make([]byte, 12)
	copy(raw, v[:])
	return &Element{key: key, value: Value{t: TypeObjectID, raw: raw}}
}

func (ec) Null(key string) *Element {
	return &Element{key: key, value: Value{t: TypeNull}}
}

func (ec) DateTime(key string, millis int64) *Element {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, uint64(millis))
	return &Element{key: key, value: Value{t: TypeDateTime, raw: raw}}
}

// SubDocument embeds a Document as a value.
func (ec) SubDocument(key string, v *Document) *Element {
	return &Element{key: key, value: Value{t: TypeEmbeddedDocument, doc: v}}
}

// Array embeds a Document (used positionally, keys ignored on the wire) as a BSON array.
func (ec) Array(key string, v *Document) *Element {
	return &Element{key: key, value: Value{t: TypeArray, doc: v}}
}

// ArrayFromStrings is a convenience constructor for a string array element.
func (ec) ArrayFromStrings(key string, values []string) *Element {
	arr := NewDocument()
	for i, s := range values {
		arr.Append(EC.String(fmt.Sprintf("%d", i), s))
	}
	return EC.Array(key, arr)
}
