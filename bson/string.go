// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// String renders d as an extended-JSON-ish object: { k: v, k2: v2 }, with
// a single space on either side of the braces even when d is empty. This
// is the form every command/reply document takes in a log line; it is not
// meant to round-trip through Document parsing.
func (d *Document) String() string {
	return d.render(false)
}

func (d *Document) render(asArray bool) string {
	var b strings.Builder
	if asArray {
		b.WriteByte('[')
	} else {
		b.WriteString("{ ")
	}
	for i, e := range d.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if !asArray {
			b.WriteString(e.key)
			b.WriteString(": ")
		}
		b.WriteString(e.value.String())
	}
	if asArray {
		b.WriteByte(']')
	} else {
		b.WriteString(" }")
	}
	return b.String()
}

// String renders v in the same extended-JSON-ish style as Document.String:
// strings double-quoted, embedded documents/arrays rendered recursively,
// everything else in its natural literal form.
func (v Value) String() string {
	switch v.t {
	case TypeDouble:
		f, _ := v.DoubleOK()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case TypeString:
		s, _ := v.StringValueOK()
		return strconv.Quote(s)
	case TypeEmbeddedDocument:
		if v.doc == nil {
			return "{  }"
		}
		return v.doc.render(false)
	case TypeArray:
		if v.doc == nil {
			return "[]"
		}
		return v.doc.render(true)
	case TypeBinary:
		return fmt.Sprintf("BinData(%x)", v.raw)
	case TypeObjectID:
		id, _ := v.ObjectIDOK()
		return id.String()
	case TypeBoolean:
		b, _ := v.BooleanOK()
		return strconv.FormatBool(b)
	case TypeDateTime:
		millis := int64(binary.LittleEndian.Uint64(v.raw))
		return fmt.Sprintf("Date(%d)", millis)
	case TypeNull:
		return "null"
	case TypeInt32:
		i, _ := v.Int32OK()
		return strconv.Itoa(int(i))
	case TypeTimestamp:
		ts, _ := v.Int64OK()
		return fmt.Sprintf("Timestamp(%d)", ts)
	case TypeInt64:
		i, _ := v.Int64OK()
		return strconv.FormatInt(i, 10)
	default:
		return fmt.Sprintf("<unknown bson type %d>", v.t)
	}
}
