package wiremessage

import (
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// Query is an OP_QUERY wire message.
type Query struct {
	MsgHeader            Header
	Flags                OpQueryFlags
	FullCollectionName   string
	NumberToSkip         int32
	NumberToReturn       int32
	Query                bson.Reader
	ReturnFieldsSelector bson.Reader // optional, may be nil
}

// AppendWireMessage implements WireMessage.
func (q Query) AppendWireMessage(dst []byte) ([]byte, error) {
	start := len(dst)
	q.MsgHeader.OpCode = OpQuery
	if q.MsgHeader.RequestID == 0 {
		q.MsgHeader.RequestID = NextRequestID()
	}
	dst = q.MsgHeader.AppendHeader(dst)
	dst = appendInt32(dst, int32(q.Flags))
	dst = appendCString(dst, q.FullCollectionName)
	dst = appendInt32(dst, q.NumberToSkip)
	dst = appendInt32(dst, q.NumberToReturn)
	if len(q.Query) == 0 {
		return nil, fmt.Errorf("wiremessage: OP_QUERY requires a query document")
	}
	dst = append(dst, q.Query...)
	if len(q.ReturnFieldsSelector) > 0 {
		dst = append(dst, q.ReturnFieldsSelector...)
	}
	patchMessageLength(dst, start)
	return dst, nil
}

// UnmarshalWireMessage decodes buf (header already stripped of nothing --
// buf starts at the header) into q. Provided for symmetry/testing; the
// driver core only ever writes, never reads, OP_QUERY.
func (q *Query) UnmarshalWireMessage(buf []byte) error {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return err
	}
	q.MsgHeader = hdr
	pos := 16
	q.Flags = OpQueryFlags(readInt32(buf[pos : pos+4]))
	pos += 4
	name, n, err := readCString(buf[pos:])
	if err != nil {
		return err
	}
	q.FullCollectionName = name
	pos += n
	q.NumberToSkip = readInt32(buf[pos : pos+4])
	pos += 4
	q.NumberToReturn = readInt32(buf[pos : pos+4])
	pos += 4
	length, err := bson.Reader(buf[pos:]).Validate()
	if err != nil {
		return err
	}
	q.Query = bson.Reader(buf[pos : pos+int(length)])
	pos += int(length)
	if pos < len(buf) {
		length, err = bson.Reader(buf[pos:]).Validate()
		if err != nil {
			return err
		}
		q.ReturnFieldsSelector = bson.Reader(buf[pos : pos+int(length)])
	}
	return nil
}
