package wiremessage

import (
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// Reply is an OP_REPLY wire message.
type Reply struct {
	MsgHeader      Header
	ResponseFlags  ReplyFlags
	CursorID       int64
	StartingFrom   int32
	NumberReturned int32
	Documents      []bson.Reader
}

// AppendWireMessage implements WireMessage. The driver core never sends an
// OP_REPLY (only servers do); this exists for symmetry and for tests that
// construct replies to feed a mocked connection.
func (r Reply) AppendWireMessage(dst []byte) ([]byte, error) {
	start := len(dst)
	r.MsgHeader.OpCode = OpReply
	if r.MsgHeader.RequestID == 0 {
		r.MsgHeader.RequestID = NextRequestID()
	}
	if r.NumberReturned == 0 {
		r.NumberReturned = int32(len(r.Documents))
	}
	dst = r.MsgHeader.AppendHeader(dst)
	dst = appendInt32(dst, int32(r.ResponseFlags))
	dst = appendInt64(dst, r.CursorID)
	dst = appendInt32(dst, r.StartingFrom)
	dst = appendInt32(dst, r.NumberReturned)
	for _, d := range r.Documents {
		dst = append(dst, d...)
	}
	patchMessageLength(dst, start)
	return dst, nil
}

// UnmarshalWireMessage decodes buf (a complete message, header included)
// into r. Returns an error if the declared
// numberReturned disagrees with the number of documents actually present.
func (r *Reply) UnmarshalWireMessage(buf []byte) error {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return err
	}
	r.MsgHeader = hdr
	pos := 16
	r.ResponseFlags = ReplyFlags(readInt32(buf[pos : pos+4]))
	pos += 4
	r.CursorID = readInt64(buf[pos : pos+8])
	pos += 8
	r.StartingFrom = readInt32(buf[pos : pos+4])
	pos += 4
	r.NumberReturned = readInt32(buf[pos : pos+4])
	pos += 4

	r.Documents = r.Documents[:0]
	for pos < len(buf) {
		length, err := bson.Reader(buf[pos:]).Validate()
		if err != nil {
			return fmt.Errorf("wiremessage: malformed document in OP_REPLY: %w", err)
		}
		r.Documents = append(r.Documents, bson.Reader(buf[pos:pos+int(length)]))
		pos += int(length)
	}

	if int32(len(r.Documents)) != r.NumberReturned {
		return fmt.Errorf("wiremessage: OP_REPLY declared numberReturned=%d but contains %d documents",
			r.NumberReturned, len(r.Documents))
	}
	return nil
}
