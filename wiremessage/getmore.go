package wiremessage

// GetMore is an OP_GET_MORE wire message.
type GetMore struct {
	MsgHeader          Header
	FullCollectionName string
	NumberToReturn     int32
	CursorID           int64
}

// AppendWireMessage implements WireMessage.
func (g GetMore) AppendWireMessage(dst []byte) ([]byte, error) {
	start := len(dst)
	g.MsgHeader.OpCode = OpGetMore
	if g.MsgHeader.RequestID == 0 {
		g.MsgHeader.RequestID = NextRequestID()
	}
	dst = g.MsgHeader.AppendHeader(dst)
	dst = appendInt32(dst, 0) // reserved
	dst = appendCString(dst, g.FullCollectionName)
	dst = appendInt32(dst, g.NumberToReturn)
	dst = appendInt64(dst, g.CursorID)
	patchMessageLength(dst, start)
	return dst, nil
}

// UnmarshalWireMessage decodes buf into g.
func (g *GetMore) UnmarshalWireMessage(buf []byte) error {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return err
	}
	g.MsgHeader = hdr
	pos := 16 + 4 // skip reserved int32
	name, n, err := readCString(buf[pos:])
	if err != nil {
		return err
	}
	g.FullCollectionName = name
	pos += n
	g.NumberToReturn = readInt32(buf[pos : pos+4])
	pos += 4
	g.CursorID = readInt64(buf[pos : pos+8])
	return nil
}
