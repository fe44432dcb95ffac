package wiremessage

// KillCursors is an OP_KILL_CURSORS wire message.
type KillCursors struct {
	MsgHeader         Header
	NumberOfCursorIDs int32
	CursorIDs         []int64
}

// AppendWireMessage implements WireMessage.
func (k KillCursors) AppendWireMessage(dst []byte) ([]byte, error) {
	start := len(dst)
	k.MsgHeader.OpCode = OpKillCursors
	if k.MsgHeader.RequestID == 0 {
		k.MsgHeader.RequestID = NextRequestID()
	}
	if k.NumberOfCursorIDs == 0 {
		k.NumberOfCursorIDs = int32(len(k.CursorIDs))
	}
	dst = k.MsgHeader.AppendHeader(dst)
	dst = appendInt32(dst, 0) // reserved
	dst = appendInt32(dst, k.NumberOfCursorIDs)
	for _, id := range k.CursorIDs {
		dst = appendInt64(dst, id)
	}
	patchMessageLength(dst, start)
	return dst, nil
}

// UnmarshalWireMessage decodes buf into k.
func (k *KillCursors) UnmarshalWireMessage(buf []byte) error {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return err
	}
	k.MsgHeader = hdr
	pos := 16 + 4 // skip reserved int32
	k.NumberOfCursorIDs = readInt32(buf[pos : pos+4])
	pos += 4
	k.CursorIDs = make([]int64, 0, k.NumberOfCursorIDs)
	for i := int32(0); i < k.NumberOfCursorIDs; i++ {
		k.CursorIDs = append(k.CursorIDs, readInt64(buf[pos:pos+8]))
		pos += 8
	}
	return nil
}
