package bson

import (
	"encoding/binary"
	"fmt"
)

// Marshal encodes a Document into its BSON wire representation.
func Marshal(d *Document) (Reader, error) {
	buf := make([]byte, 4, 64)
	var err error
	buf, err = appendElements(buf, d)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(buf, uint32(len(buf)))
	return Reader(buf), nil
}

func appendElements(buf []byte, d *Document) ([]byte, error) {
	for _, e := range d.elems {
		buf = append(buf, byte(e.value.t))
		buf = append(buf, []byte(e.key)...)
		buf = append(buf, 0)

		switch e.value.t {
		case TypeEmbeddedDocument:
			sub, err := Marshal(e.value.doc)
			if err != nil {
				return nil, err
			}
			buf = append(buf, sub...)
		case TypeArray:
			sub, err := marshalArray(e.value.doc)
			if err != nil {
				return nil, err
			}
			buf = append(buf, sub...)
		default:
			buf = append(buf, e.value.raw...)
		}
	}
	buf = append(buf, 0)
	return buf, nil
}

// marshalArray encodes a Document whose elements are treated positionally
// (as a BSON array) rather than by key.
func marshalArray(d *Document) ([]byte, error) {
	buf := make([]byte, 4, 64)
	for i, e := range d.elems {
		buf = append(buf, byte(e.value.t))
		buf = append(buf, []byte(fmt.Sprintf("%d", i))...)
		buf = append(buf, 0)
		switch e.value.t {
		case TypeEmbeddedDocument:
			sub, err := Marshal(e.value.doc)
			if err != nil {
				return nil, err
			}
			buf = append(buf, sub...)
		case TypeArray:
			sub, err := marshalArray(e.value.doc)
			if err != nil {
				return nil, err
			}
			buf = append(buf, sub...)
		default:
			buf = append(buf, e.value.raw...)
		}
	}
	buf = append(buf, 0)
	binary.LittleEndian.PutUint32(buf, uint32(len(buf)))
	return buf, nil
}
