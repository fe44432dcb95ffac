package bson

import (
	"encoding/binary"
	"fmt"
)

// Reader is a raw, undecoded BSON document: exactly the bytes that came off
// (or will go onto) the wire.
type Reader []byte

// ErrInvalidDocument indicates malformed BSON bytes.
var ErrInvalidDocument = fmt.Errorf("bson: invalid document")

// Validate checks that r is a well-formed BSON document: a correct length
// prefix and a trailing null byte, without fully decoding every element.
func (r Reader) Validate() (int32, error) {
	if len(r) < 5 {
		return 0, ErrInvalidDocument
	}
	length := int32(binary.LittleEndian.Uint32(r))
	if int(length) != len(r) {
		return 0, fmt.Errorf("%w: length %d does not match buffer of %d bytes", ErrInvalidDocument, length, len(r))
	}
	if r[len(r)-1] != 0 {
		return 0, fmt.Errorf("%w: missing trailing null byte", ErrInvalidDocument)
	}
	return length, nil
}

// Iterator walks the elements of a Reader in order.
type Iterator struct {
	buf  []byte
	pos  int
	elem Element
	err  error
}

// Iterator returns an Iterator over the document's elements.
func (r Reader) Iterator() (*Iterator, error) {
	if _, err := r.Validate(); err != nil {
		return nil, err
	}
	return &Iterator{buf: r, pos: 4}, nil
}

// Err returns the error, if any, that stopped iteration.
func (it *Iterator) Err() error { return it.err }

// Next advances the iterator and reports whether an element was found.
func (it *Iterator) Next() bool {
	if it.err != nil || it.pos >= len(it.buf) {
		return false
	}
	if it.buf[it.pos] == 0 {
		return false
	}

	t := Type(it.buf[it.pos])
	it.pos++

	start := it.pos
	for it.pos < len(it.buf) && it.buf[it.pos] != 0 {
		it.pos++
	}
	if it.pos >= len(it.buf) {
		it.err = ErrInvalidDocument
		return false
	}
	key := string(it.buf[start:it.pos])
	it.pos++ // skip the key's terminating null

	val, n, err := decodeValue(t, it.buf[it.pos:])
	if err != nil {
		it.err = err
		return false
	}
	it.pos += n
	it.elem = Element{key: key, value: val}
	return true
}

// Element returns the element produced by the most recent call to Next.
func (it *Iterator) Element() *Element { return &it.elem }

// decodeValue decodes a single value of type t from buf, returning the
// value and the number of bytes it consumed.
func decodeValue(t Type, buf []byte) (Value, int, error) {
	switch t {
	case TypeDouble:
		if len(buf) < 8 {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:8])}, 8, nil
	case TypeString:
		if len(buf) < 4 {
			return Value{}, 0, ErrInvalidDocument
		}
		n := int(binary.LittleEndian.Uint32(buf))
		total := 4 + n
		if total > len(buf) {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:total])}, total, nil
	case TypeEmbeddedDocument, TypeArray:
		if len(buf) < 4 {
			return Value{}, 0, ErrInvalidDocument
		}
		n := int(binary.LittleEndian.Uint32(buf))
		if n > len(buf) {
			return Value{}, 0, ErrInvalidDocument
		}
		sub := Reader(buf[:n])
		doc, err := decodeDocument(sub)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{t: t, doc: doc}, n, nil
	case TypeBinary:
		if len(buf) < 5 {
			return Value{}, 0, ErrInvalidDocument
		}
		n := int(binary.LittleEndian.Uint32(buf))
		total := 4 + 1 + n
		if total > len(buf) {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:total])}, total, nil
	case TypeObjectID:
		if len(buf) < 12 {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:12])}, 12, nil
	case TypeBoolean:
		if len(buf) < 1 {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:1])}, 1, nil
	case TypeDateTime, TypeInt64, TypeTimestamp:
		if len(buf) < 8 {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:8])}, 8, nil
	case TypeNull:
		return Value{t: t}, 0, nil
	case TypeInt32:
		if len(buf) < 4 {
			return Value{}, 0, ErrInvalidDocument
		}
		return Value{t: t, raw: clone(buf[:4])}, 4, nil
	default:
		return Value{}, 0, fmt.Errorf("%w: unsupported type %s", ErrInvalidDocument, t)
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// decodeDocument fully decodes a Reader into a *Document, recursively.
func decodeDocument(r Reader) (*Document, error) {
	it, err := r.Iterator()
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	for it.Next() {
		e := *it.Element()
		doc.Append(&e)
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return doc, nil
}

// ToExtJSONLite renders a very small, debug-only textual form of a
// document -- not a full Extended JSON implementation.
func (r Reader) ToExtJSONLite() string {
	it, err := r.Iterator()
	if err != nil {
		return "<invalid bson>"
	}
	s := "{"
	first := true
	for it.Next() {
		if !first {
			s += ", "
		}
		first = false
		e := it.Element()
		s += fmt.Sprintf("%q: %s", e.Key(), describeValue(e.Value()))
	}
	return s + "}"
}

func describeValue(v Value) string {
	switch v.Type() {
	case TypeString:
		s, _ := v.StringValueOK()
		return fmt.Sprintf("%q", s)
	case TypeInt32:
		i, _ := v.Int32OK()
		return fmt.Sprintf("%d", i)
	case TypeInt64, TypeTimestamp:
		i, _ := v.Int64OK()
		return fmt.Sprintf("%d", i)
	case TypeDouble:
		f, _ := v.DoubleOK()
		return fmt.Sprintf("%v", f)
	case TypeBoolean:
		b, _ := v.BooleanOK()
		return fmt.Sprintf("%v", b)
	case TypeObjectID:
		id, _ := v.ObjectIDOK()
		return id.Hex()
	case TypeNull:
		return "null"
	case TypeEmbeddedDocument, TypeArray:
		return "<doc>"
	default:
		return "<?>"
	}
}
