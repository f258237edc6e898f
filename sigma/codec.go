package sigma

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrUnexpectedEOF = errors.New("sigma: unexpected end of input")
	ErrVLQOverflow   = errors.New("sigma: vlq value overflows 64 bits")
	ErrValueRange    = errors.New("sigma: value out of range")
)

// Writer accumulates the binary encoding of sigma values.
type Writer struct {
	buf []byte
}

// Bytes returns the accumulated encoding. The returned slice aliases the
// writer's buffer until the next Put call.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// PutByte appends a single raw byte.
func (w *Writer) PutByte(b byte) { w.buf = append(w.buf, b) }

// PutBytes appends raw bytes without a length prefix.
func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutUvarint appends v as an unsigned LEB128 (VLQ) number.
func (w *Writer) PutUvarint(v uint64) {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

// PutInt32 appends v zigzag encoded as a VLQ.
func (w *Writer) PutInt32(v int32) {
	w.PutUvarint(uint64(uint32((v << 1) ^ (v >> 31))))
}

// PutInt64 appends v zigzag encoded as a VLQ.
func (w *Writer) PutInt64(v int64) {
	w.PutUvarint(uint64((v << 1) ^ (v >> 63)))
}

// Reader decodes sigma values from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n raw bytes. The result is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadRest returns a copy of all unread bytes and advances to the end.
func (r *Reader) ReadRest() []byte {
	out, _ := r.ReadBytes(r.Remaining())
	return out
}

// ReadUvarint reads an unsigned VLQ number.
func (r *Reader) ReadUvarint() (uint64, error) {
	var (
		v     uint64
		shift uint
	)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, ErrVLQOverflow
		}
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift > 63 {
			return 0, ErrVLQOverflow
		}
	}
}

// ReadUint32 reads an unsigned VLQ number that must fit in 32 bits.
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > 0xffffffff {
		return 0, fmt.Errorf("%w: %d exceeds uint32", ErrValueRange, v)
	}
	return uint32(v), nil
}

// ReadInt32 reads a zigzag encoded 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	u, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int32(u>>1) ^ -int32(u&1), nil
}

// ReadInt64 reads a zigzag encoded 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

var _ io.ByteReader = (*Reader)(nil)
