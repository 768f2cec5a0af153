package swpriv

import (
	"bytes"
	"encoding/binary"
	"math/big"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
	"github.com/F483/heartbeat/lib/crypto/field"
)

// Wire framing: u32 big-endian length prefixes followed by payload, no
// magic numbers, no version bytes. Big integers travel in their
// minimum-byte big-endian form.

type frameWriter struct {
	buf bytes.Buffer
}

func (w *frameWriter) putU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// putBytes writes a length-prefixed byte field.
func (w *frameWriter) putBytes(b []byte) {
	w.putU32(uint32(len(b)))
	w.buf.Write(b)
}

func (w *frameWriter) putRaw(b []byte) {
	w.buf.Write(b)
}

// putInt writes a length-prefixed minimum-byte integer. Zero encodes as
// a zero length and no payload.
func (w *frameWriter) putInt(x *big.Int) {
	sz := field.MinEncodedSize(x)
	w.putU32(uint32(sz))
	w.buf.Write(field.Encode(x, sz))
}

func (w *frameWriter) bytes() []byte {
	return w.buf.Bytes()
}

type frameReader struct {
	buf []byte
	off int
}

func newFrameReader(buf []byte) *frameReader {
	return &frameReader{buf: buf}
}

func (r *frameReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *frameReader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, hlacommon.ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *frameReader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, hlacommon.ErrTruncated
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+n])
	r.off += n
	return b, nil
}

// bytesField reads a length-prefixed byte field.
func (r *frameReader) bytesField() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

// intField reads a length-prefixed minimum-byte integer.
func (r *frameReader) intField() (*big.Int, error) {
	b, err := r.bytesField()
	if err != nil {
		return nil, err
	}
	return field.Decode(b), nil
}
