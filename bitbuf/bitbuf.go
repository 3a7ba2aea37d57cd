// Package bitbuf adapts the bit-level Reader and Writer of github.com/icza/bitio to the coders.
// Bits are packed into and unpacked from bytes most significant bit first,
// and the final byte is padded with zero bits.
package bitbuf

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// Bits is a packed sequence of bits of known length.
type Bits struct {
	buf []byte
	n   int
}

// FromBytes returns the bits of p, most significant bit of each byte first.
func FromBytes(p []byte) *Bits {
	buf := make([]byte, len(p))
	copy(buf, p)
	return &Bits{buf: buf, n: 8 * len(p)}
}

// Len returns the number of bits in b, excluding padding.
func (b *Bits) Len() int {
	return b.n
}

// Bytes returns the packed bytes of b. The unused low bits of the final byte are zero.
func (b *Bits) Bytes() []byte {
	p := make([]byte, len(b.buf))
	copy(p, b.buf)
	return p
}

// Flip inverts the i-th bit of b. It panics if i is out of range.
func (b *Bits) Flip(i int) {
	if i < 0 || i >= b.n {
		panic("bitbuf: index out of range")
	}
	b.buf[i/8] ^= 0x80 >> uint(i%8)
}

// NewReader returns a Reader positioned at the first bit of b.
func (b *Bits) NewReader() *Reader {
	return &Reader{r: bitio.NewReader(bytes.NewReader(b.buf)), left: b.n}
}

// A Reader consumes a Bits from the front.
type Reader struct {
	r    *bitio.Reader
	left int
}

// ReadBit returns the next bit, or 0 once the bits are exhausted.
func (r *Reader) ReadBit() (int, error) {
	if r.left <= 0 {
		return 0, nil
	}
	one, err := r.r.ReadBool()
	if err == io.EOF {
		r.left = 0
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	r.left--
	if one {
		return 1, nil
	}
	return 0, nil
}

// A Writer accumulates bits in memory and counts them.
type Writer struct {
	buf *bytes.Buffer
	w   *bitio.Writer
	n   int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	buf := bytes.NewBuffer(nil)
	return &Writer{buf: buf, w: bitio.NewWriter(buf)}
}

// WriteBit appends bit. Any non-zero bit is written as one.
func (w *Writer) WriteBit(bit int) error {
	if err := w.w.WriteBool(bit != 0); err != nil {
		return errors.Wrap(err, "")
	}
	w.n++
	return nil
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.n
}

// Close pads the last byte with zeros and returns the bits written.
// The Writer must not be used afterwards.
func (w *Writer) Close() (*Bits, error) {
	if err := w.w.Close(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &Bits{buf: w.buf.Bytes(), n: w.n}, nil
}
