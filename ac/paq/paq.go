// Package paq implements the carry-free binary arithmetic coder of the early PAQ compressors.
// See Matt Mahoney, "The PAQ1 Data Compression Program", 2002.
//
// The coder keeps a closed interval [lo, hi] of 32 bit values.
// Each bit splits the interval in proportion to the counts given by the model,
// and leading bits on which lo and hi agree are shifted out immediately,
// so no carry ever propagates into bits that were already emitted.
package paq

import (
	"math"

	"github.com/fumin/cm/ac"
	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

const (
	codeValueBits = 32
	topValue      = (uint64(1) << codeValueBits) - 1
	msb           = uint32(1) << (codeValueBits - 1)
)

// split returns the first value of the upper subinterval, the one assigned to a one bit.
// The zero bit gets [lo, med-1] and the one bit gets [med, hi].
func split(lo, hi, n0, n1 uint32) (uint32, error) {
	n := uint64(n0) + uint64(n1)
	if n == 0 {
		return 0, errors.Wrapf(ac.ErrRangeCollapse, "empty counts lo=%#08x hi=%#08x", lo, hi)
	}
	p := float64(n0) / float64(n)
	med := uint64(math.Floor(float64(lo)+p*float64(hi-lo))) + 1
	if med <= uint64(lo) || med > uint64(hi) {
		return 0, errors.Wrapf(ac.ErrRangeCollapse, "lo=%#08x med=%#x hi=%#08x n0=%d n1=%d", lo, med, hi, n0, n1)
	}
	return uint32(med), nil
}

// An Encoder carries the state required by an encoder.
type Encoder struct {
	lo  uint32
	hi  uint32
	dst *bitbuf.Writer
}

// NewEncoder returns an Encoder that writes its output to dst.
func NewEncoder(dst *bitbuf.Writer) *Encoder {
	return &Encoder{hi: uint32(topValue), dst: dst}
}

// Encode codes bit given the counts n0 and n1 of zeros and ones.
// An error wrapping ac.ErrRangeCollapse is returned if the counts do not split the current interval,
// in which case the encoder state is left as it was.
func (e *Encoder) Encode(bit int, n0, n1 uint32) error {
	med, err := split(e.lo, e.hi, n0, n1)
	if err != nil {
		return err
	}

	// narrow range
	if bit == 0 {
		e.hi = med - 1
	} else {
		e.lo = med
	}

	for (e.lo & msb) == (e.hi & msb) {
		if err := e.dst.WriteBit(int(e.lo >> (codeValueBits - 1))); err != nil {
			return err
		}
		e.lo = e.lo << 1
		e.hi = e.hi<<1 | 1
	}
	return nil
}

// Flush is called once at the end of the stream.
// It drains the significant bits of lo so that a decoder reading zeros past the end lands on lo.
func (e *Encoder) Flush() error {
	for e.lo > 0 {
		if err := e.dst.WriteBit(int(e.lo >> (codeValueBits - 1))); err != nil {
			return err
		}
		e.lo = e.lo << 1
	}
	return nil
}

// A Decoder carries the state required by a decoder.
type Decoder struct {
	lo  uint32
	hi  uint32
	y   uint32
	src *bitbuf.Reader
}

// NewDecoder returns a Decoder reading from src.
// The first 32 bits of src are consumed immediately, missing bits being read as zeros.
func NewDecoder(src *bitbuf.Reader) (*Decoder, error) {
	d := &Decoder{hi: uint32(topValue), src: src}
	for i := 0; i < codeValueBits; i++ {
		bit, err := src.ReadBit()
		if err != nil {
			return nil, err
		}
		d.y = d.y<<1 | uint32(bit)
	}
	return d, nil
}

// Decode returns the next bit given the same counts the encoder used for it.
func (d *Decoder) Decode(n0, n1 uint32) (int, error) {
	med, err := split(d.lo, d.hi, n0, n1)
	if err != nil {
		return 0, err
	}

	bit := 1
	if d.y < med {
		bit = 0
		d.hi = med - 1
	} else {
		d.lo = med
	}

	for (d.lo & msb) == (d.hi & msb) {
		d.lo = d.lo << 1
		d.hi = d.hi<<1 | 1
		next, err := d.src.ReadBit()
		if err != nil {
			return 0, err
		}
		d.y = d.y<<1 | uint32(next)
	}
	return bit, nil
}
