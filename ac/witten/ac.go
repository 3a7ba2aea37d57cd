// Package witten implements the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// Unlike the coder of package ac/paq, it defers the bits of an interval straddling the middle,
// keeping the interval wider than a quarter of the code space, and terminates the stream unambiguously.
package witten

import (
	"math/bits"

	"github.com/fumin/cm/ac"
	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

const (
	codeValueBits = 32
	topValue      = (uint64(1) << codeValueBits) - 1
	firstQtr      = topValue/4 + 1
	half          = 2 * firstQtr
	thirdQtr      = 3 * firstQtr
)

// split returns the first value of the subinterval assigned to a one bit.
func split(low, high uint64, n0, n1 uint32) (uint64, error) {
	n := uint64(n0) + uint64(n1)
	if n == 0 {
		return 0, errors.Wrapf(ac.ErrRangeCollapse, "empty counts low=%#08x high=%#08x", low, high)
	}
	arange := (high - low) + 1
	hi, lo := bits.Mul64(arange, uint64(n0))
	q, _ := bits.Div64(hi, lo, n)
	s := low + q
	if s <= low || s > high {
		return 0, errors.Wrapf(ac.ErrRangeCollapse, "low=%#08x split=%#x high=%#08x n0=%d n1=%d", low, s, high, n0, n1)
	}
	return s, nil
}

// An Encoder carries the state required by an encoder.
type Encoder struct {
	low   uint64
	high  uint64
	fbits uint64
	dst   *bitbuf.Writer
}

// NewEncoder returns an Encoder that writes its output to dst.
func NewEncoder(dst *bitbuf.Writer) *Encoder {
	return &Encoder{high: topValue, dst: dst}
}

func (e *Encoder) bitPlusFollow(bit int) error {
	if err := e.dst.WriteBit(bit); err != nil {
		return err
	}
	for e.fbits > 0 {
		if err := e.dst.WriteBit(1 - bit); err != nil {
			return err
		}
		e.fbits--
	}
	return nil
}

// Encode codes bit given the counts n0 and n1 of zeros and ones.
func (e *Encoder) Encode(bit int, n0, n1 uint32) error {
	s, err := split(e.low, e.high, n0, n1)
	if err != nil {
		return err
	}

	// narrow range
	if bit == 1 {
		e.low = s
	} else {
		e.high = s - 1
	}

	for {
		if e.high < half {
			if err := e.bitPlusFollow(0); err != nil {
				return err
			}
		} else if e.low >= half {
			if err := e.bitPlusFollow(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		} else if e.low >= firstQtr && e.high < thirdQtr {
			e.fbits++
			e.low -= firstQtr
			e.high -= firstQtr
		} else {
			break
		}

		e.low = 2 * e.low
		e.high = 2*e.high + 1
	}
	return nil
}

// Flush outputs two more bits, plus any deferred ones, selecting the quarter that lies inside the final interval.
func (e *Encoder) Flush() error {
	e.fbits++
	if e.low < firstQtr {
		return e.bitPlusFollow(0)
	}
	return e.bitPlusFollow(1)
}

// A Decoder carries the state required by a decoder.
type Decoder struct {
	low   uint64
	high  uint64
	value uint64
	src   *bitbuf.Reader
}

// NewDecoder returns a Decoder reading from src. Bits past the end of src are read as zeros.
func NewDecoder(src *bitbuf.Reader) (*Decoder, error) {
	d := &Decoder{high: topValue, src: src}
	for i := 1; i <= codeValueBits; i++ {
		bit, err := src.ReadBit()
		if err != nil {
			return nil, err
		}
		d.value = 2*d.value + uint64(bit)
	}
	return d, nil
}

// Decode returns the next bit given the same counts the encoder used for it.
func (d *Decoder) Decode(n0, n1 uint32) (int, error) {
	s, err := split(d.low, d.high, n0, n1)
	if err != nil {
		return 0, err
	}

	bit := 1
	if d.value < s {
		bit = 0
	}

	// narrow range
	if bit == 1 {
		d.low = s
	} else {
		d.high = s - 1
	}

	// rescale interval
	for {
		if d.high < half {
			// do nothing
		} else if d.low >= half {
			d.value -= half
			d.low -= half
			d.high -= half
		} else if d.low >= firstQtr && d.high < thirdQtr {
			d.value -= firstQtr
			d.low -= firstQtr
			d.high -= firstQtr
		} else {
			break
		}

		d.low = 2 * d.low
		d.high = 2*d.high + 1
		next, err := d.src.ReadBit()
		if err != nil {
			return 0, err
		}
		d.value = 2*d.value + uint64(next)
	}
	return bit, nil
}
