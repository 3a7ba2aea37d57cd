// Package ac defines the interfaces the arithmetic coding algorithm requires.
// See its subpackages for particular finite precision realizations of the algorithm.
package ac

import (
	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

// ErrRangeCollapse is returned when the split point requested by a model does not fit strictly inside the coder's interval.
// It is unrecoverable: the bits coded after it cannot be uniquely decoded.
var ErrRangeCollapse = errors.New("range collapse")

// IsRangeCollapse reports whether err was caused by a range collapse.
func IsRangeCollapse(err error) bool {
	return errors.Cause(err) == ErrRangeCollapse
}

// A Model is a counting model on a sequence of binary data,
// as expected by the arithmetic coding algorithm.
type Model interface {
	// Counts returns the evidence that the next bit will be zero (n0) and one (n1).
	// The probability of zero is n0/(n0+n1).
	Counts() (n0, n1 uint32)

	// Observe informs the Model that a bit is observed from the sequence.
	Observe(bit int)
}

// An Encoder codes bits one at a time given the counts of a Model.
type Encoder interface {
	Encode(bit int, n0, n1 uint32) error

	// Flush terminates the coded stream. It is called once after the last bit.
	Flush() error
}

// A Decoder recovers the bits coded by the matching Encoder, given the same counts.
type Decoder interface {
	Decode(n0, n1 uint32) (int, error)
}

// Encode performs arithmetic coding on the bits of src given a binary counting model, then flushes e.
// Each bit is coded with the counts the model gave before observing it.
func Encode(e Encoder, src *bitbuf.Bits, model Model) error {
	r := src.NewReader()
	for i := 0; i < src.Len(); i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return errors.Wrapf(err, "read bit %d", i)
		}
		n0, n1 := model.Counts()
		if err := e.Encode(bit, n0, n1); err != nil {
			return errors.Wrapf(err, "bit %d", i)
		}
		model.Observe(bit)
	}
	if err := e.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// Decode decodes originalSize bits with d, handing each one to check together with its index.
// The model observes a bit only after check accepts it.
// A non-nil error from check stops decoding and is returned as is.
// Decode expects that model starts in the exact same state as the model used in Encode.
func Decode(d Decoder, model Model, originalSize int, check func(i, bit int) error) error {
	for i := 0; i < originalSize; i++ {
		n0, n1 := model.Counts()
		bit, err := d.Decode(n0, n1)
		if err != nil {
			return errors.Wrapf(err, "bit %d", i)
		}
		if err := check(i, bit); err != nil {
			return err
		}
		model.Observe(bit)
	}
	return nil
}
