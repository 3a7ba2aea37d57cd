// Package cm provides a context mixing model for binary data, in the lineage of the PAQ family of compressors.
// Several context models of increasing order each count the bits that followed their current context,
// and a Mixer blends their counts into a single prediction for a binary arithmetic coder,
// by default the carry-free coder of package ac/paq.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address and check the result:
//
//	go run compress/main.go testdata/gettysburg.txt gettys.cm
//
// The compressed stream stores no header and no length.
// It can only be checked against the original within the same run, which is what Verify does.
//
// Reference:
// Matt Mahoney, The PAQ1 Data Compression Program, 2002.
package cm

import (
	"fmt"

	"github.com/fumin/cm/ac"
	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

// A Logger receives progress messages. The log.Logger type supports this interface.
type Logger interface {
	Output(calldepth int, s string) error
}

func logf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Config configures compression and verification.
// Both passes must use the same Config to replay the same model trajectory.
type Config struct {
	// Orders is the number of context models, of orders 0 through Orders-1.
	Orders int

	// Coder selects the arithmetic coder.
	Coder Coder

	// Logger, if not nil, receives a summary of each pass.
	Logger Logger
}

// DefaultConfig returns eight orders coded with the PAQ coder.
func DefaultConfig() Config {
	return Config{Orders: MaxOrders, Coder: PAQ}
}

// Validate checks that c describes a usable model.
func (c Config) Validate() error {
	if c.Orders < 1 || c.Orders > MaxOrders {
		return errors.Errorf("orders %d not in [1, %d]", c.Orders, MaxOrders)
	}
	return c.Coder.validate()
}

// Compress codes src and returns the compressed bits, flushed, together with the final table size of each order.
// A range collapse aborts compression and is returned as an error.
func Compress(src *bitbuf.Bits, cfg Config) (*bitbuf.Bits, []int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	model, err := NewMixer(cfg.Orders)
	if err != nil {
		return nil, nil, errors.Wrap(err, "")
	}

	w := bitbuf.NewWriter()
	if err := ac.Encode(cfg.Coder.newEncoder(w), src, model); err != nil {
		return nil, nil, errors.Wrap(err, "compress")
	}
	dst, err := w.Close()
	if err != nil {
		return nil, nil, err
	}
	sizes := model.TableSizes()
	logf(cfg.Logger, "compressed %d bits into %d bits, contexts %v", src.Len(), dst.Len(), sizes)
	return dst, sizes, nil
}

// A MismatchError reports the first bit whose decoding differs from the original.
type MismatchError struct {
	Index int
	Want  int
	Got   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("decompression error at %d-th bit: %d was expected instead of %d", e.Index, e.Want, e.Got)
}

// Verify decodes compressed with freshly created models and checks each bit against original.
// It stops at the first differing bit and returns a *MismatchError describing it.
// Other errors, in particular range collapses, indicate a fault of the coder itself.
func Verify(original, compressed *bitbuf.Bits, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	model, err := NewMixer(cfg.Orders)
	if err != nil {
		return errors.Wrap(err, "")
	}

	d, err := cfg.Coder.newDecoder(compressed.NewReader())
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	want := original.NewReader()
	check := func(i, bit int) error {
		w, err := want.ReadBit()
		if err != nil {
			return errors.Wrapf(err, "original bit %d", i)
		}
		if bit != w {
			logf(cfg.Logger, "verification failed at bit %d of %d", i, original.Len())
			return &MismatchError{Index: i, Want: w, Got: bit}
		}
		return nil
	}
	if err := ac.Decode(d, model, original.Len(), check); err != nil {
		if _, ok := err.(*MismatchError); ok {
			return err
		}
		return errors.Wrap(err, "verify")
	}
	logf(cfg.Logger, "verified %d bits, contexts %v", original.Len(), model.TableSizes())
	return nil
}
