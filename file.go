package cm

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

// A Report summarizes the compression and verification of one input.
type Report struct {
	OriginalBytes   int
	OriginalBits    int
	CompressedBits  int
	CompressedBytes int

	// Ratio is the compressed size as a percentage of the original size.
	Ratio float64
	// BitsPerByte is the number of compressed bits per original byte.
	BitsPerByte float64

	TableSizes []int

	Verified bool
	Mismatch *MismatchError
}

func newReport(original, compressed *bitbuf.Bits, packed []byte, sizes []int) *Report {
	r := &Report{
		OriginalBytes:   original.Len() / 8,
		OriginalBits:    original.Len(),
		CompressedBits:  compressed.Len(),
		CompressedBytes: len(packed),
		TableSizes:      sizes,
	}
	if r.OriginalBits > 0 {
		r.Ratio = float64(r.CompressedBits) * 100 / float64(r.OriginalBits)
		r.BitsPerByte = float64(r.CompressedBits) / float64(r.OriginalBytes)
	}
	return r
}

// WriteTo prints the human readable summary of r to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "orig size: %d\n", r.OriginalBytes)
	fmt.Fprintf(buf, "comp size: %d\n", r.CompressedBytes)
	fmt.Fprintf(buf, "ratio: %.3f%%\n", r.Ratio)
	fmt.Fprintf(buf, "%.3f bpc\n", r.BitsPerByte)
	if r.Verified {
		fmt.Fprintf(buf, "ok\n")
	} else {
		if r.Mismatch != nil {
			fmt.Fprintf(buf, "%v\n", r.Mismatch)
		}
		fmt.Fprintf(buf, "check failed\n")
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), errors.Wrap(err, "")
}

// CompressFile compresses the file name, writes the compressed bytes to dst,
// and then verifies that the written bytes decode back to the file.
// A failed verification is recorded in the returned Report and is not an error.
func CompressFile(dst io.Writer, name string, cfg Config) (*Report, error) {
	contents, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return CompressBytes(dst, contents, cfg)
}

// CompressBytes is like CompressFile but reads its input from contents.
func CompressBytes(dst io.Writer, contents []byte, cfg Config) (*Report, error) {
	original := bitbuf.FromBytes(contents)
	compressed, sizes, err := Compress(original, cfg)
	if err != nil {
		return nil, err
	}
	packed := compressed.Bytes()
	if _, err := dst.Write(packed); err != nil {
		return nil, errors.Wrap(err, "")
	}

	r := newReport(original, compressed, packed, sizes)
	err = Verify(original, bitbuf.FromBytes(packed), cfg)
	switch e := errors.Cause(err).(type) {
	case nil:
		r.Verified = true
	case *MismatchError:
		r.Mismatch = e
	default:
		return r, err
	}
	return r, nil
}
