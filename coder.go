package cm

import (
	"github.com/fumin/cm/ac"
	"github.com/fumin/cm/ac/paq"
	"github.com/fumin/cm/ac/witten"
	"github.com/fumin/cm/bitbuf"
	"github.com/pkg/errors"
)

// A Coder names a binary arithmetic coder. The empty Coder is PAQ.
type Coder string

const (
	// PAQ is the carry-free coder of package ac/paq.
	PAQ Coder = "paq"
	// Witten is the coder of package ac/witten, which handles underflow and terminates unambiguously.
	Witten Coder = "witten"
)

func (c Coder) validate() error {
	switch c {
	case "", PAQ, Witten:
		return nil
	}
	return errors.Errorf("unknown coder %q", string(c))
}

func (c Coder) newEncoder(dst *bitbuf.Writer) ac.Encoder {
	if c == Witten {
		return witten.NewEncoder(dst)
	}
	return paq.NewEncoder(dst)
}

func (c Coder) newDecoder(src *bitbuf.Reader) (ac.Decoder, error) {
	if c == Witten {
		d, err := witten.NewDecoder(src)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := paq.NewDecoder(src)
	if err != nil {
		return nil, err
	}
	return d, nil
}
