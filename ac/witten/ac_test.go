package witten

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/fumin/cm/ac"
	"github.com/fumin/cm/bitbuf"
)

func TestEncodeConstModel(t *testing.T) {
	model := func(n0, n1 uint32) func() ac.Model {
		return func() ac.Model {
			return &ConstModel{N0: n0, N1: n1}
		}
	}

	testEncode(t, model(3, 1))
	testEncode(t, model(1, 1))

	// Test the case where the probability of zero is less than 0.5.
	testEncode(t, model(1, 3))

	// Test that deferred bits around the middle of the interval are emitted correctly.
	testEncode(t, model(1, 1<<20))
	testEncode(t, model(1<<20, 1))
}

func TestEncodeAdaptiveModel(t *testing.T) {
	testEncode(t, func() ac.Model { return &CountModel{} })
}

func testEncode(t *testing.T, model func() ac.Model) {
	// Prepare data
	contents, err := ioutil.ReadFile("../../testdata/gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	x := bitbuf.FromBytes(contents)

	// Encode
	w := bitbuf.NewWriter()
	if err := ac.Encode(NewEncoder(w), x, model()); err != nil {
		t.Fatalf("%+v", err)
	}
	encoded, err := w.Close()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	t.Logf("encoded bits: %d, original bits: %d", encoded.Len(), x.Len())

	// Decode from the packed bytes, whose zero padding must not matter.
	packed := bitbuf.FromBytes(encoded.Bytes())
	d, err := NewDecoder(packed.NewReader())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	var decoded []byte
	var cur byte
	err = ac.Decode(d, model(), x.Len(), func(i, bit int) error {
		cur = cur<<1 | byte(bit)
		if i%8 == 7 {
			decoded = append(decoded, cur)
			cur = 0
		}
		return nil
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// Check that the decoded result is correct.
	if !bytes.Equal(decoded, contents) {
		t.Fatalf("%q != %q", decoded, contents)
	}
}

func TestFlushEmpty(t *testing.T) {
	w := bitbuf.NewWriter()
	if err := NewEncoder(w).Flush(); err != nil {
		t.Fatalf("%+v", err)
	}
	dst, err := w.Close()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if dst.Len() != 2 || !bytes.Equal(dst.Bytes(), []byte{0x40}) {
		t.Errorf("%x %d", dst.Bytes(), dst.Len())
	}
}

func TestRangeCollapse(t *testing.T) {
	e := NewEncoder(bitbuf.NewWriter())
	if err := e.Encode(1, 0, 0); !ac.IsRangeCollapse(err) {
		t.Errorf("%v", err)
	}
	if err := e.Encode(1, 7, 0); !ac.IsRangeCollapse(err) {
		t.Errorf("%v", err)
	}
	d, err := NewDecoder(bitbuf.FromBytes(nil).NewReader())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := d.Decode(0, 9); !ac.IsRangeCollapse(err) {
		t.Errorf("%v", err)
	}
}

type ConstModel struct {
	N0, N1 uint32
}

func (m *ConstModel) Counts() (uint32, uint32) {
	return m.N0, m.N1
}

func (m *ConstModel) Observe(b int) {}

// CountModel is an order zero frequency counter.
type CountModel struct {
	n [2]uint32
}

func (m *CountModel) Counts() (uint32, uint32) {
	return m.n[0] + 1, m.n[1] + 1
}

func (m *CountModel) Observe(b int) {
	m.n[b]++
}
