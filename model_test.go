package cm

import (
	"testing"
)

func updateByte(m *ContextModel, b byte) {
	for i := 7; i >= 0; i-- {
		m.Predict()
		m.Update(int(b>>uint(i)) & 1)
	}
}

func TestCounterObserve(t *testing.T) {
	tests := []struct {
		before Counter
		bit    int
		after  Counter
	}{
		{before: Counter{0, 0}, bit: 1, after: Counter{0, 1}},
		{before: Counter{0, 0}, bit: 0, after: Counter{1, 0}},
		{before: Counter{5, 0}, bit: 1, after: Counter{3, 1}},
		{before: Counter{1, 7}, bit: 0, after: Counter{2, 4}},
		{before: Counter{1, 1}, bit: 1, after: Counter{1, 2}},
		{before: Counter{255, 255}, bit: 0, after: Counter{255, 128}},
		{before: Counter{2, 255}, bit: 1, after: Counter{2, 255}},
	}
	for _, tc := range tests {
		c := tc.before
		c.observe(tc.bit)
		if c != tc.after {
			t.Errorf("%+v observe %d: %+v != %+v", tc.before, tc.bit, c, tc.after)
		}
	}
}

// TestSentinel checks that partial bytes of different lengths map to different contexts.
func TestSentinel(t *testing.T) {
	for _, order := range []int{0, 2} {
		m := NewContextModel(order)
		keys := map[uint64]bool{m.Key(): true}
		for i := 0; i < 7; i++ {
			m.Predict()
			m.Update(0)
			if keys[m.Key()] {
				t.Fatalf("order %d: %d zero bits share key %#x", order, i+1, m.Key())
			}
			keys[m.Key()] = true
		}
		m.Predict()
		if m.Len() != 8 {
			t.Errorf("order %d: %d", order, m.Len())
		}
	}

	m := NewContextModel(0)
	m.Update(0)
	zero := m.Key()
	m.Update(0)
	if zero == m.Key() {
		t.Errorf("%#x", zero)
	}
	if zero != 0x2 || m.Key() != 0x4 {
		t.Errorf("%#x %#x", zero, m.Key())
	}
}

func TestWindow(t *testing.T) {
	m := NewContextModel(1)
	if m.Key() != 0x1 {
		t.Fatalf("%#x", m.Key())
	}
	updateByte(m, 0xA5)
	if m.Key() != 0xA501 {
		t.Fatalf("%#x", m.Key())
	}
	updateByte(m, 0x3C)
	if m.Key() != 0x3C01 {
		t.Fatalf("%#x", m.Key())
	}

	m = NewContextModel(2)
	updateByte(m, 0xA5)
	updateByte(m, 0x3C)
	m.Update(1)
	if m.Key() != 0xA53C03 {
		t.Fatalf("%#x", m.Key())
	}
}

func TestHighestOrderKey(t *testing.T) {
	m := NewContextModel(MaxOrders - 1)
	for b := byte(0); b <= 7; b++ {
		updateByte(m, b)
	}
	m.Update(1)
	var want uint64 = 0x0102030405060703
	if m.Key() != want {
		t.Errorf("%#x != %#x", m.Key(), want)
	}
}

func TestCounterBound(t *testing.T) {
	m := NewContextModel(0)
	for i := 0; i < 400; i++ {
		updateByte(m, 0xFF)
	}
	for key, c := range m.table {
		if c.N1 != counterMax || c.N0 != 0 {
			t.Errorf("%#x: %+v", key, c)
		}
	}

	m.Update(0)
	if c := m.table[0x1]; c != (Counter{N0: 1, N1: 128}) {
		t.Errorf("%+v", c)
	}
}

func TestPredictStoresNewContext(t *testing.T) {
	m := NewContextModel(3)
	if m.Len() != 0 {
		t.Fatalf("%d", m.Len())
	}
	if c := m.Predict(); c != (Counter{}) {
		t.Fatalf("%+v", c)
	}
	if m.Len() != 1 {
		t.Fatalf("%d", m.Len())
	}
	m.Predict()
	if m.Len() != 1 {
		t.Fatalf("%d", m.Len())
	}
	m.Update(1)
	if c := m.table[0x1]; c != (Counter{N1: 1}) {
		t.Errorf("%+v", c)
	}
}

func TestNewContextModelOrderRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("no panic")
		}
	}()
	NewContextModel(MaxOrders)
}
