package cm

// MaxOrders is the largest number of context models a Mixer can blend.
// The context of the highest order, seven complete bytes and a partial byte, fills a uint64 key.
const MaxOrders = 8

// counterMax bounds each count of a Counter.
const counterMax = 255

// A Counter holds the evidence for the next bit being zero (N0) or one (N1) in a context.
type Counter struct {
	N0 uint8
	N1 uint8
}

// observe updates the counter given the bit that followed its context.
// The count of bit grows by one up to counterMax, while the other count is roughly halved,
// favoring recent evidence over old.
func (c *Counter) observe(bit int) {
	a, b := &c.N0, &c.N1
	if bit != 0 {
		a, b = b, a
	}
	if *a < counterMax {
		*a++
	}
	if *b > 0 {
		*b = *b/2 + 1
	}
}

// A ContextModel predicts the next bit from the preceding order bytes and the bits so far of the current byte.
type ContextModel struct {
	order int

	// window holds the last order complete bytes, the most recent in the low byte.
	window uint64
	mask   uint64

	// partial holds the bits of the current byte below a leading sentinel one,
	// so that partial bytes of different lengths never share a value.
	partial uint8

	table map[uint64]Counter
}

// NewContextModel returns a ContextModel of the given order with an empty table.
// The preceding bytes of the initial context are zeros.
// It panics if order is not in [0, MaxOrders).
func NewContextModel(order int) *ContextModel {
	if order < 0 || order >= MaxOrders {
		panic("cm: context order out of range")
	}
	return &ContextModel{
		order:   order,
		mask:    uint64(1)<<(8*uint(order)) - 1,
		partial: 1,
		table:   make(map[uint64]Counter),
	}
}

// Order returns the number of complete bytes in the context.
func (m *ContextModel) Order() int {
	return m.order
}

// Key returns the current context.
func (m *ContextModel) Key() uint64 {
	return m.window<<8 | uint64(m.partial)
}

// Predict returns the counter of the current context, storing a fresh one if the context is new.
func (m *ContextModel) Predict() Counter {
	key := m.Key()
	c, ok := m.table[key]
	if !ok {
		m.table[key] = c
	}
	return c
}

// Update records that bit followed the current context, then appends bit to the context.
func (m *ContextModel) Update(bit int) {
	key := m.Key()
	c := m.table[key]
	c.observe(bit)
	m.table[key] = c

	p := uint(m.partial)<<1 | uint(bit&1)
	if p < 1<<8 {
		m.partial = uint8(p)
		return
	}
	m.window = (m.window<<8 | uint64(p&0xff)) & m.mask
	m.partial = 1
}

// Len returns the number of distinct contexts seen.
func (m *ContextModel) Len() int {
	return len(m.table)
}
