package cm

import (
	"github.com/pkg/errors"
)

// A Mixer blends the predictions of context models of orders 0 through n-1.
// Mixer implements the arithmetic coding Model interface.
type Mixer struct {
	models []*ContextModel
}

// NewMixer returns a Mixer over fresh context models of orders 0 through orders-1.
func NewMixer(orders int) (*Mixer, error) {
	if orders < 1 || orders > MaxOrders {
		return nil, errors.Errorf("orders %d not in [1, %d]", orders, MaxOrders)
	}
	mx := &Mixer{models: make([]*ContextModel, orders)}
	for i := range mx.models {
		mx.models[i] = NewContextModel(i)
	}
	return mx, nil
}

// Counts returns the weighted sum of all orders' counters on top of a uniform prior.
// The model of order i is weighted by (i+1)^2, trusting longer contexts more.
func (mx *Mixer) Counts() (uint32, uint32) {
	var n0, n1 uint32 = 1, 1
	for i, m := range mx.models {
		w := uint32((i + 1) * (i + 1))
		c := m.Predict()
		n0 += w * uint32(c.N0)
		n1 += w * uint32(c.N1)
	}
	return n0, n1
}

// Observe updates every order with bit.
func (mx *Mixer) Observe(bit int) {
	for _, m := range mx.models {
		m.Update(bit)
	}
}

// TableSizes returns the number of distinct contexts stored by each order.
func (mx *Mixer) TableSizes() []int {
	sizes := make([]int, len(mx.models))
	for i, m := range mx.models {
		sizes[i] = m.Len()
	}
	return sizes
}
