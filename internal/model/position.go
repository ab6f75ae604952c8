package model

// Position is a scrollbar-style value in [0,1] where 1.0 is the start of the
// collection and 0.0 its end. Subscribers are notified only on change.
type Position struct {
	value   float64
	subs    []positionSub
	nextSub int
}

type positionSub struct {
	id int
	fn func(float64)
}

// NewPosition creates a position at the given value (clamped)
func NewPosition(v float64) *Position {
	return &Position{value: clamp01(v)}
}

// Get returns the current value
func (p *Position) Get() float64 {
	return p.value
}

// Set clamps v to [0,1] and notifies subscribers if the value changed
func (p *Position) Set(v float64) {
	v = clamp01(v)
	if v == p.value {
		return
	}
	p.value = v

	// Copy so handlers may subscribe or unsubscribe while being notified
	subs := make([]positionSub, len(p.subs))
	copy(subs, p.subs)
	for _, s := range subs {
		s.fn(v)
	}
}

// Subscribe registers fn for value changes and returns a function that removes it
func (p *Position) Subscribe(fn func(float64)) (unsubscribe func()) {
	p.nextSub++
	id := p.nextSub
	p.subs = append(p.subs, positionSub{id: id, fn: fn})
	return func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
