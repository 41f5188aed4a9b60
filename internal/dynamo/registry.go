package dynamo

// Registry is the ordered arena of bodies. Handles returned by At stay
// valid until the next Append or Compact.
type Registry struct {
	bodies []Body
}

func NewRegistry(bodies ...Body) *Registry {
	r := &Registry{bodies: make([]Body, len(bodies))}
	copy(r.bodies, bodies)
	return r
}

func (r *Registry) Len() int { return len(r.bodies) }

// At returns a handle to the body at index i for in-place updates.
func (r *Registry) At(i int) *Body { return &r.bodies[i] }

// Append inserts a value copy of b and returns its index.
func (r *Registry) Append(b Body) int {
	r.bodies = append(r.bodies, b)
	return len(r.bodies) - 1
}

// Compact drops every absorbed body except the sink slot and returns how
// many were removed. Surviving bodies keep their relative order.
func (r *Registry) Compact() int {
	kept := r.bodies[:0]
	removed := 0
	for i := range r.bodies {
		if i != SinkIndex && r.bodies[i].Absorbed() {
			removed++
			continue
		}
		kept = append(kept, r.bodies[i])
	}
	r.bodies = kept
	return removed
}

// Bodies returns a copy of every body.
func (r *Registry) Bodies() []Body {
	out := make([]Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// Views returns the render-facing projection of every body.
func (r *Registry) Views() []BodyView {
	out := make([]BodyView, len(r.bodies))
	for i := range r.bodies {
		out[i] = r.bodies[i].View()
	}
	return out
}

// AppendViews appends the projection of every body to dst.
func (r *Registry) AppendViews(dst []BodyView) []BodyView {
	for i := range r.bodies {
		dst = append(dst, r.bodies[i].View())
	}
	return dst
}

// Momentum returns the sum of m*|v| over all bodies.
func (r *Registry) Momentum() float64 {
	p := 0.0
	for i := range r.bodies {
		p += r.bodies[i].Momentum()
	}
	return p
}

// Reset replaces the arena contents with copies of bodies.
func (r *Registry) Reset(bodies []Body) {
	r.bodies = append(r.bodies[:0], bodies...)
}
