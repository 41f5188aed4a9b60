package dynamo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testBody(x, radius float64) Body {
	return NewBody(mgl64.Vec3{}, mgl64.Vec3{x, 0, 0}, mgl64.Vec3{1, 1, 1}, radius, 1, false)
}

func TestRegistryAppendIsValueCopy(t *testing.T) {
	template := testBody(1, 0.5)
	r := NewRegistry(testBody(0, 3))

	first := r.Append(template)
	second := r.Append(template)

	r.At(first).Position = mgl64.Vec3{9, 9, 9}

	if r.At(second).Position == r.At(first).Position {
		t.Error("appended copies share state")
	}
	if template.Position != (mgl64.Vec3{1, 0, 0}) {
		t.Error("template mutated through registry handle")
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 bodies, got %d", r.Len())
	}
}

func TestRegistryCompact(t *testing.T) {
	r := NewRegistry(testBody(0, 3), testBody(1, 0.5), testBody(2, 0.5), testBody(3, 0.5))
	r.At(2).Radius = 0

	removed := r.Compact()

	if removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 bodies, got %d", r.Len())
	}
	if r.At(1).Position.X() != 1 || r.At(2).Position.X() != 3 {
		t.Errorf("order not preserved: %v, %v", r.At(1).Position, r.At(2).Position)
	}
}

func TestRegistryCompactKeepsSink(t *testing.T) {
	r := NewRegistry(testBody(0, 0))
	if removed := r.Compact(); removed != 0 {
		t.Errorf("sink slot removed")
	}
}

func TestRegistryViewsAreCopies(t *testing.T) {
	r := NewRegistry(testBody(0, 3), testBody(1, 0.5))
	views := r.Views()
	views[1].Position = mgl64.Vec3{7, 7, 7}

	if r.At(1).Position.X() != 1 {
		t.Error("view mutation leaked into registry")
	}
	if len(views) != 2 {
		t.Errorf("expected 2 views, got %d", len(views))
	}
}

func TestRegistryMomentum(t *testing.T) {
	a := Body{Velocity: mgl64.Vec3{1, 0, 0}, Mass: 2}
	b := Body{Velocity: mgl64.Vec3{0, -3, 0}, Mass: 1}
	r := NewRegistry(a, b)

	if got := r.Momentum(); got != 5 {
		t.Errorf("Momentum() = %v, want 5", got)
	}
}
