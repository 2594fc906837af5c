package types

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}

	if d := Distance(a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", d)
	}
	if d := Distance(a, a); d != 0 {
		t.Errorf("Expected zero distance to self, got %f", d)
	}
}

func TestVectorOps(t *testing.T) {
	v := Vec3{X: 1, Y: -2, Z: 0.5}

	sum := v.Add(Vec3{X: 1, Y: 1, Z: 1})
	if sum != (Vec3{X: 2, Y: -1, Z: 1.5}) {
		t.Errorf("Unexpected sum %+v", sum)
	}
	if scaled := v.Scale(2); scaled != (Vec3{X: 2, Y: -4, Z: 1}) {
		t.Errorf("Unexpected scaled vector %+v", scaled)
	}
}
