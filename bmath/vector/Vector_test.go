package vector_test

import (
	"math"
	"testing"

	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/vector"
)

func TestVectorCreation(t *testing.T) {
	v := vector.Create(1, 2)
	if v.X != 1 || v.Y != 2 {
		t.Error("Creation failed")
	}

	v = vector.FromPolar(2, math.Pi/6)
	if math.Abs(v.X-math.Sqrt(3)) > 1e-12 || math.Abs(v.Y-1) > 1e-12 {
		t.Errorf("FromPolar failed: %s", v)
	}
}

func TestUnary(t *testing.T) {
	v1 := vector.Create(3, 4)
	if v1.Magnitude() != 5 {
		t.Error("Magnitude failed")
	}

	v2 := v1.Negate()
	if v2.X != -3 || v2.Y != -4 {
		t.Error("Negate failed")
	}

	v2 = v1.Normalize()
	if math.Abs(v2.X-0.6) > 1e-12 || math.Abs(v2.Y-0.8) > 1e-12 {
		t.Error("Normalize failed")
	}

	v1 = vector.Create(0, 0)
	v2 = v1.Normalize()
	if v2.X != 0 || v2.Y != 0 {
		t.Error("Normalize failed")
	}

	if a := vector.Create(1, -1).Angle(); math.Abs(a+math.Pi/4) > 1e-12 {
		t.Errorf("Angle failed: %f", a)
	}

	if !vector.Create(1, 2).IsFinite() || vector.Create(math.NaN(), 0).IsFinite() || vector.Create(0, math.Inf(1)).IsFinite() {
		t.Error("IsFinite failed")
	}
}

func TestBinary(t *testing.T) {
	v1 := vector.Create(1, 2)
	v2 := v1.Add(v1)
	if v2.X != 2 || v2.Y != 4 {
		t.Error("Add failed")
	}

	v2 = v1.Subtract(v2)
	if v2.X != -1 || v2.Y != -2 {
		t.Error("Subtract failed")
	}

	if v1.MultiplyByVector(vector.Create(3, 4)) != (3 + 8) {
		t.Error("MultiplyByVector failed")
	}

	v2 = v1.MultiplyByConst(3)
	if v2.X != 3 || v2.Y != 6 {
		t.Error("MultiplyByConst failed")
	}

	v2 = vector.Lerp(vector.Create(0, 10), vector.Create(4, -10), 0.25)
	if v2.X != 1 || v2.Y != 5 {
		t.Errorf("Lerp failed: %s", v2)
	}
}
