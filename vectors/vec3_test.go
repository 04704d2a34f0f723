package vectors

import (
	"math"
	"testing"
)

func TestRotationY_MatchesRightHandedConvention(t *testing.T) {
	// +X rotated a quarter turn about +Y lands on -Z.
	got := RotationY(math.Pi / 2).Apply(New(1, 0, 0))
	if !got.ApproxEqual(New(0, 0, -1), 1e-12) {
		t.Fatalf("RotationY(pi/2)*X = %+v, want (0,0,-1)", got)
	}
}

func TestRotationX_QuarterTurnMapsZToMinusY(t *testing.T) {
	got := RotationX(math.Pi / 2).Apply(New(0, 0, 1))
	if !got.ApproxEqual(New(0, -1, 0), 1e-12) {
		t.Fatalf("RotationX(pi/2)*Z = %+v, want (0,-1,0)", got)
	}
}

func TestTransposeInvertsRotation(t *testing.T) {
	r := Euler(New(0.3, -1.2, 2.5))
	v := New(1.5, -2, 0.25)

	back := r.Transpose().Apply(r.Apply(v))
	if !back.ApproxEqual(v, 1e-12) {
		t.Fatalf("transpose did not invert rotation: got %+v, want %+v", back, v)
	}
	if math.Abs(r.Apply(v).Norm()-v.Norm()) > 1e-12 {
		t.Fatalf("rotation changed vector length")
	}
}

func TestNormalize_Zero(t *testing.T) {
	if got := Zero().Normalize(); got != (Vec3{}) {
		t.Fatalf("Normalize(0) = %+v, want zero", got)
	}
}

func TestCrossAndLerp(t *testing.T) {
	x, y := New(1, 0, 0), New(0, 1, 0)
	if got := x.Cross(y); got != New(0, 0, 1) {
		t.Errorf("X x Y = %+v, want Z", got)
	}
	if got := x.Lerp(y, 0.5); !got.ApproxEqual(New(0.5, 0.5, 0), 1e-12) {
		t.Errorf("Lerp = %+v", got)
	}
	if d := Distance(x, y); math.Abs(d-math.Sqrt2) > 1e-12 {
		t.Errorf("Distance = %v", d)
	}
}

func TestEuler_AppliesZThenYThenX(t *testing.T) {
	// Ry takes +X to -Z, then Rx takes -Z to +Y.
	got := Euler(New(math.Pi/2, math.Pi/2, 0)).Apply(New(1, 0, 0))
	if !got.ApproxEqual(New(0, 1, 0), 1e-12) {
		t.Fatalf("Euler(pi/2, pi/2, 0)*X = %+v, want (0,1,0)", got)
	}
}

func TestMat3_At(t *testing.T) {
	if Identity().At(1, 1) != 1 || Identity().At(0, 1) != 0 {
		t.Fatal("identity elements wrong")
	}
	if v := RotationZ(math.Pi / 2).At(0, 1); math.Abs(v+1) > 1e-12 {
		t.Fatalf("Rz(pi/2)[0][1] = %v, want -1", v)
	}
}
