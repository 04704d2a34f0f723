package almanac

import (
	"math"
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("failed to parse time: %v", err)
	}
	return v
}

// angleDiff is the absolute difference of two angles, modulo 2π.
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	return math.Min(d, 2*math.Pi-d)
}

func TestOrbitAngle_Equinoxes(t *testing.T) {
	cases := []struct {
		name string
		when string
		want float64 // earth heliocentric longitude
	}{
		// March equinox: sun at 0°, earth at 180°
		{"march equinox", "2024-03-20T03:06:00Z", math.Pi},
		// June solstice: sun at 90°, earth at 270°
		{"june solstice", "2024-06-20T20:51:00Z", 3 * math.Pi / 2},
		// September equinox: sun at 180°, earth at 0°
		{"september equinox", "2024-09-22T12:44:00Z", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := OrbitAngle(mustParse(t, c.when))
			if d := angleDiff(got, c.want); d > 0.01 {
				t.Errorf("OrbitAngle = %v, want %v (diff %v)", got, c.want, d)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("OrbitAngle %v outside [0, 2pi)", got)
			}
		})
	}
}

func TestSpinAngle_AdvancesOneSiderealDay(t *testing.T) {
	start := mustParse(t, "2024-08-08T09:23:00Z")
	// a sidereal day is ~23h56m4s; the angle returns to where it started
	later := start.Add(23*time.Hour + 56*time.Minute + 4*time.Second)
	if d := angleDiff(SpinAngle(start), SpinAngle(later)); d > 1e-3 {
		t.Errorf("spin after one sidereal day differs by %v rad", d)
	}

	halfDay := start.Add(11*time.Hour + 58*time.Minute + 2*time.Second)
	if d := angleDiff(SpinAngle(start), SpinAngle(halfDay)); math.Abs(d-math.Pi) > 1e-3 {
		t.Errorf("spin after half a sidereal day differs by %v rad, want pi", d)
	}
}

func TestStateAt(t *testing.T) {
	when := mustParse(t, "2025-01-01T00:00:00Z")
	s, err := StateAt(when)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}
	if s.Time != OrbitAngle(when) || s.SelfRotation != SpinAngle(when) {
		t.Fatalf("StateAt = %+v", s)
	}
}
