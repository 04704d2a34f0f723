// Package almanac seeds the orrery clock from a calendar date, so a run can
// start with the earth roughly where it really is on its orbit.
package almanac

import (
	"math"
	"time"

	"github.com/echoflaresat/orrery/kinematics"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
)

// OrbitAngle is the earth's heliocentric ecliptic longitude at t in radians,
// in [0, 2π). It is the sun's apparent geocentric longitude turned half a circle.
func OrbitAngle(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	lon := solar.ApparentLongitude(base.J2000Century(jd))
	return wrap(lon.Rad() + math.Pi)
}

// SpinAngle is the apparent Greenwich sidereal angle at t in radians, in [0, 2π).
func SpinAngle(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	return wrap(sidereal.Apparent(jd).Angle().Rad())
}

// StateAt returns a kinematics state whose clock and spin match t.
func StateAt(t time.Time) (kinematics.State, error) {
	return kinematics.NewState(OrbitAngle(t), SpinAngle(t))
}

func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
