// Package kinematics computes the per-tick pose of the orrery: the spin of
// the primary body, the revolution of the primary/satellite group around the
// central light, and the satellite's position within that group.
//
// Everything here is a pure function of an explicitly threaded State. Time
// advances by a fixed amount per tick, so simulated time is proportional to
// the number of rendered frames rather than to wall-clock time.
package kinematics

import (
	"errors"
	"fmt"
	"math"

	"github.com/echoflaresat/orrery/vectors"
	"github.com/soniakeys/unit"
)

const (
	TimeStep = 0.005 // simulated units added per tick
	SpinStep = 0.01  // primary body spin added per tick, radians

	PrimaryOrbitDistance = 20.0
	SatelliteOrbitRadius = 4.0
	SatelliteSpeed       = 3.0 // satellite angular speed relative to Time
)

// Surface marker placement on the primary body (Japan, 36°N 138°E).
const (
	MarkerLatitudeDeg  = 36.0
	MarkerLongitudeDeg = 138.0
	MarkerRadius       = 2.1
)

var ErrNegativeTime = errors.New("kinematics: time must be non-negative")

// State is the simulation clock together with the spin accumulator.
// The zero value is the start state.
type State struct {
	Time         float64
	SelfRotation float64
}

// NewState returns a State starting at the given clock and spin values.
func NewState(time, selfRotation float64) (State, error) {
	if time < 0 || math.IsNaN(time) {
		return State{}, fmt.Errorf("%w: got %v", ErrNegativeTime, time)
	}
	return State{Time: time, SelfRotation: selfRotation}, nil
}

// Step advances the state by exactly one tick.
func Step(s State) State {
	return State{
		Time:         s.Time + TimeStep,
		SelfRotation: s.SelfRotation + SpinStep,
	}
}

// Advance applies n ticks. Non-positive n returns s unchanged.
func Advance(s State, n int) State {
	for i := 0; i < n; i++ {
		s = Step(s)
	}
	return s
}

// Offset2 is a position in the group's XZ plane.
type Offset2 struct {
	X, Z float64
}

// Pose is the set of scalars needed to pose the scene for one frame.
type Pose struct {
	SelfRotation    float64
	GroupOrbit      float64
	SatelliteOffset Offset2
}

// PoseAt derives the pose for s.
func PoseAt(s State) Pose {
	angle := s.Time * SatelliteSpeed
	return Pose{
		SelfRotation: s.SelfRotation,
		GroupOrbit:   s.Time,
		SatelliteOffset: Offset2{
			X: PrimaryOrbitDistance + math.Cos(angle)*SatelliteOrbitRadius,
			Z: math.Sin(angle) * SatelliteOrbitRadius,
		},
	}
}

// SatellitePosition returns the satellite offset as a vector in the group frame.
func (p Pose) SatellitePosition() vectors.Vec3 {
	return vectors.New(p.SatelliteOffset.X, 0, p.SatelliteOffset.Z)
}

// MarkerPosition converts latitude/longitude in degrees and a radius into a
// point in the primary body's local frame. Y is the polar axis.
func MarkerPosition(latDeg, lonDeg, radius float64) vectors.Vec3 {
	lat := unit.AngleFromDeg(latDeg)
	lon := unit.AngleFromDeg(lonDeg)
	return vectors.Vec3{
		X: radius * lat.Cos() * lon.Cos(),
		Y: radius * lat.Sin(),
		Z: radius * lat.Cos() * lon.Sin(),
	}
}

// JapanMarker is the fixed surface marker used by the orrery scene.
func JapanMarker() vectors.Vec3 {
	return MarkerPosition(MarkerLatitudeDeg, MarkerLongitudeDeg, MarkerRadius)
}
