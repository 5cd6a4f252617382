package go_exteriorballistics

import (
	"math"

	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/vector"
)

//TrajectoryState keeps the state of the projectile at one moment of the flight.
//
//The X coordinate of the position is the range and the Y coordinate is the altitude.
type TrajectoryState struct {
	time     float64
	position vector.Vector
	velocity vector.Vector
}

//CreateTrajectoryState creates the state from the time (s), position (m) and velocity (m/s)
func CreateTrajectoryState(time float64, position, velocity vector.Vector) TrajectoryState {
	return TrajectoryState{time: time, position: position, velocity: velocity}
}

//Time returns the time since the shot in seconds
func (v TrajectoryState) Time() float64 {
	return v.time
}

//Position returns the position of the projectile
func (v TrajectoryState) Position() vector.Vector {
	return v.position
}

//Velocity returns the velocity vector of the projectile
func (v TrajectoryState) Velocity() vector.Vector {
	return v.velocity
}

//Range returns the horizontal distance from the muzzle in meters
func (v TrajectoryState) Range() float64 {
	return v.position.X
}

//Altitude returns the altitude in meters
func (v TrajectoryState) Altitude() float64 {
	return v.position.Y
}

//Speed returns the velocity magnitude in m/s
func (v TrajectoryState) Speed() float64 {
	return v.velocity.Magnitude()
}

//Angle returns the flight path angle in degrees, negative on the descending branch
func (v TrajectoryState) Angle() float64 {
	return radiansToDegrees(v.velocity.Angle())
}

func (v TrajectoryState) isFinite() bool {
	return isFinite(v.time) && v.position.IsFinite() && v.velocity.IsFinite()
}

//interpolateImpact returns the state at the moment the altitude is zero,
//linear in altitude between the last state above the ground and the first one below
func interpolateImpact(above, below TrajectoryState) TrajectoryState {
	t := above.position.Y / (above.position.Y - below.position.Y)
	return TrajectoryState{
		time:     above.time + (below.time-above.time)*t,
		position: vector.Create(above.position.X+(below.position.X-above.position.X)*t, 0),
		velocity: vector.Lerp(above.velocity, below.velocity, t),
	}
}

//TrajectoryResult keeps the outcome of one trajectory run
type TrajectoryResult struct {
	departureAngle float64
	formFactor     float64
	impact         TrajectoryState
	maxOrdinate    float64
	steps          int
	path           []TrajectoryState
}

//DepartureAngle returns the departure angle of the shot in degrees
func (v TrajectoryResult) DepartureAngle() float64 {
	return v.departureAngle
}

//FormFactor returns the form factor used for the whole trajectory
func (v TrajectoryResult) FormFactor() float64 {
	return v.formFactor
}

//TimeOfFlight returns the time from the shot to the impact in seconds
func (v TrajectoryResult) TimeOfFlight() float64 {
	return v.impact.time
}

//Range returns the horizontal distance to the impact point in meters
func (v TrajectoryResult) Range() float64 {
	return v.impact.position.X
}

//ImpactVelocity returns the striking velocity in m/s
func (v TrajectoryResult) ImpactVelocity() float64 {
	return v.impact.Speed()
}

//ImpactAngle returns the angle of fall in degrees. The value is negative.
func (v TrajectoryResult) ImpactAngle() float64 {
	return v.impact.Angle()
}

//MaxOrdinate returns the altitude of the apex in meters
func (v TrajectoryResult) MaxOrdinate() float64 {
	return v.maxOrdinate
}

//Steps returns the number of integration steps taken
func (v TrajectoryResult) Steps() int {
	return v.steps
}

//Impact returns the interpolated state at the impact
func (v TrajectoryResult) Impact() TrajectoryState {
	return v.impact
}

//Path returns the recorded states, starting at the muzzle and ending at the impact.
//
//The path is empty unless the recording was requested.
func (v TrajectoryResult) Path() []TrajectoryState {
	return v.path
}

func degreesToRadians(a float64) float64 {
	return a * math.Pi / 180
}

func radiansToDegrees(a float64) float64 {
	return a * 180 / math.Pi
}
