//The package provides simple operations on 2d vector
//required for point-mass trajectory calculation in the plane of fire
package vector

import (
	"fmt"
	"math"
)

//2D vector structure
type Vector struct {
	X float64 //X-coordinate, horizontal
	Y float64 //Y-coordinate, vertical
}

//Converts a vector into a string
func (v Vector) String() string {
	return fmt.Sprintf("[X=%f,Y=%f]", v.X, v.Y)
}

//Creates a vector from its coordinates
func Create(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

//Creates a vector of the magnitude specified directed at the angle (radians) above the X axis
func FromPolar(magnitude, angle float64) Vector {
	return Create(magnitude*math.Cos(angle), magnitude*math.Sin(angle))
}

//Return a product of two vectors
//
//The product of two vectors is a sum of products of each coordinate
func (v Vector) MultiplyByVector(b Vector) float64 {
	return v.X*b.X + v.Y*b.Y
}

//Retruns a magnitude of the vector
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

//Returns the angle (radians) between the vector and the X axis
//
//The angle is negative when the vector points downward
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

//Multiplies the vector by the constant
func (v Vector) MultiplyByConst(a float64) Vector {
	return Create(a*v.X, a*v.Y)
}

//Adds two vectors
func (a Vector) Add(b Vector) Vector {
	return Create(a.X+b.X, a.Y+b.Y)
}

//Subtracts one vector from another
func (a Vector) Subtract(b Vector) Vector {
	return Create(a.X-b.X, a.Y-b.Y)
}

//Returns a vector which is simmetrical to this vector vs (0,0) point
func (v Vector) Negate() Vector {
	return Create(-v.X, -v.Y)
}

//Returns the point between a and b at the fraction t (0 is a, 1 is b)
func Lerp(a, b Vector, t float64) Vector {
	return a.Add(b.Subtract(a).MultiplyByConst(t))
}

//Returns true if both coordinates are finite numbers
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

//Returns a vector of magnitude one which is collinear to this vector
func (v Vector) Normalize() Vector {
	magnitude := v.Magnitude()
	if math.Abs(magnitude) < 1e-10 {
		return v
	}
	return v.MultiplyByConst(1.0 / magnitude)
}
