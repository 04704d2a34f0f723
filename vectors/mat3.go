package vectors

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3x3 rotation matrix, stored column-major.
type Mat3 mgl64.Mat3

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3(mgl64.Ident3())
}

// RotationX returns a right-handed rotation about +X by theta radians.
func RotationX(theta float64) Mat3 {
	return Mat3(mgl64.Rotate3DX(theta))
}

// RotationY returns a right-handed rotation about +Y by theta radians.
func RotationY(theta float64) Mat3 {
	return Mat3(mgl64.Rotate3DY(theta))
}

// RotationZ returns a right-handed rotation about +Z by theta radians.
func RotationZ(theta float64) Mat3 {
	return Mat3(mgl64.Rotate3DZ(theta))
}

// Euler builds the rotation for angles applied in X, Y, Z order,
// i.e. Rx * Ry * Rz acting on column vectors.
func Euler(angles Vec3) Mat3 {
	return RotationX(angles.X).Mul(RotationY(angles.Y)).Mul(RotationZ(angles.Z))
}

// Mul returns m * o.
func (m Mat3) Mul(o Mat3) Mat3 {
	return Mat3(mgl64.Mat3(m).Mul3(mgl64.Mat3(o)))
}

// Apply returns m * v.
func (m Mat3) Apply(v Vec3) Vec3 {
	r := mgl64.Mat3(m).Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vec3{X: r[0], Y: r[1], Z: r[2]}
}

// Transpose returns the transpose, which is the inverse for pure rotations.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl64.Mat3(m).Transpose())
}

// At returns the element at row, col.
func (m Mat3) At(row, col int) float64 {
	return mgl64.Mat3(m).At(row, col)
}
