package roundbot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WrapDegrees maps an angle to [0,360).
func WrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// wrapSigned maps an angle to [-180,180).
func wrapSigned(a float64) float64 {
	return WrapDegrees(a+180) - 180
}

func wrapRotation(r mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{WrapDegrees(r[0]), WrapDegrees(r[1]), WrapDegrees(r[2])}
}

// RotationMatrix composes Rz*Ry*Rx from angles in degrees, so x is applied first.
func RotationMatrix(rot mgl64.Vec3) mgl64.Mat3 {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(rot[0]))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(rot[1]))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(rot[2]))
	return rz.Mul3(ry).Mul3(rx)
}

// boxCorners returns the quad corners of a box centered on the origin, y up.
// Flat boxes (one zero dimension) collapse to the single quad lying in that plane.
func boxCorners(dim mgl64.Vec3) []mgl64.Vec3 {
	w2, h2, d2 := dim[0]/2, dim[1]/2, dim[2]/2
	top := []mgl64.Vec3{{-w2, h2, -d2}, {-w2, h2, d2}, {w2, h2, d2}, {w2, h2, -d2}}
	bottom := []mgl64.Vec3{{-w2, -h2, -d2}, {w2, -h2, -d2}, {w2, -h2, d2}, {-w2, -h2, d2}}
	left := []mgl64.Vec3{{-w2, -h2, -d2}, {-w2, -h2, d2}, {-w2, h2, d2}, {-w2, h2, -d2}}
	right := []mgl64.Vec3{{w2, -h2, d2}, {w2, -h2, -d2}, {w2, h2, -d2}, {w2, h2, d2}}
	front := []mgl64.Vec3{{-w2, -h2, d2}, {w2, -h2, d2}, {w2, h2, d2}, {-w2, h2, d2}}
	back := []mgl64.Vec3{{w2, -h2, -d2}, {-w2, -h2, -d2}, {-w2, h2, -d2}, {w2, h2, -d2}}

	switch {
	case dim[1] == 0:
		return top
	case dim[0] == 0:
		return left
	case dim[2] == 0:
		return front
	}
	corners := make([]mgl64.Vec3, 0, 24)
	for _, face := range [][]mgl64.Vec3{top, bottom, left, right, front, back} {
		corners = append(corners, face...)
	}
	return corners
}

func isFlat(dim mgl64.Vec3) bool {
	return dim[0] == 0 || dim[1] == 0 || dim[2] == 0
}

// BlockVertices builds the flat xyz vertex array of a block posed at pos with
// the given rotation. Geometry is always rebuilt from the origin-centered box.
func BlockVertices(pos, dim, rot mgl64.Vec3) []float64 {
	corners := boxCorners(dim)
	m := RotationMatrix(rot)
	out := make([]float64, 0, len(corners)*3)
	for _, c := range corners {
		v := m.Mul3x1(c).Add(pos)
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func absVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}
