package vmath

// Vec3 is a 3D vector in Q32.32 fixed-point
// Axes: X forward, Y left, Z up
type Vec3 struct {
	X, Y, Z int64
}

// V3FromInt builds a vector from whole world units
func V3FromInt(x, y, z int) Vec3 {
	return Vec3{FromInt(x), FromInt(y), FromInt(z)}
}

// V3FromFloat converts configuration or tooling input; not for simulation paths
func V3FromFloat(x, y, z float64) Vec3 {
	return Vec3{FromFloat(x), FromFloat(y), FromFloat(z)}
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Neg(v Vec3) Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func V3Scale(v Vec3, s int64) Vec3 {
	return Vec3{Mul(v.X, s), Mul(v.Y, s), Mul(v.Z, s)}
}

func V3Dot(a, b Vec3) int64 {
	return Mul(a.X, b.X) + Mul(a.Y, b.Y) + Mul(a.Z, b.Z)
}

// V3Mag returns vector length, overflow-safe for world-scale vectors
func V3Mag(v Vec3) int64 {
	return Hypot(Hypot(v.X, v.Y), v.Z)
}

// V3Dist returns distance between two points
func V3Dist(a, b Vec3) int64 {
	return V3Mag(V3Sub(a, b))
}

// V3Lerp interpolates a toward b by t in [0, Scale]
func V3Lerp(a, b Vec3, t int64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// V3Float converts to float components for render-side consumers
func V3Float(v Vec3) (x, y, z float32) {
	return float32(ToFloat(v.X)), float32(ToFloat(v.Y)), float32(ToFloat(v.Z))
}
