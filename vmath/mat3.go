package vmath

// Mat3 is a row-major Q32.32 rotation matrix
// Columns are the rotated forward, left and up axes
type Mat3 [9]int64

// Identity3 returns the identity rotation
func Identity3() Mat3 {
	return Mat3{Scale, 0, 0, 0, Scale, 0, 0, 0, Scale}
}

// Yaw rotates about +Z, counter-clockwise seen from above
func Yaw(a Angle) Mat3 {
	c, s := CosA(a), SinA(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, Scale,
	}
}

// Pitch raises +X toward +Z
func Pitch(a Angle) Mat3 {
	c, s := CosA(a), SinA(a)
	return Mat3{
		c, 0, -s,
		0, Scale, 0,
		s, 0, c,
	}
}

// Roll rotates about +X, raising +Y toward +Z
func Roll(a Angle) Mat3 {
	c, s := CosA(a), SinA(a)
	return Mat3{
		Scale, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// Rotation composes yaw, then pitch, then roll in the local frame
func Rotation(yaw, pitch, roll Angle) Mat3 {
	return Yaw(yaw).Mul(Pitch(pitch)).Mul(Roll(roll))
}

func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = Mul(m[i*3], n[j]) + Mul(m[i*3+1], n[3+j]) + Mul(m[i*3+2], n[6+j])
		}
	}
	return r
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		Mul(m[0], v.X) + Mul(m[1], v.Y) + Mul(m[2], v.Z),
		Mul(m[3], v.X) + Mul(m[4], v.Y) + Mul(m[5], v.Z),
		Mul(m[6], v.X) + Mul(m[7], v.Y) + Mul(m[8], v.Z),
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Forward returns the rotated +X axis
func (m Mat3) Forward() Vec3 { return Vec3{m[0], m[3], m[6]} }

// Euler decomposes into the angles accepted by Rotation
func (m Mat3) Euler() (yaw, pitch, roll Angle) {
	yaw = AngleOf(m[3], m[0])
	pitch = AngleOf(m[6], Hypot(m[0], m[3]))
	roll = AngleOf(m[7], m[8])
	return
}
