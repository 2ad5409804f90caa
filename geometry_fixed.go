// geometry_fixed.go - 32-bit fixed-point arithmetic (20.12 format, the
// geometry engine's native matrix/vertex representation) and the
// vector/matrix helpers the clipper and matrix stack build on. Spec
// 8 scenario 6 requires clip-weight arithmetic to match "32-bit
// fixed-point equality", so every intermediate here stays in fx32
// rather than drifting through float64.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// fx32 is a signed 20.12 fixed-point value: 12 fractional bits.
type fx32 int32

const fxShift = 12
const fxOne fx32 = 1 << fxShift

func fxFromInt(i int32) fx32 { return fx32(i) << fxShift }

func fxMul(a, b fx32) fx32 {
	return fx32((int64(a) * int64(b)) >> fxShift)
}

// fxDiv divides a by b in fx32, saturating to +/-0x7FFFFFFF on a zero
// divisor or an out-of-range quotient rather than panicking - the
// clipper passes its denominator unchecked, so saturating here keeps a
// degenerate input from crashing the core (spec 7: transient
// conditions never propagate as errors).
func fxDiv(a, b fx32) fx32 {
	if b == 0 {
		if a >= 0 {
			return 0x7FFFFFFF
		}
		return -0x7FFFFFFF
	}
	q := (int64(a) << fxShift) / int64(b)
	if q > 0x7FFFFFFF {
		return 0x7FFFFFFF
	}
	if q < -0x7FFFFFFF {
		return -0x7FFFFFFF
	}
	return fx32(q)
}

// Vec4 is a homogeneous 3D vertex position (x, y, z, w), the unit the
// clipper operates on (spec 4.10).
type Vec4 struct{ X, Y, Z, W fx32 }

// Mat4 is a 4x4 matrix of fx32 entries in row-major order, matching
// the 16-word MTX_LOAD_4x4/MTX_MULT_4x4 parameter layout (spec 4.10).
type Mat4 [16]fx32

func identityMat4() Mat4 {
	return Mat4{
		fxOne, 0, 0, 0,
		0, fxOne, 0, 0,
		0, 0, fxOne, 0,
		0, 0, 0, fxOne,
	}
}

// mulMat4 computes the row-major product a × b. Under transform's
// row-vector convention (v * m), v * (a × b) applies a first, then b.
func mulMat4(a, b Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum fx32
			for k := 0; k < 4; k++ {
				sum += fxMul(a[row*4+k], b[k*4+col])
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// mat4From43 expands a 4x3 (12-word) matrix parameter list into a 4x4
// with an implicit (0,0,0,1) fourth column, matching MTX_LOAD_4x3 /
// MTX_MULT_4x3 semantics (spec 4.10).
func mat4From43(m [12]fx32) Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		m[9], m[10], m[11], fxOne,
	}
}

// mat4From33 expands a 3x3 (9-word) matrix into 4x4 with identity
// translation/homogeneous row, matching MTX_MULT_3x3 (spec 4.10).
func mat4From33(m [9]fx32) Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, fxOne,
	}
}

func scaleMat4(x, y, z fx32) Mat4 {
	m := identityMat4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

func translateMat4(x, y, z fx32) Mat4 {
	m := identityMat4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// transform applies m to v as a row vector times matrix (v * m),
// matching the hardware's vertex x clip-matrix convention.
func (m Mat4) transform(v Vec4) Vec4 {
	return Vec4{
		X: fxMul(v.X, m[0]) + fxMul(v.Y, m[4]) + fxMul(v.Z, m[8]) + fxMul(v.W, m[12]),
		Y: fxMul(v.X, m[1]) + fxMul(v.Y, m[5]) + fxMul(v.Z, m[9]) + fxMul(v.W, m[13]),
		Z: fxMul(v.X, m[2]) + fxMul(v.Y, m[6]) + fxMul(v.Z, m[10]) + fxMul(v.W, m[14]),
		W: fxMul(v.X, m[3]) + fxMul(v.Y, m[7]) + fxMul(v.Z, m[11]) + fxMul(v.W, m[15]),
	}
}
