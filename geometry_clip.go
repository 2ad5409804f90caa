// geometry_clip.go - six-plane frustum clipping (spec 4.10, 8 scenario
// 6): three sequential passes (z, then y, then x), each a
// Sutherland-Hodgman pass against a pair of +-w planes.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// clipAxis selects which coordinate a pass clips against.
type clipAxis int

const (
	clipZ clipAxis = iota
	clipY
	clipX
)

func coordOf(v Vertex, axis clipAxis) fx32 {
	switch axis {
	case clipZ:
		return v.Pos.Z
	case clipY:
		return v.Pos.Y
	default:
		return v.Pos.X
	}
}

func withCoord(v Vertex, axis clipAxis, c fx32) Vertex {
	switch axis {
	case clipZ:
		v.Pos.Z = c
	case clipY:
		v.Pos.Y = c
	default:
		v.Pos.X = c
	}
	return v
}

// clipAgainstPlane clips poly against one plane of the given axis.
// sign=+1 clips against coord <= w (the "+w" plane), sign=-1 clips
// against coord >= -w (the "-w" plane). The interpolation weight from
// v0 toward v1 along a crossing edge is
//
//	t = (±w0 - coord0) / ((coord1 - coord0) ∓ (w1 - w0))
//
// with the upper signs for the +w plane and the lower signs for the -w
// plane, so the interpolated coord equals the interpolated ±w.
func clipAgainstPlane(poly []Vertex, axis clipAxis, sign fx32) []Vertex {
	if len(poly) == 0 {
		return poly
	}
	out := make([]Vertex, 0, len(poly)+2)
	inside := func(v Vertex) bool {
		c := coordOf(v, axis)
		if sign > 0 {
			return c <= v.Pos.W
		}
		return c >= -v.Pos.W
	}
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn != prevIn {
			out = append(out, intersectPlane(prev, cur, axis, sign))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// intersectPlane computes the clip intersection with the weight above,
// measured from v0, and interpolates all vertex attributes (position,
// color, uv) through both endpoints in fx32 arithmetic (spec 8
// scenario 6 requires 32-bit fixed-point equality).
func intersectPlane(v0, v1 Vertex, axis clipAxis, sign fx32) Vertex {
	c0, c1 := coordOf(v0, axis), coordOf(v1, axis)
	w0, w1 := v0.Pos.W, v1.Pos.W

	var num, den fx32
	if sign > 0 {
		num = w0 - c0
		den = (c1 - c0) - (w1 - w0)
	} else {
		num = -w0 - c0
		den = (c1 - c0) + (w1 - w0)
	}
	t := fxDiv(num, den)

	out := Vertex{}
	out.Pos.X = v0.Pos.X + fxMul(t, v1.Pos.X-v0.Pos.X)
	out.Pos.Y = v0.Pos.Y + fxMul(t, v1.Pos.Y-v0.Pos.Y)
	out.Pos.Z = v0.Pos.Z + fxMul(t, v1.Pos.Z-v0.Pos.Z)
	out.Pos.W = v0.Pos.W + fxMul(t, v1.Pos.W-v0.Pos.W)

	out.Color = lerpColor(v0.Color, v1.Color, t)
	out.U = int16(int32(v0.U) + int32(fxMul(t, fx32(v1.U-v0.U))))
	out.V = int16(int32(v0.V) + int32(fxMul(t, fx32(v1.V-v0.V))))
	return out
}

func lerpColor(a, b uint16, t fx32) uint16 {
	lerp := func(ac, bc uint16) uint16 {
		av, bv := fx32(ac), fx32(bc)
		return uint16(av + fxMul(t, bv-av))
	}
	ar, ag, ab := a&0x1F, (a>>5)&0x1F, (a>>10)&0x1F
	br, bg, bb := b&0x1F, (b>>5)&0x1F, (b>>10)&0x1F
	return lerp(ar, br) | lerp(ag, bg)<<5 | lerp(ab, bb)<<10
}

// clipPolygon runs all three passes in the spec-mandated order (z,
// then y, then x), discarding the polygon if any pass empties it
// (spec 4.10). It is idempotent on a polygon entirely inside the
// frustum (spec 8): a pass over an all-inside polygon finds no
// crossing edges and returns the input unchanged.
func clipPolygon(verts []Vertex) []Vertex {
	axes := [3]clipAxis{clipZ, clipY, clipX}
	poly := verts
	for _, axis := range axes {
		poly = clipAgainstPlane(poly, axis, fxOne)
		if len(poly) == 0 {
			return nil
		}
		poly = clipAgainstPlane(poly, axis, -fxOne)
		if len(poly) == 0 {
			return nil
		}
	}
	return poly
}
