// render3d_software.go - the CPU rasterizer shared by the Vulkan and
// headless Renderer3D implementations (spec 6, 4.10). Grounded on
// voodoo_vulkan.go's VoodooSoftwareBackend: a barycentric triangle
// rasterizer with a Gouraud-shaded color buffer and a per-pixel depth
// buffer, adapted from Voodoo's float-space triangle batches to the
// geometry engine's fx32 vertex/polygon RAM.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import "math"

// softwareRenderer3D rasterizes a Renderer3DInput into an RGBA
// framebuffer entirely on the CPU. Used directly by the headless
// build and wrapped by VulkanRenderer3D (render3d_vulkan.go) in
// builds where a live Vulkan device is brought up alongside it.
type softwareRenderer3D struct {
	width, height int
	color         []byte
	depth         []float32
	frame         []byte
}

func newSoftwareRenderer3D(width, height int) *softwareRenderer3D {
	return &softwareRenderer3D{
		width:  width,
		height: height,
		color:  make([]byte, width*height*4),
		depth:  make([]float32, width*height),
		frame:  make([]byte, width*height*4),
	}
}

func (r *softwareRenderer3D) SwapBuffers(in Renderer3DInput) {
	cr, cg, cb, ca := unpackRgba6665(in.ClearColor)
	for i := 0; i < len(r.color); i += 4 {
		r.color[i+0] = cr
		r.color[i+1] = cg
		r.color[i+2] = cb
		r.color[i+3] = ca
	}
	clearZ := float32(in.ClearDepth) / float32(1<<24)
	for i := range r.depth {
		r.depth[i] = clearZ
	}

	for _, poly := range in.PolygonRAM {
		r.rasterizePolygon(poly, in.VertexRAM)
	}

	copy(r.frame, r.color)
}

// rasterizePolygon fans a convex polygon (triangle, quad, or strip
// entry) into triangles. Vertex positions are treated as already in
// device space: the viewport transform that maps clip-space fx32
// coordinates into [0,width)x[0,height) is the geometry engine's
// concern (spec 4.10's vertex-transform pipeline), not the
// renderer's.
func (r *softwareRenderer3D) rasterizePolygon(p Polygon, verts []Vertex) {
	idx := p.VertexIndices
	for i := 1; i+1 < len(idx); i++ {
		r.rasterizeTriangle(verts[idx[0]], verts[idx[i]], verts[idx[i+1]])
	}
}

func (r *softwareRenderer3D) rasterizeTriangle(v0, v1, v2 Vertex) {
	x0, y0 := fx32ToPixel(v0.Pos.X), fx32ToPixel(v0.Pos.Y)
	x1, y1 := fx32ToPixel(v1.Pos.X), fx32ToPixel(v1.Pos.Y)
	x2, y2 := fx32ToPixel(v2.Pos.X), fx32ToPixel(v2.Pos.Y)

	area := edge3d(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	if area < 0 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
		v1, v2 = v2, v1
		area = -area
	}
	invArea := 1.0 / area

	minX := int(math.Max(0, math.Floor(float64(min3(x0, x1, x2)))))
	maxX := int(math.Min(float64(r.width), math.Ceil(float64(max3(x0, x1, x2)))))
	minY := int(math.Max(0, math.Floor(float64(min3(y0, y1, y2)))))
	maxY := int(math.Min(float64(r.height), math.Ceil(float64(max3(y0, y1, y2)))))

	z0 := float32(v0.Pos.Z) / float32(fxOne)
	z1 := float32(v1.Pos.Z) / float32(fxOne)
	z2 := float32(v2.Pos.Z) / float32(fxOne)

	r0, g0, b0 := unpackRgb555(v0.Color)
	r1, g1, b1 := unpackRgb555(v1.Color)
	r2, g2, b2 := unpackRgb555(v2.Color)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge3d(x1, y1, x2, y2, px, py)
			w1 := edge3d(x2, y2, x0, y0, px, py)
			w2 := edge3d(x0, y0, x1, y1, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			w0 *= invArea
			w1 *= invArea
			w2 *= invArea

			z := w0*z0 + w1*z1 + w2*z2
			pi := y*r.width + x
			if z > r.depth[pi] {
				continue
			}
			r.depth[pi] = z

			cr := w0*r0 + w1*r1 + w2*r2
			cg := w0*g0 + w1*g1 + w2*g2
			cb := w0*b0 + w1*b1 + w2*b2
			bi := pi * 4
			r.color[bi+0] = byte(clamp01(cr) * 255)
			r.color[bi+1] = byte(clamp01(cg) * 255)
			r.color[bi+2] = byte(clamp01(cb) * 255)
			r.color[bi+3] = 255
		}
	}
}

func (r *softwareRenderer3D) GetFrame() []byte {
	out := make([]byte, len(r.frame))
	copy(out, r.frame)
	return out
}

func fx32ToPixel(v fx32) float32 { return float32(v) / float32(fxOne) }

func edge3d(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

func min3(a, b, c float32) float32 {
	return float32(math.Min(float64(a), math.Min(float64(b), float64(c))))
}
func max3(a, b, c float32) float32 {
	return float32(math.Max(float64(a), math.Max(float64(b), float64(c))))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// unpackRgb555 splits a 15-bit BGR555 polygon/vertex color (spec
// 4.10) into normalized float channels.
func unpackRgb555(c uint16) (r, g, b float32) {
	r = float32(c&0x1F) / 31
	g = float32((c>>5)&0x1F) / 31
	b = float32((c>>10)&0x1F) / 31
	return
}

// unpackRgba6665 splits the geometry engine's clear-color register
// (6-bit RGB plus 5-bit alpha, spec 4.10) into bytes.
func unpackRgba6665(c uint32) (r, g, b, a byte) {
	r = byte((c & 0x3F) * 255 / 63)
	g = byte(((c >> 6) & 0x3F) * 255 / 63)
	b = byte(((c >> 12) & 0x3F) * 255 / 63)
	a = byte(((c >> 18) & 0x1F) * 255 / 31)
	return
}
