// geometry_state.go - GeometryState (spec 3, 4.10): matrix mode and
// stacks, light/material state, latched polygon/texture attributes,
// and the vertex/polygon RAM the engine accumulates into.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	positionStackDepth = 31 // level 31 sets the overflow sticky bit (spec 4.10)
	maxPolygons        = 2048
	maxVertices        = 6144
)

// LightDescriptor is one of the four hardware lights (spec 3).
type LightDescriptor struct {
	Direction Vec4 // light vector, position-vector transformed
	Color     uint16
}

// Vertex is one transformed, shaded vertex in vertex RAM (spec 3).
type Vertex struct {
	Pos   Vec4
	Color uint16 // 15-bit RGB
	U, V  int16  // texture coordinates, 1.11.4 fixed point
}

// Polygon is a polygon RAM entry: indices into vertex RAM plus its
// latched texture/palette/attribute triple (spec 3).
type Polygon struct {
	VertexIndices []int
	TexImageParam uint32
	TexPaletteBase uint32
	Attr          uint32
	Strip         bool
}

// vertexAttrs are the per-vertex values latched by COLOR/NORMAL/
// TEXCOORD before each emitter command (spec 4.10).
type vertexAttrs struct {
	color   uint16
	u, v    int16
	normal  [3]fx32
}

// polygonAttrs are the "next" vs "current" latched set Begin_vtxs
// copies over (spec 3: "current polygon/texture attributes (next vs.
// current latched)").
type polygonAttrs struct {
	polygonAttr    uint32
	texImageParam  uint32
	texPaletteBase uint32
}

// GeometryState is the full mutable state the command dispatcher
// operates on (spec 3).
type GeometryState struct {
	mode MatrixMode

	projection      Mat4
	projectionStack [1]Mat4
	projectionSP    int

	texture      Mat4
	textureStack [1]Mat4
	textureSP    int

	position       Mat4
	positionVector Mat4
	// the position/position-vector stacks share a single 31-deep
	// stack and a single stack pointer (spec 3).
	posStack       [positionStackDepth]Mat4
	posVecStack    [positionStackDepth]Mat4
	posSP          int
	posStackOverflow bool

	clipMatrix    Mat4
	clipMatrixDirty bool // recompute lazily (original_source/dust optimization, see SPEC_FULL.md)

	lights   [4]LightDescriptor
	diffuse  uint16
	ambient  uint16
	specular uint16
	emission uint16
	shininessTable [128]byte

	nextAttrs polygonAttrs
	curAttrs  polygonAttrs
	vtxAttrs  vertexAttrs

	primType       PrimitiveType
	accumulating   []Vertex // vertices accumulated for the in-progress primitive
	lastStripVerts [2]Vertex
	haveLastStrip  bool
	stripClipped   bool

	vertexRAM  []Vertex
	polygonRAM []Polygon

	overflow bool // PolyRamOverflow / VertRamOverflow, latched (spec 7)

	// test-command result latches (spec 4.10: Viewport/Box_test/
	// Pos_test/Vec_test are stubs that set their result bits)
	boxTestResult bool
	posTestResult Vec4
	vecTestResult Vec4
}

func NewGeometryState() *GeometryState {
	g := &GeometryState{
		projection:     identityMat4(),
		texture:        identityMat4(),
		position:       identityMat4(),
		positionVector: identityMat4(),
	}
	g.clipMatrixDirty = true
	return g
}

func (g *GeometryState) current() *Mat4 {
	switch g.mode {
	case MatrixProjection:
		return &g.projection
	case MatrixTexture:
		return &g.texture
	default:
		return &g.position
	}
}

// setCurrent applies a new matrix to the mode-selected target. For
// Position-Vector mode, both the position and position-vector
// matrices update simultaneously (spec 4.10).
func (g *GeometryState) setCurrent(m Mat4) {
	switch g.mode {
	case MatrixProjection:
		g.projection = m
	case MatrixTexture:
		g.texture = m
	case MatrixPosition:
		g.position = m
	case MatrixPositionVector:
		g.position = m
		g.positionVector = m
	}
	g.clipMatrixDirty = true
}

func (g *GeometryState) multCurrent(m Mat4) {
	g.setCurrent(mulMat4(m, *g.current()))
}

// push implements MTX_PUSH for the mode-selected stack.
func (g *GeometryState) push() {
	switch g.mode {
	case MatrixProjection:
		if g.projectionSP < len(g.projectionStack) {
			g.projectionStack[g.projectionSP] = g.projection
			g.projectionSP++
		}
	case MatrixTexture:
		if g.textureSP < len(g.textureStack) {
			g.textureStack[g.textureSP] = g.texture
			g.textureSP++
		}
	default: // Position / Position-Vector share the 31-deep stack
		if g.posSP < positionStackDepth {
			g.posStack[g.posSP] = g.position
			g.posVecStack[g.posSP] = g.positionVector
		}
		g.posSP++
		if g.posSP >= positionStackDepth {
			g.posStackOverflow = true
		}
	}
}

// pop implements MTX_POP(count). count is sign-extended from the
// command's 6-bit field (spec 4.10: "negative params on MTX_POP count
// field using sign-extension") and the resulting pointer clamps to
// [0, 63] per hardware (spec 4.10's failure model).
func (g *GeometryState) pop(count int32) {
	switch g.mode {
	case MatrixProjection:
		if g.projectionSP > 0 {
			g.projectionSP--
			g.projection = g.projectionStack[g.projectionSP]
		}
	case MatrixTexture:
		if g.textureSP > 0 {
			g.textureSP--
			g.texture = g.textureStack[g.textureSP]
		}
	default:
		target := int32(g.posSP) - count
		if target < 0 {
			target = 0
		}
		if target > 63 {
			target = 63
			g.posStackOverflow = true
		}
		g.posSP = int(target)
		idx := g.posSP
		if idx >= positionStackDepth {
			idx = positionStackDepth - 1
		}
		g.position = g.posStack[idx]
		g.positionVector = g.posVecStack[idx]
	}
	g.clipMatrixDirty = true
}

func (g *GeometryState) store(index uint32) {
	switch g.mode {
	case MatrixProjection:
		g.projectionStack[0] = g.projection
	case MatrixTexture:
		g.textureStack[0] = g.texture
	default:
		i := int(index)
		if i < positionStackDepth {
			g.posStack[i] = g.position
			g.posVecStack[i] = g.positionVector
		}
	}
}

func (g *GeometryState) restore(index uint32) {
	switch g.mode {
	case MatrixProjection:
		g.projection = g.projectionStack[0]
	case MatrixTexture:
		g.texture = g.textureStack[0]
	default:
		i := int(index)
		if i < positionStackDepth {
			g.position = g.posStack[i]
			g.positionVector = g.posVecStack[i]
		}
	}
	g.clipMatrixDirty = true
}

func (g *GeometryState) loadIdentity() { g.setCurrent(identityMat4()) }

// ClipMatrix returns (lazily recomputing) projection x position, the
// matrix every emitted vertex is transformed through (spec 4.10;
// caching per original_source/dust, see SPEC_FULL.md).
func (g *GeometryState) ClipMatrix() Mat4 {
	if g.clipMatrixDirty {
		g.clipMatrix = mulMat4(g.projection, g.position)
		g.clipMatrixDirty = false
	}
	return g.clipMatrix
}
