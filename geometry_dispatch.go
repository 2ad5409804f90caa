// geometry_dispatch.go - the 3D command state machine (spec 4.10):
// per-command dispatch timing, matrix/vertex/material command
// execution, polygon assembly with strip continuity, and the
// swap-buffers/VBlank handoff to the external renderer (spec 6).
// Grounded on the teacher's VoodooEngine register-to-draw-call state
// machine (video_voodoo.go) - same shape (MMIO writes build up
// pending primitive state, a "commit" command flushes it) adapted from
// immediate-mode register writes to a FIFO-buffered command stream.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// geomDispatchDelay is spec 4.10's "dispatch time is a fixed 10 A9
// cycles after draining the parameters."
const geomDispatchDelay = Timestamp(10)

// Renderer3DInput is the struct handed to the external 3D renderer at
// buffer swap (spec 6): vertex/polygon RAM plus rendering control
// data the renderer needs but the core does not interpret.
type Renderer3DInput struct {
	VertexRAM     []Vertex
	PolygonRAM    []Polygon
	ClearColor    uint32
	ClearDepth    uint32
	ClearPolyID   uint8
	ToonTable     [32]uint16
	EdgeColors    [8]uint16
	FogData       uint32
	TextureDirty  bool
	TexPaletteDirty bool
}

// Renderer3D is the narrow external collaborator the core hands
// Renderer3DInput to (spec 1, 6). A software/GPU implementation lives
// outside this file (render3d_vulkan.go, render3d_headless.go).
type Renderer3D interface {
	SwapBuffers(Renderer3DInput)
}

// GeometryEngine owns the FIFO, the mutable GeometryState, and the
// scheduler wiring that drains one command every geomDispatchDelay
// cycles (spec 4.10).
type GeometryEngine struct {
	fifo  *GeometryFifo
	state *GeometryState

	localSched  *Scheduler       // the A9's own scheduler, normal draining path
	globalSched *GlobalScheduler // drives draining while the FIFO is stalled (spec 4.10)
	irq9        *IrqController
	dmaBank9    *DmaBank
	renderer    Renderer3D

	swapPending bool // true between SWAP_BUFFERS and the VBlank flip
}

func NewGeometryEngine(localSched *Scheduler, globalSched *GlobalScheduler, irq9 *IrqController) *GeometryEngine {
	g := &GeometryEngine{
		fifo:        NewGeometryFifo(),
		state:       NewGeometryState(),
		localSched:  localSched,
		globalSched: globalSched,
		irq9:        irq9,
	}
	localSched.SetHandler(SlotGeomCommand, g.onLocalDispatch)
	globalSched.SetHandler(SlotGeomCommand, g.onGlobalDispatch)
	return g
}

func (g *GeometryEngine) AttachDma(bank *DmaBank) { g.dmaBank9 = bank }
func (g *GeometryEngine) AttachRenderer(r Renderer3D) { g.renderer = r }

// WritePacked/WriteDirect forward MMIO writes into the FIFO and kick
// off draining if nothing is already scheduled.
func (g *GeometryEngine) WritePacked(v uint32) {
	g.fifo.WritePacked(v)
	g.kick()
}

func (g *GeometryEngine) WriteDirect(op byte, v uint32) {
	g.fifo.WriteDirect(op, v)
	g.kick()
}

// kick schedules the next drain if the FIFO is non-empty and nothing
// is already pending. While stalled (spec 4.10: "FIFO length > 256
// stalls further writes") draining is driven by the global scheduler
// instead of the A9-local one, so A9 DMA feeding the FIFO can keep
// running concurrently (spec 4.10, 8 scenario 5).
func (g *GeometryEngine) kick() {
	if g.swapPending {
		return
	}
	if g.fifo.Len() == 0 {
		return
	}
	if g.fifo.Stalled() {
		if !g.globalSched.Pending(SlotGeomCommand) {
			g.globalSched.Schedule(SlotGeomCommand, g.globalSched.Now()+geomDispatchDelay)
		}
		return
	}
	if !g.localSched.Pending(SlotGeomCommand) {
		g.localSched.Schedule(SlotGeomCommand, g.localSched.Now()+geomDispatchDelay)
	}
}

func (g *GeometryEngine) onLocalDispatch(now Timestamp) { g.drainOne() }
func (g *GeometryEngine) onGlobalDispatch(now Timestamp) { g.drainOne() }

func (g *GeometryEngine) drainOne() {
	cmd, ok := g.fifo.Pop()
	if !ok {
		return
	}
	g.execute(cmd)
	if g.dmaBank9 != nil && g.fifo.Len() < gxFifoHalfFull {
		g.dmaBank9.TriggerEvent(DmaEventGxFifo)
	}
	g.kick()
}

// VBlank is called by the display scheduling path every frame (spec
// 4.10: swap_buffers' "+inf sentinel" is lifted here). It is a no-op
// unless a swap is pending.
func (g *GeometryEngine) VBlank() {
	if !g.swapPending {
		return
	}
	g.swapPending = false
	if g.renderer != nil {
		g.renderer.SwapBuffers(Renderer3DInput{
			VertexRAM:  g.state.vertexRAM,
			PolygonRAM: g.state.polygonRAM,
		})
	}
	g.state.vertexRAM = nil
	g.state.polygonRAM = nil
	g.state.overflow = false
	g.kick()
}

func (g *GeometryEngine) execute(cmd GeomCommand) {
	s := g.state
	switch cmd.Opcode {
	case opMtxMode:
		s.mode = MatrixMode(cmd.Params[0] & 0x3)
	case opMtxPush:
		s.push()
	case opMtxPop:
		s.pop(signExtend6(cmd.Params[0]))
	case opMtxStore:
		s.store(cmd.Params[0] & 0x1F)
	case opMtxRestore:
		s.restore(cmd.Params[0] & 0x1F)
	case opMtxIdentity:
		s.loadIdentity()
	case opMtxLoad44:
		s.setCurrent(Mat4(toFx32Array16(cmd.Params)))
	case opMtxLoad43:
		s.setCurrent(mat4From43(toFx32Array12(cmd.Params)))
	case opMtxMult44:
		s.multCurrent(Mat4(toFx32Array16(cmd.Params)))
	case opMtxMult43:
		s.multCurrent(mat4From43(toFx32Array12(cmd.Params)))
	case opMtxMult33:
		s.multCurrent(mat4From33(toFx32Array9(cmd.Params)))
	case opMtxScale:
		s.multCurrent(scaleMat4(fx32(cmd.Params[0]), fx32(cmd.Params[1]), fx32(cmd.Params[2])))
	case opMtxTrans:
		s.multCurrent(translateMat4(fx32(cmd.Params[0]), fx32(cmd.Params[1]), fx32(cmd.Params[2])))

	case opColor:
		s.vtxAttrs.color = uint16(cmd.Params[0] & 0x7FFF)
	case opNormal:
		v := cmd.Params[0]
		s.vtxAttrs.normal = [3]fx32{
			fx32(signExtend10(v) << 2),
			fx32(signExtend10(v>>10) << 2),
			fx32(signExtend10(v>>20) << 2),
		}
	case opTexCoord:
		s.vtxAttrs.u = int16(cmd.Params[0])
		s.vtxAttrs.v = int16(cmd.Params[0] >> 16)

	case opVtx16:
		// 1.3.12 fixed-point halfwords, already fx32-compatible (spec 4.10).
		x := int16(cmd.Params[0])
		y := int16(cmd.Params[0] >> 16)
		z := int16(cmd.Params[1])
		g.emitVertex(fx32(x), fx32(y), fx32(z))
	case opVtx10:
		v := cmd.Params[0]
		g.emitVertex(
			fx32(signExtend10(v)<<6),
			fx32(signExtend10(v>>10)<<6),
			fx32(signExtend10(v>>20)<<6),
		)
	case opVtxXY:
		g.emitVertex(fx32(int16(cmd.Params[0])), fx32(int16(cmd.Params[0]>>16)), g.lastEmittedZ())
	case opVtxXZ:
		g.emitVertex(fx32(int16(cmd.Params[0])), g.lastEmittedY(), fx32(int16(cmd.Params[0]>>16)))
	case opVtxYZ:
		g.emitVertex(g.lastEmittedX(), fx32(int16(cmd.Params[0])), fx32(int16(cmd.Params[0]>>16)))
	case opVtxDiff:
		v := cmd.Params[0]
		dx := fx32(signExtend10(v) << 3)
		dy := fx32(signExtend10(v>>10) << 3)
		dz := fx32(signExtend10(v>>20) << 3)
		g.emitVertex(g.lastEmittedX()+dx, g.lastEmittedY()+dy, g.lastEmittedZ()+dz)

	case opPolygonAttr:
		s.nextAttrs.polygonAttr = cmd.Params[0]
	case opTexImageParam:
		s.nextAttrs.texImageParam = cmd.Params[0]
	case opTexPaletteBase:
		s.nextAttrs.texPaletteBase = cmd.Params[0]

	case opDifAmb:
		s.diffuse = uint16(cmd.Params[0] & 0x7FFF)
		s.ambient = uint16((cmd.Params[0] >> 16) & 0x7FFF)
	case opSpeEmi:
		s.specular = uint16(cmd.Params[0] & 0x7FFF)
		s.emission = uint16((cmd.Params[0] >> 16) & 0x7FFF)
	case opLightVector:
		idx := (cmd.Params[0] >> 30) & 0x3
		v := cmd.Params[0]
		dir := Vec4{
			X: fx32(signExtend10(v) << 2),
			Y: fx32(signExtend10(v>>10) << 2),
			Z: fx32(signExtend10(v>>20) << 2),
		}
		s.lights[idx].Direction = s.positionVector.transform(dir)
	case opLightColor:
		idx := (cmd.Params[0] >> 30) & 0x3
		s.lights[idx].Color = uint16(cmd.Params[0] & 0x7FFF)
	case opShininess:
		for i, p := range cmd.Params {
			s.shininessTable[i*4] = byte(p)
			s.shininessTable[i*4+1] = byte(p >> 8)
			s.shininessTable[i*4+2] = byte(p >> 16)
			s.shininessTable[i*4+3] = byte(p >> 24)
		}

	case opBeginVtxs:
		s.curAttrs = s.nextAttrs
		s.primType = PrimitiveType(cmd.Params[0] & 0x3)
		s.accumulating = s.accumulating[:0]
		s.haveLastStrip = false
	case opEndVtxs:
		// no-op (spec 4.10)

	case opSwapBuffers:
		g.swapPending = true

	case opViewport:
		// stub: result bits are not modeled beyond acknowledgement (spec 4.10)
	case opBoxTest:
		s.boxTestResult = true
	case opPosTest:
		s.posTestResult = s.ClipMatrix().transform(Vec4{W: fxOne})
	case opVecTest:
		s.vecTestResult = Vec4{}

	default:
		// Unknown commands drain their parameters with a warning (spec 4.10).
		debugWarnf("geometry: unknown opcode 0x%02X dropped", cmd.Opcode)
	}
}

func (g *GeometryEngine) lastEmittedX() fx32 { return g.lastEmitted().X }
func (g *GeometryEngine) lastEmittedY() fx32 { return g.lastEmitted().Y }
func (g *GeometryEngine) lastEmittedZ() fx32 { return g.lastEmitted().Z }
func (g *GeometryEngine) lastEmitted() Vec4 {
	s := g.state
	if n := len(s.accumulating); n > 0 {
		return s.accumulating[n-1].Pos
	}
	if n := len(s.vertexRAM); n > 0 {
		return s.vertexRAM[n-1].Pos
	}
	return Vec4{}
}

// emitVertex transforms (x,y,z,1) through the clip matrix, tags it
// with the currently latched color/uv, and appends it to the
// in-progress primitive, assembling a polygon once the primitive's
// vertex count is reached (spec 4.10).
func (g *GeometryEngine) emitVertex(x, y, z fx32) {
	s := g.state
	clip := s.ClipMatrix()
	pos := clip.transform(Vec4{X: x, Y: y, Z: z, W: fxOne})
	v := Vertex{Pos: pos, Color: s.vtxAttrs.color, U: s.vtxAttrs.u, V: s.vtxAttrs.v}
	s.accumulating = append(s.accumulating, v)

	need := s.primType.vertsPerPrimitive()
	isStrip := s.primType == PrimTriangleStrip || s.primType == PrimQuadStrip
	if isStrip && s.haveLastStrip && len(s.accumulating) == need-2 {
		// strip continuity: prepend the previous primitive's last two
		// vertices (spec 4.10) unless that primitive was itself clipped.
		if !s.stripClipped {
			prefixed := make([]Vertex, 0, need)
			prefixed = append(prefixed, s.lastStripVerts[0], s.lastStripVerts[1])
			prefixed = append(prefixed, s.accumulating...)
			s.accumulating = prefixed
		}
	}
	if len(s.accumulating) < need {
		return
	}
	g.assemblePolygon(s.accumulating[:need], isStrip)
	remainder := append([]Vertex{}, s.accumulating[need:]...)
	s.accumulating = remainder
}

// assemblePolygon clips the primitive and, if anything survives,
// appends it to polygon/vertex RAM, respecting the 2048/6144 caps
// (spec 4.10).
func (g *GeometryEngine) assemblePolygon(verts []Vertex, isStrip bool) {
	s := g.state
	clipped := clipPolygon(verts)

	if isStrip {
		if len(verts) >= 2 {
			s.lastStripVerts[0] = verts[len(verts)-2]
			s.lastStripVerts[1] = verts[len(verts)-1]
			s.haveLastStrip = true
		}
		s.stripClipped = len(clipped) != len(verts)
	}

	if len(clipped) == 0 {
		return // polygon discarded (spec 4.10)
	}
	if len(s.polygonRAM) >= maxPolygons || len(s.vertexRAM)+len(clipped) > maxVertices {
		s.overflow = true
		return
	}

	indices := make([]int, len(clipped))
	for i, v := range clipped {
		indices[i] = len(s.vertexRAM)
		s.vertexRAM = append(s.vertexRAM, v)
	}
	s.polygonRAM = append(s.polygonRAM, Polygon{
		VertexIndices:  indices,
		TexImageParam:  s.curAttrs.texImageParam,
		TexPaletteBase: s.curAttrs.texPaletteBase,
		Attr:           s.curAttrs.polygonAttr,
		Strip:          isStrip,
	})
}

func signExtend6(v uint32) int32 {
	v &= 0x3F
	if v&0x20 != 0 {
		return int32(v) - 0x40
	}
	return int32(v)
}

func signExtend10(v uint32) int32 {
	v &= 0x3FF
	if v&0x200 != 0 {
		return int32(v) - 0x400
	}
	return int32(v)
}

func toFx32Array16(p []uint32) [16]fx32 {
	var out [16]fx32
	for i := 0; i < 16 && i < len(p); i++ {
		out[i] = fx32(p[i])
	}
	return out
}

func toFx32Array12(p []uint32) [12]fx32 {
	var out [12]fx32
	for i := 0; i < 12 && i < len(p); i++ {
		out[i] = fx32(p[i])
	}
	return out
}

func toFx32Array9(p []uint32) [9]fx32 {
	var out [9]fx32
	for i := 0; i < 9 && i < len(p); i++ {
		out[i] = fx32(p[i])
	}
	return out
}
