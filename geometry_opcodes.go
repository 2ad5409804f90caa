// geometry_opcodes.go - the static 3D command opcode table (spec 4.10).
// Values match the hardware's documented GXFIFO command bytes.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	opMtxMode        byte = 0x10
	opMtxPush        byte = 0x11
	opMtxPop         byte = 0x12
	opMtxStore       byte = 0x13
	opMtxRestore     byte = 0x14
	opMtxIdentity    byte = 0x15
	opMtxLoad44      byte = 0x16
	opMtxLoad43      byte = 0x17
	opMtxMult44      byte = 0x18
	opMtxMult43      byte = 0x19
	opMtxMult33      byte = 0x1A
	opMtxScale       byte = 0x1B
	opMtxTrans       byte = 0x1C
	opColor          byte = 0x20
	opNormal         byte = 0x21
	opTexCoord       byte = 0x22
	opVtx16          byte = 0x23
	opVtx10          byte = 0x24
	opVtxXY          byte = 0x25
	opVtxXZ          byte = 0x26
	opVtxYZ          byte = 0x27
	opVtxDiff        byte = 0x28
	opPolygonAttr    byte = 0x29
	opTexImageParam  byte = 0x2A
	opTexPaletteBase byte = 0x2B
	opDifAmb         byte = 0x30
	opSpeEmi         byte = 0x31
	opLightVector    byte = 0x32
	opLightColor     byte = 0x33
	opShininess      byte = 0x34
	opBeginVtxs      byte = 0x40
	opEndVtxs        byte = 0x41
	opSwapBuffers    byte = 0x50
	opViewport       byte = 0x60
	opBoxTest        byte = 0x70
	opPosTest        byte = 0x71
	opVecTest        byte = 0x72
)

// MatrixMode selects which current matrix subsequent matrix ops apply
// to (spec 4.10).
type MatrixMode int

const (
	MatrixProjection MatrixMode = iota
	MatrixPosition
	MatrixPositionVector // updates position AND position-vector together
	MatrixTexture
)

// PrimitiveType is the vertex-grouping mode latched by Begin_vtxs.
type PrimitiveType int

const (
	PrimTriangles PrimitiveType = iota
	PrimQuads
	PrimTriangleStrip
	PrimQuadStrip
)

func (p PrimitiveType) vertsPerPrimitive() int {
	if p == PrimQuads || p == PrimQuadStrip {
		return 4
	}
	return 3
}
